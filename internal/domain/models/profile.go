package models

// Role is the capability level resolved by the auth layer when the user
// signs in. It travels with the profile; nothing downstream re-derives
// it from identity strings.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// UserProfile carries the report metadata for a fiscal. Matricula is
// optional; an empty string means the registration number was never
// recorded.
type UserProfile struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Login     string `json:"login"`
	Matricula string `json:"matricula,omitempty"`
	Role      Role   `json:"role"`
}

// IsAdmin reports whether the profile grants access to the cross-user
// administrative views.
func (p UserProfile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
