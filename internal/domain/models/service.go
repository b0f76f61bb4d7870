package models

// Service is a catalog entry describing one billable fiscal activity.
// The catalog is owned by the backend; only active services are
// selectable when composing a record.
type Service struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	BasePoints  float64 `json:"base_points"`
	Active      bool    `json:"active"`
}

// ServiceSummary is the subset of Service embedded on a line item when a
// record is read back with its items resolved.
type ServiceSummary struct {
	Description string  `json:"description"`
	BasePoints  float64 `json:"base_points"`
}
