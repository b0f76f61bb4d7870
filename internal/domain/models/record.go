package models

import "time"

// RecordStatus marks the lifecycle state of a productivity record.
// Records are never hard-deleted; deletion flips the status.
type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusDeleted RecordStatus = "deleted"
)

// LineItem is one scored unit of work inside a productivity record.
// ComputedScore is always derived by the scoring engine; it is never
// entered by hand. Quantity <= 0 means "not provided" and is treated
// as 1 for calculation and display.
type LineItem struct {
	ID            string          `json:"id,omitempty"`
	ServiceID     string          `json:"service_id"`
	DocumentID    string          `json:"document_id"`
	FiscalCount   int             `json:"fiscal_count"`
	Quantity      float64         `json:"quantity,omitempty"`
	ComputedScore float64         `json:"computed_score"`
	Notes         string          `json:"notes,omitempty"`
	Service       *ServiceSummary `json:"service,omitempty"`
}

// ProductivityRecord is the persisted unit (a PRT). It exclusively owns
// its line items: updates replace the whole item set, and TotalPoints is
// fixed at submission time as the sum of the items' computed scores.
type ProductivityRecord struct {
	ID           string       `json:"id,omitempty"`
	RecordNumber int64        `json:"record_number,omitempty"`
	Period       string       `json:"period"`
	CreatedAt    time.Time    `json:"created_at,omitempty"`
	TotalPoints  float64      `json:"total_points"`
	Status       RecordStatus `json:"status,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Items        []LineItem   `json:"items,omitempty"`
	Owner        *UserProfile `json:"owner,omitempty"`
}

// RecordFilter narrows list queries. Month is the two-digit month or
// "all"; a period filter applies only when both Month and Year are set.
// IncludeInactive is honored for admin listings only.
type RecordFilter struct {
	Month           string
	Year            string
	IncludeInactive bool
}

// Period renders the MM/YYYY competência the filter selects, or "" when
// the filter does not constrain the period.
func (f RecordFilter) Period() string {
	if f.Month == "" || f.Month == "all" || f.Year == "" {
		return ""
	}
	month := f.Month
	if len(month) < 2 {
		month = "0" + month
	}
	return month + "/" + f.Year
}
