package models

import "time"

// ApplicationStatus is the pipeline stage of a job application.
// It travels as a small integer on the wire; declaration order only
// affects display labels, not behavior.
type ApplicationStatus int

const (
	StatusApplied ApplicationStatus = iota
	StatusPhoneScreen
	StatusInterview
	StatusOffer
	StatusRejected
	StatusOnHold
)

// IsValid reports whether s is one of the declared statuses.
func (s ApplicationStatus) IsValid() bool {
	return s >= StatusApplied && s <= StatusOnHold
}

// String returns the display label for the status.
func (s ApplicationStatus) String() string {
	switch s {
	case StatusApplied:
		return "Applied"
	case StatusPhoneScreen:
		return "Phone Screen"
	case StatusInterview:
		return "Interview"
	case StatusOffer:
		return "Offer"
	case StatusRejected:
		return "Rejected"
	case StatusOnHold:
		return "On Hold"
	default:
		return "Unknown"
	}
}

// JobApplication is one tracked application, always owned by exactly one user.
// Location and Source carry max=100 annotations inherited from the entity
// metadata, but the enforced limit is 200 in the service rules; the
// annotation is known-inconsistent and kept as-is.
type JobApplication struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	UserID      uint              `json:"-" gorm:"not null;index"`
	User        *User             `json:"-"`
	CompanyName string            `json:"companyName" gorm:"type:varchar(100)" validate:"required,max=100"`
	JobTitle    string            `json:"jobTitle" gorm:"type:varchar(100)" validate:"required,max=100"`
	Status      ApplicationStatus `json:"status"`
	AppliedOn   time.Time         `json:"appliedOn"`
	Location    string            `json:"location" gorm:"type:varchar(200)" validate:"omitempty,max=100"`
	MinSalary   *float64          `json:"minSalary"`
	MaxSalary   *float64          `json:"maxSalary"`
	Source      string            `json:"source" gorm:"type:varchar(200)" validate:"omitempty,max=100"`
	Notes       string            `json:"notes" gorm:"type:varchar(2000)" validate:"omitempty,max=2000"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`

	Events []ApplicationEvent `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// MiddayUTC normalizes t to its date with time-of-day forced to 12:00:00 UTC.
// Storing midday avoids off-by-one-day drift when the value crosses a
// client/server midnight boundary.
func MiddayUTC(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
