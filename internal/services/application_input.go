package services

import (
	"fmt"
	"strings"
	"time"

	"hirable/internal/models"
)

// Date is a timestamp that also accepts bare "YYYY-MM-DD" values on input,
// the form the frontend submits for applied-on.
type Date struct {
	time.Time
}

// UnmarshalJSON accepts either "2006-01-02" or an RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON emits RFC 3339, matching the stored representation.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}

// ApplicationInput carries the mutable fields for create and update. The
// max=100 annotations on Location and Source mirror the entity metadata but
// are not what gets enforced; the service rules cap both at 200.
type ApplicationInput struct {
	CompanyName string                   `json:"companyName" validate:"required,max=100"`
	JobTitle    string                   `json:"jobTitle" validate:"required,max=100"`
	Status      models.ApplicationStatus `json:"status"`
	AppliedOn   Date                     `json:"appliedOn"`
	Location    string                   `json:"location" validate:"omitempty,max=100"`
	MinSalary   *float64                 `json:"minSalary"`
	MaxSalary   *float64                 `json:"maxSalary"`
	Source      string                   `json:"source" validate:"omitempty,max=100"`
	Notes       *string                  `json:"notes" validate:"omitempty,max=2000"`
}

// notesOrEmpty returns the notes value, defaulting to the empty string.
func (in ApplicationInput) notesOrEmpty() string {
	if in.Notes == nil {
		return ""
	}
	return *in.Notes
}
