package models

import "time"

// ReportRow is one line of the summary report.
type ReportRow struct {
	CompanyName string            `json:"companyName"`
	JobTitle    string            `json:"jobTitle"`
	Status      ApplicationStatus `json:"status"`
	AppliedOn   time.Time         `json:"appliedOn"`
	Location    string            `json:"location"`
}

// ApplicationsReport is a derived view over one user's applications.
// It is never persisted; every generation re-reads the store.
type ApplicationsReport struct {
	Title       string      `json:"title"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Rows        []ReportRow `json:"rows"`
}
