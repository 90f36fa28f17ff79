package client

import (
	"sort"
	"time"
)

// demoSeedJobs is the read-only dataset shown while no user is
// authenticated. It is never sent to the backend.
var demoSeedJobs = []JobApplication{
	{
		ID:          1001,
		CompanyName: "Hirable",
		JobTitle:    "Software Engineer",
		Status:      StatusApplied,
		AppliedOn:   "2025-12-03",
		Location:    "Remote",
		MinSalary:   floatPtr(85000),
		MaxSalary:   floatPtr(125000),
		Source:      "Company Site",
		Notes:       "Hi, I am excited to graduate this is my final task!",
	},
	{
		ID:          1002,
		CompanyName: "Progressive",
		JobTitle:    "Software Engineer",
		Status:      StatusRejected,
		AppliedOn:   "2025-12-08",
		Location:    "Remote",
		MinSalary:   floatPtr(85000),
		MaxSalary:   floatPtr(125000),
		Source:      "Company Site",
		Notes:       "",
	},
	{
		ID:          1003,
		CompanyName: "Microsoft",
		JobTitle:    "Software Engineer",
		Status:      StatusPhoneScreen,
		AppliedOn:   "2025-12-05",
		Location:    "Remote",
		MinSalary:   floatPtr(100000),
		MaxSalary:   floatPtr(200000),
		Source:      "Referral",
		Notes:       "",
	},
}

func floatPtr(v float64) *float64 {
	return &v
}

// Session holds the presentation state for one user session: the current
// dataset, the current report, and whether the data is the local demo
// substitute or live backend data.
type Session struct {
	api *Client

	demoMode      bool
	lastAuthState *bool

	Jobs   []JobApplication
	Report *ApplicationsReport
}

// NewSession creates a session backed by api, starting unauthenticated in
// demo mode.
func NewSession(api *Client) *Session {
	s := &Session{api: api}
	s.enterDemoMode()
	return s
}

// DemoMode reports whether the session is showing the local demo dataset.
func (s *Session) DemoMode() bool {
	return s.demoMode
}

// SetAuthenticated observes the authentication state. Transitions are
// edge-triggered: re-observing the same state is a no-op, so side effects
// (loading live data, resetting the demo dataset) run once per change, not
// once per observation.
func (s *Session) SetAuthenticated(loggedIn bool) error {
	if s.lastAuthState != nil && *s.lastAuthState == loggedIn {
		return nil
	}
	observed := loggedIn
	s.lastAuthState = &observed

	if loggedIn {
		s.exitDemoMode()
		return s.Refresh()
	}
	s.enterDemoMode()
	return nil
}

// Refresh reloads the live dataset and report from the backend. It is only
// meaningful when authenticated; in demo mode it does nothing.
func (s *Session) Refresh() error {
	if s.demoMode {
		return nil
	}

	jobs, err := s.api.List()
	if err != nil {
		return err
	}
	report, err := s.api.SummaryReport()
	if err != nil {
		return err
	}

	s.Jobs = jobs
	s.Report = report
	return nil
}

func (s *Session) enterDemoMode() {
	s.demoMode = true

	s.Jobs = make([]JobApplication, len(demoSeedJobs))
	copy(s.Jobs, demoSeedJobs)
	sort.SliceStable(s.Jobs, func(i, j int) bool {
		return s.Jobs[i].AppliedOn > s.Jobs[j].AppliedOn
	})

	s.Report = s.buildDemoReport()
}

func (s *Session) exitDemoMode() {
	s.demoMode = false
	s.Jobs = nil
	s.Report = nil
}

// buildDemoReport derives the summary report locally from the demo dataset,
// mirroring the backend projection.
func (s *Session) buildDemoReport() *ApplicationsReport {
	rows := make([]ReportRow, 0, len(s.Jobs))
	for _, job := range s.Jobs {
		rows = append(rows, ReportRow{
			CompanyName: job.CompanyName,
			JobTitle:    job.JobTitle,
			Status:      job.Status,
			AppliedOn:   job.AppliedOn,
			Location:    job.Location,
		})
	}
	return &ApplicationsReport{
		Title:       "Job Applications Summary",
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}
}
