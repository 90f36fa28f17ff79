package client_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hirable/pkg/client"

	"github.com/stretchr/testify/assert"
)

// newBackendStub serves the two read endpoints Refresh hits and counts the
// list calls it receives.
func newBackendStub(t *testing.T, listCalls *int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/jobapplications", func(w http.ResponseWriter, r *http.Request) {
		*listCalls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]client.JobApplication{
			{ID: 1, CompanyName: "Acme", JobTitle: "Engineer", Status: client.StatusApplied, AppliedOn: "2025-01-01T12:00:00Z"},
		})
	})
	mux.HandleFunc("/api/jobapplications/report/summary", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(client.ApplicationsReport{
			Title:       "Job Applications Summary",
			GeneratedAt: time.Now().UTC(),
			Rows: []client.ReportRow{
				{CompanyName: "Acme", JobTitle: "Engineer", AppliedOn: "2025-01-01T12:00:00Z"},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestSessionStartsInDemoMode(t *testing.T) {
	session := client.NewSession(client.NewClient("http://unused", nil))

	assert.True(t, session.DemoMode())
	assert.Len(t, session.Jobs, 3)

	// Demo dataset is ordered by applied-on descending, like live data.
	assert.Equal(t, "Progressive", session.Jobs[0].CompanyName)
	assert.Equal(t, "Microsoft", session.Jobs[1].CompanyName)
	assert.Equal(t, "Hirable", session.Jobs[2].CompanyName)

	assert.NotNil(t, session.Report)
	assert.Equal(t, "Job Applications Summary", session.Report.Title)
	assert.Len(t, session.Report.Rows, 3)
}

func TestSessionEdgeTriggeredTransitions(t *testing.T) {
	listCalls := 0
	server := newBackendStub(t, &listCalls)
	defer server.Close()

	session := client.NewSession(client.NewClient(server.URL, nil))

	// Logging in loads live data once.
	assert.NoError(t, session.SetAuthenticated(true))
	assert.False(t, session.DemoMode())
	assert.Equal(t, 1, listCalls)
	assert.Len(t, session.Jobs, 1)
	assert.Equal(t, "Acme", session.Jobs[0].CompanyName)

	// Observing the same state again must not reload.
	assert.NoError(t, session.SetAuthenticated(true))
	assert.Equal(t, 1, listCalls)

	// Logging out swaps the demo dataset back in without backend calls.
	assert.NoError(t, session.SetAuthenticated(false))
	assert.True(t, session.DemoMode())
	assert.Equal(t, 1, listCalls)
	assert.Len(t, session.Jobs, 3)

	// Re-observing unauthenticated is a no-op too.
	assert.NoError(t, session.SetAuthenticated(false))
	assert.Equal(t, 1, listCalls)

	// A fresh login edge loads again.
	assert.NoError(t, session.SetAuthenticated(true))
	assert.Equal(t, 2, listCalls)
}

func TestSessionRefreshIsNoopInDemoMode(t *testing.T) {
	listCalls := 0
	server := newBackendStub(t, &listCalls)
	defer server.Close()

	session := client.NewSession(client.NewClient(server.URL, nil))
	assert.NoError(t, session.Refresh())
	assert.Equal(t, 0, listCalls)
	assert.Len(t, session.Jobs, 3)
}

func TestSessionDemoDataIsACopy(t *testing.T) {
	session := client.NewSession(client.NewClient("http://unused", nil))
	session.Jobs[0].CompanyName = "Mutated"

	// Re-entering demo mode restores the pristine seed.
	assert.NoError(t, session.SetAuthenticated(false))
	assert.Equal(t, "Progressive", session.Jobs[0].CompanyName)

	// Other sessions never saw the mutation.
	other := client.NewSession(client.NewClient("http://unused", nil))
	assert.Equal(t, "Progressive", other.Jobs[0].CompanyName)
}
