package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"hirable/internal/handlers"
	"hirable/internal/middleware"
	"hirable/internal/models"
	"hirable/internal/repositories"
	"hirable/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds the Fiber app against a fresh in-memory SQLite database.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	// A named shared-cache database keeps the schema alive across pooled
	// connections but stays private to this test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory database: %v", err)
	}

	err = db.AutoMigrate(&models.User{}, &models.JobApplication{}, &models.ApplicationEvent{})
	if err != nil {
		t.Fatalf("failed to auto-migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	appRepo := repositories.NewGORMApplicationRepository(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	applicationService := services.NewApplicationService(appRepo, nil) // nil publisher: no broker in tests

	authHandler := handlers.NewAuthHandler(authService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)

	app := fiber.New()
	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	protected := api.Group("", middleware.AuthRequired(authService))
	applicationHandler.RegisterRoutes(protected)

	return app
}

// TestMain suppresses handler logging for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

func registerUser(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var auth struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	decodeBody(t, resp, &auth)
	assert.NotEmpty(t, auth.Token)
	return auth.Token
}

func validApplicationBody() map[string]interface{} {
	return map[string]interface{}{
		"companyName": "Acme",
		"jobTitle":    "Engineer",
		"status":      0,
		"appliedOn":   "2025-01-01",
		"location":    "Remote",
		"source":      "Company Site",
		"notes":       "",
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	// Registration normalizes the email and returns a token with it.
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "  Alice@Example.COM ",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var auth struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	decodeBody(t, resp, &auth)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "alice@example.com", auth.Email)

	// Registering the same normalized email again conflicts.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ALICE@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login with the right password succeeds.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &auth)
	assert.NotEmpty(t, auth.Token)

	// Wrong password and unknown account return the same response shape.
	for _, creds := range []map[string]string{
		{"email": "alice@example.com", "password": "wrongpass"},
		{"email": "nobody@example.com", "password": "secret1"},
	} {
		resp = doJSON(t, app, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "Invalid credentials.", body["message"])
	}
}

func TestAuthValidation(t *testing.T) {
	app := setupApp(t)

	// Malformed email and short password are rejected before the service.
	for _, creds := range []map[string]string{
		{"email": "not-an-email", "password": "secret1"},
		{"email": "ok@example.com", "password": "short"},
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/register", "", creds)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	}
}

func TestApplicationsRequireAuth(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/jobapplications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/jobapplications", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestApplicationLifecycle(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "a@x.com", "secret1")

	// Create returns 201 with a Location header and the stored record, the
	// applied-on canonicalized to midday UTC on the submitted date.
	resp := doJSON(t, app, http.MethodPost, "/api/jobapplications", token, validApplicationBody())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	location := resp.Header.Get("Location")
	decodeBody(t, resp, &created)
	id := uint(created["id"].(float64))
	assert.NotZero(t, id)
	assert.Equal(t, fmt.Sprintf("/api/jobapplications/%d", id), location)
	assert.Equal(t, "2025-01-01T12:00:00Z", created["appliedOn"])

	// List returns exactly that record.
	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []map[string]interface{}
	decodeBody(t, resp, &listed)
	assert.Len(t, listed, 1)
	assert.Equal(t, "Acme", listed[0]["companyName"])
	assert.Equal(t, "Engineer", listed[0]["jobTitle"])

	// Get by id round-trips.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/jobapplications/%d", id), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched map[string]interface{}
	decodeBody(t, resp, &fetched)
	assert.Equal(t, "2025-01-01T12:00:00Z", fetched["appliedOn"])

	// Update replaces the mutable fields and re-normalizes applied-on.
	update := validApplicationBody()
	update["companyName"] = "Globex"
	update["status"] = 3
	update["appliedOn"] = "2025-02-10T22:15:00Z"
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/jobapplications/%d", id), token, update)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/jobapplications/%d", id), token, nil)
	decodeBody(t, resp, &fetched)
	assert.Equal(t, "Globex", fetched["companyName"])
	assert.EqualValues(t, 3, fetched["status"])
	assert.Equal(t, "2025-02-10T12:00:00Z", fetched["appliedOn"])

	// Delete, then the record is gone and a repeated delete is 404.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/jobapplications/%d", id), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications", token, nil)
	decodeBody(t, resp, &listed)
	assert.Empty(t, listed)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/jobapplications/%d", id), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestApplicationValidationRules(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "rules@x.com", "secret1")

	cases := []struct {
		name    string
		mutate  func(map[string]interface{})
		message string
	}{
		{
			name:    "blank company",
			mutate:  func(b map[string]interface{}) { b["companyName"] = "   " },
			message: "CompanyName and JobTitle are required.",
		},
		{
			name: "min salary above max",
			mutate: func(b map[string]interface{}) {
				b["minSalary"] = 90000
				b["maxSalary"] = 80000
			},
			message: "MinSalary cannot be greater than MaxSalary.",
		},
		{
			name:    "applied-on ten days ahead",
			mutate:  func(b map[string]interface{}) { b["appliedOn"] = "2099-01-01" },
			message: "AppliedOn cannot be more than 7 days in the future.",
		},
		{
			name:    "notes over 2000 characters",
			mutate:  func(b map[string]interface{}) { b["notes"] = strings.Repeat("a", 2001) },
			message: "Notes cannot exceed 2000 characters.",
		},
		{
			name:    "location over 200 characters",
			mutate:  func(b map[string]interface{}) { b["location"] = strings.Repeat("a", 201) },
			message: "Location cannot exceed 200 characters.",
		},
		{
			name:    "source over 200 characters",
			mutate:  func(b map[string]interface{}) { b["source"] = strings.Repeat("a", 201) },
			message: "Source cannot exceed 200 characters.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validApplicationBody()
			tc.mutate(body)

			resp := doJSON(t, app, http.MethodPost, "/api/jobapplications", token, body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var errBody map[string]string
			decodeBody(t, resp, &errBody)
			assert.Equal(t, tc.message, errBody["message"])
		})
	}

	// The enforced location limit is 200, not the 100 the entity metadata
	// suggests: a 150-character location is accepted.
	body := validApplicationBody()
	body["location"] = strings.Repeat("a", 150)
	resp := doJSON(t, app, http.MethodPost, "/api/jobapplications", token, body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Update additionally rejects a status outside the enumeration.
	created := validApplicationBody()
	resp = doJSON(t, app, http.MethodPost, "/api/jobapplications", token, created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var record map[string]interface{}
	decodeBody(t, resp, &record)
	id := uint(record["id"].(float64))

	update := validApplicationBody()
	update["status"] = 42
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/jobapplications/%d", id), token, update)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody map[string]string
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "Invalid application status.", errBody["message"])
}

func TestApplicationOwnershipIsolation(t *testing.T) {
	app := setupApp(t)
	tokenA := registerUser(t, app, "owner-a@x.com", "secret1")
	tokenB := registerUser(t, app, "owner-b@x.com", "secret1")

	resp := doJSON(t, app, http.MethodPost, "/api/jobapplications", tokenA, validApplicationBody())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]interface{}
	decodeBody(t, resp, &created)
	id := uint(created["id"].(float64))

	// B cannot see A's record through any read path.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/jobapplications/%d", id), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications", tokenB, nil)
	var listed []map[string]interface{}
	decodeBody(t, resp, &listed)
	assert.Empty(t, listed)

	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications/search?query=Acme", tokenB, nil)
	decodeBody(t, resp, &listed)
	assert.Empty(t, listed)

	// B's update on A's id is indistinguishable from a nonexistent id.
	respForeign := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/jobapplications/%d", id), tokenB, validApplicationBody())
	respMissing := doJSON(t, app, http.MethodPut, "/api/jobapplications/999999", tokenB, validApplicationBody())
	assert.Equal(t, http.StatusNotFound, respForeign.StatusCode)
	assert.Equal(t, respMissing.StatusCode, respForeign.StatusCode)
	foreignBody, _ := io.ReadAll(respForeign.Body)
	missingBody, _ := io.ReadAll(respMissing.Body)
	assert.Equal(t, missingBody, foreignBody)
	respForeign.Body.Close()
	respMissing.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/jobapplications/%d", id), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// A still owns the intact record.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/jobapplications/%d", id), tokenA, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestApplicationSearch(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "search@x.com", "secret1")

	seed := []struct {
		company, title, location string
		status                   int
		appliedOn                string
	}{
		{"Acme", "Engineer", "Remote", 0, "2025-01-01"},
		{"Globex", "Acme Integrator", "Berlin", 2, "2025-01-05"},
		{"Initech", "Analyst", "Remote", 0, "2025-01-03"},
	}
	for _, s := range seed {
		body := validApplicationBody()
		body["companyName"] = s.company
		body["jobTitle"] = s.title
		body["location"] = s.location
		body["status"] = s.status
		body["appliedOn"] = s.appliedOn
		resp := doJSON(t, app, http.MethodPost, "/api/jobapplications", token, body)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// query matches company name OR job title, newest applied-on first.
	resp := doJSON(t, app, http.MethodGet, "/api/jobapplications/search?query=Acme", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var found []map[string]interface{}
	decodeBody(t, resp, &found)
	assert.Len(t, found, 2)
	assert.Equal(t, "Globex", found[0]["companyName"])
	assert.Equal(t, "Acme", found[1]["companyName"])

	// status and location filters are ANDed in.
	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications/search?status=0&location=Remote", token, nil)
	decodeBody(t, resp, &found)
	assert.Len(t, found, 2)

	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications/search?query=Acme&status=0&location=Berlin", token, nil)
	decodeBody(t, resp, &found)
	assert.Empty(t, found)

	// No filters behaves like list.
	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications/search", token, nil)
	decodeBody(t, resp, &found)
	assert.Len(t, found, 3)
	assert.Equal(t, "Globex", found[0]["companyName"])
	assert.Equal(t, "Initech", found[1]["companyName"])
	assert.Equal(t, "Acme", found[2]["companyName"])

	resp = doJSON(t, app, http.MethodGet, "/api/jobapplications/search?status=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSummaryReport(t *testing.T) {
	app := setupApp(t)
	token := registerUser(t, app, "report@x.com", "secret1")

	for _, s := range []struct {
		company   string
		appliedOn string
	}{
		{"Acme", "2025-01-01"},
		{"Globex", "2025-02-01"},
		{"Initech", "2025-01-15"},
	} {
		body := validApplicationBody()
		body["companyName"] = s.company
		body["appliedOn"] = s.appliedOn
		resp := doJSON(t, app, http.MethodPost, "/api/jobapplications", token, body)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/jobapplications/report/summary", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var report struct {
		Title       string `json:"title"`
		GeneratedAt string `json:"generatedAt"`
		Rows        []struct {
			CompanyName string `json:"companyName"`
			AppliedOn   string `json:"appliedOn"`
		} `json:"rows"`
	}
	decodeBody(t, resp, &report)
	assert.Equal(t, "Job Applications Summary", report.Title)
	assert.NotEmpty(t, report.GeneratedAt)
	assert.Len(t, report.Rows, 3)
	assert.Equal(t, "Globex", report.Rows[0].CompanyName)
	assert.Equal(t, "Initech", report.Rows[1].CompanyName)
	assert.Equal(t, "Acme", report.Rows[2].CompanyName)
}
