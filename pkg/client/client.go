// Package client is the presentation layer's access to the backend: a typed
// HTTP client for the API plus the session state that swaps between live
// data and a local demo dataset when no user is authenticated.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Application status codes as they travel on the wire.
const (
	StatusApplied = iota
	StatusPhoneScreen
	StatusInterview
	StatusOffer
	StatusRejected
	StatusOnHold
)

// StatusLabel returns the display label for a status code.
func StatusLabel(status int) string {
	switch status {
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
		return strconv.Itoa(status)
	}
}

// JobApplication is the read shape of one application.
type JobApplication struct {
	ID          uint     `json:"id"`
	CompanyName string   `json:"companyName"`
	JobTitle    string   `json:"jobTitle"`
	Status      int      `json:"status"`
	AppliedOn   string   `json:"appliedOn"`
	Location    string   `json:"location"`
	MinSalary   *float64 `json:"minSalary"`
	MaxSalary   *float64 `json:"maxSalary"`
	Source      string   `json:"source"`
	Notes       string   `json:"notes"`
}

// JobApplicationInput is the write shape for create and update.
type JobApplicationInput struct {
	CompanyName string   `json:"companyName"`
	JobTitle    string   `json:"jobTitle"`
	Status      int      `json:"status"`
	AppliedOn   string   `json:"appliedOn"`
	Location    string   `json:"location"`
	MinSalary   *float64 `json:"minSalary,omitempty"`
	MaxSalary   *float64 `json:"maxSalary,omitempty"`
	Source      string   `json:"source"`
	Notes       string   `json:"notes"`
}

// ReportRow is one line of the summary report.
type ReportRow struct {
	CompanyName string `json:"companyName"`
	JobTitle    string `json:"jobTitle"`
	Status      int    `json:"status"`
	AppliedOn   string `json:"appliedOn"`
	Location    string `json:"location"`
}

// ApplicationsReport is the summary report view.
type ApplicationsReport struct {
	Title       string      `json:"title"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Rows        []ReportRow `json:"rows"`
}

// AuthResponse carries the issued token and normalized email.
type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the API at baseURL. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// SetToken installs the bearer token used for authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&msg); decodeErr == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// Register creates an account and installs the returned token.
func (c *Client) Register(email, password string) (*AuthResponse, error) {
	var auth AuthResponse
	err := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &auth)
	if err != nil {
		return nil, err
	}
	c.token = auth.Token
	return &auth, nil
}

// Login authenticates and installs the returned token.
func (c *Client) Login(email, password string) (*AuthResponse, error) {
	var auth AuthResponse
	err := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &auth)
	if err != nil {
		return nil, err
	}
	c.token = auth.Token
	return &auth, nil
}

// List returns all of the caller's applications.
func (c *Client) List() ([]JobApplication, error) {
	var apps []JobApplication
	if err := c.do(http.MethodGet, "/api/jobapplications", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Search returns the caller's applications matching the provided filters.
// status is the wire code; pass nil to skip the status filter.
func (c *Client) Search(query string, status *int, location string) ([]JobApplication, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}
	if status != nil {
		params.Set("status", strconv.Itoa(*status))
	}
	if location != "" {
		params.Set("location", location)
	}

	path := "/api/jobapplications/search"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var apps []JobApplication
	if err := c.do(http.MethodGet, path, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Get returns a single owned application.
func (c *Client) Get(id uint) (*JobApplication, error) {
	var app JobApplication
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/jobapplications/%d", id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Create persists a new application and returns the stored record.
func (c *Client) Create(input JobApplicationInput) (*JobApplication, error) {
	var app JobApplication
	if err := c.do(http.MethodPost, "/api/jobapplications", input, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Update replaces all mutable fields of an owned application.
func (c *Client) Update(id uint, input JobApplicationInput) error {
	return c.do(http.MethodPut, fmt.Sprintf("/api/jobapplications/%d", id), input, nil)
}

// Delete removes an owned application.
func (c *Client) Delete(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/api/jobapplications/%d", id), nil, nil)
}

// SummaryReport fetches the caller's summary report.
func (c *Client) SummaryReport() (*ApplicationsReport, error) {
	var report ApplicationsReport
	if err := c.do(http.MethodGet, "/api/jobapplications/report/summary", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
