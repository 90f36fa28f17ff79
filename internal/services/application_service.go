package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hirable/internal/models"
	"hirable/internal/repositories"

	"github.com/google/uuid"
)

// reportTitle is the fixed title of the summary report.
const reportTitle = "Job Applications Summary"

// EventPublisher receives application change events. Publishing is
// best-effort: failures are logged and never fail the request.
type EventPublisher interface {
	PublishApplicationEvent(event map[string]interface{}) error
}

// ApplicationService enforces the validation rules and per-user ownership
// for job-application records. Every operation is scoped to the caller's
// user identifier; records owned by other users are indistinguishable from
// missing ones.
type ApplicationService struct {
	appRepo   repositories.ApplicationRepository
	publisher EventPublisher
}

// NewApplicationService creates a new ApplicationService. publisher may be
// nil when no message broker is configured.
func NewApplicationService(appRepo repositories.ApplicationRepository, publisher EventPublisher) *ApplicationService {
	return &ApplicationService{
		appRepo:   appRepo,
		publisher: publisher,
	}
}

// validateInput applies the business rules in their fixed order. Checking
// stops at the first failure. checkStatus adds the structural status check
// the update path requires.
func validateInput(in ApplicationInput, checkStatus bool) error {
	if strings.TrimSpace(in.CompanyName) == "" || strings.TrimSpace(in.JobTitle) == "" {
		return NewValidationError("CompanyName and JobTitle are required.")
	}

	if in.MinSalary != nil && in.MaxSalary != nil && *in.MinSalary > *in.MaxSalary {
		return NewValidationError("MinSalary cannot be greater than MaxSalary.")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	appliedDate := in.AppliedOn.UTC().Truncate(24 * time.Hour)
	if appliedDate.After(today.AddDate(0, 0, 7)) {
		return NewValidationError("AppliedOn cannot be more than 7 days in the future.")
	}

	if checkStatus && !in.Status.IsValid() {
		return NewValidationError("Invalid application status.")
	}

	if in.Notes != nil && len(*in.Notes) > 2000 {
		return NewValidationError("Notes cannot exceed 2000 characters.")
	}

	if len(in.Location) > 200 {
		return NewValidationError("Location cannot exceed 200 characters.")
	}

	if len(in.Source) > 200 {
		return NewValidationError("Source cannot exceed 200 characters.")
	}

	return nil
}

// List returns the caller's applications, newest applied-on first.
func (s *ApplicationService) List(userID uint) ([]models.JobApplication, error) {
	return s.appRepo.ListByUser(userID)
}

// Search returns the caller's applications matching the filter, newest
// applied-on first.
func (s *ApplicationService) Search(userID uint, filter repositories.ApplicationFilter) ([]models.JobApplication, error) {
	return s.appRepo.Search(userID, filter)
}

// Get returns a single owned application, or ErrNotFound when the id is
// absent or owned by someone else.
func (s *ApplicationService) Get(userID, id uint) (*models.JobApplication, error) {
	app, err := s.appRepo.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return app, nil
}

// Create validates and persists a new application for the caller. The
// applied-on value is stored as its date with time-of-day forced to
// 12:00:00 UTC.
func (s *ApplicationService) Create(userID uint, in ApplicationInput) (*models.JobApplication, error) {
	if err := validateInput(in, false); err != nil {
		return nil, err
	}

	app := &models.JobApplication{
		UserID:      userID,
		CompanyName: in.CompanyName,
		JobTitle:    in.JobTitle,
		Status:      in.Status,
		AppliedOn:   models.MiddayUTC(in.AppliedOn.Time),
		Location:    in.Location,
		MinSalary:   in.MinSalary,
		MaxSalary:   in.MaxSalary,
		Source:      in.Source,
		Notes:       in.notesOrEmpty(),
	}

	if err := s.appRepo.Create(app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.publishEvent("application.created", app)
	return app, nil
}

// Update replaces all mutable fields of an owned application. The record is
// looked up under the caller's user id first, so updating a foreign or
// missing id is the same ErrNotFound. Validation matches create plus the
// structural status check.
func (s *ApplicationService) Update(userID, id uint, in ApplicationInput) error {
	app, err := s.appRepo.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := validateInput(in, true); err != nil {
		return err
	}

	app.CompanyName = in.CompanyName
	app.JobTitle = in.JobTitle
	app.Status = in.Status
	app.AppliedOn = models.MiddayUTC(in.AppliedOn.Time)
	app.Location = in.Location
	app.MinSalary = in.MinSalary
	app.MaxSalary = in.MaxSalary
	app.Source = in.Source
	app.Notes = in.notesOrEmpty()

	if err := s.appRepo.Update(app); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// The record was deleted between the lookup and the write.
			return ErrNotFound
		}
		return fmt.Errorf("failed to update application %d: %w", id, err)
	}

	s.publishEvent("application.updated", app)
	return nil
}

// Delete removes an owned application. Repeating the delete reports
// ErrNotFound rather than succeeding.
func (s *ApplicationService) Delete(userID, id uint) error {
	if err := s.appRepo.Delete(userID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete application %d: %w", id, err)
	}

	s.publishEvent("application.deleted", &models.JobApplication{ID: id, UserID: userID})
	return nil
}

// SummaryReport projects all of the caller's applications into the fixed
// report view, newest applied-on first, stamped with the generation time.
func (s *ApplicationService) SummaryReport(userID uint) (*models.ApplicationsReport, error) {
	apps, err := s.appRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary report: %w", err)
	}

	rows := make([]models.ReportRow, 0, len(apps))
	for _, app := range apps {
		rows = append(rows, models.ReportRow{
			CompanyName: app.CompanyName,
			JobTitle:    app.JobTitle,
			Status:      app.Status,
			AppliedOn:   app.AppliedOn,
			Location:    app.Location,
		})
	}

	return &models.ApplicationsReport{
		Title:       reportTitle,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}, nil
}

// publishEvent sends a change event to the broker when one is configured.
func (s *ApplicationService) publishEvent(action string, app *models.JobApplication) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"id":            uuid.New().String(),
		"action":        action,
		"applicationId": app.ID,
		"userId":        app.UserID,
		"occurredAt":    time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishApplicationEvent(event); err != nil {
		log.Printf("Failed to publish %s event for application %d: %v", action, app.ID, err)
	}
}
