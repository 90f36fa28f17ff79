package repositories

import (
	"errors"
	"fmt"

	"hirable/internal/models"

	"gorm.io/gorm"
)

// GORMApplicationRepository is a GORM implementation of ApplicationRepository.
type GORMApplicationRepository struct {
	db *gorm.DB
}

// NewGORMApplicationRepository creates a new instance of GORMApplicationRepository.
func NewGORMApplicationRepository(db *gorm.DB) *GORMApplicationRepository {
	return &GORMApplicationRepository{
		db: db,
	}
}

// ListByUser retrieves all applications owned by userID, newest applied-on first.
func (r *GORMApplicationRepository) ListByUser(userID uint) ([]models.JobApplication, error) {
	apps := make([]models.JobApplication, 0)
	err := r.db.
		Where("user_id = ?", userID).
		Order("applied_on DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications for user %d: %w", userID, err)
	}
	return apps, nil
}

// Search retrieves the owner's applications matching the filter, newest
// applied-on first. Substring matching uses the store's LIKE semantics, so
// case sensitivity follows the store's default collation.
func (r *GORMApplicationRepository) Search(userID uint, filter ApplicationFilter) ([]models.JobApplication, error) {
	query := r.db.Where("user_id = ?", userID)

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		query = query.Where("company_name LIKE ? OR job_title LIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Location != "" {
		query = query.Where("location LIKE ?", "%"+filter.Location+"%")
	}

	apps := make([]models.JobApplication, 0)
	if err := query.Order("applied_on DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to search applications for user %d: %w", userID, err)
	}
	return apps, nil
}

// GetByID retrieves a single application owned by userID.
func (r *GORMApplicationRepository) GetByID(userID, id uint) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.First(&app, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application %d: %w", id, err)
	}
	return &app, nil
}

// Create inserts a new application and assigns its identifier.
func (r *GORMApplicationRepository) Create(app *models.JobApplication) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// Update saves all fields of an application. The row must already have been
// loaded through GetByID, so ownership was checked on the lookup.
func (r *GORMApplicationRepository) Update(app *models.JobApplication) error {
	res := r.db.Model(app).
		Where("id = ? AND user_id = ?", app.ID, app.UserID).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(app)
	if res.Error != nil {
		return fmt.Errorf("failed to update application %d: %w", app.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost a race against a concurrent delete.
		return ErrNotFound
	}
	return nil
}

// Delete removes the owned application. Deleting an id that is absent or
// owned by another user reports ErrNotFound.
func (r *GORMApplicationRepository) Delete(userID, id uint) error {
	res := r.db.Delete(&models.JobApplication{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete application %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
