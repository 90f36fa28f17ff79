package repositories

import (
	"hirable/internal/models"
)

// ApplicationFilter carries the optional search criteria. Provided filters
// are ANDed together.
type ApplicationFilter struct {
	Query    string                    // substring on company name OR job title
	Status   *models.ApplicationStatus // exact match when set
	Location string                    // substring on location
}

// ApplicationRepository defines the interface for job-application data
// access. Every operation is scoped to the owning user: a lookup for an id
// owned by someone else behaves exactly like a lookup for a missing id.
type ApplicationRepository interface {
	ListByUser(userID uint) ([]models.JobApplication, error)
	Search(userID uint, filter ApplicationFilter) ([]models.JobApplication, error)
	GetByID(userID, id uint) (*models.JobApplication, error)
	Create(app *models.JobApplication) error
	Update(app *models.JobApplication) error
	Delete(userID, id uint) error
}
