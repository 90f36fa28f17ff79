package repositories

import (
	"sort"
	"strings"
	"sync"

	"hirable/internal/models"
)

// MockApplicationRepository is an in-memory implementation of
// ApplicationRepository. Substring matching is case-sensitive here, which is
// one of the collations a real store may use.
type MockApplicationRepository struct {
	apps   map[uint]models.JobApplication
	nextID uint
	mu     sync.RWMutex
}

// NewMockApplicationRepository creates a new instance of MockApplicationRepository.
func NewMockApplicationRepository() *MockApplicationRepository {
	return &MockApplicationRepository{
		apps:   make(map[uint]models.JobApplication),
		nextID: 1,
	}
}

func sortByAppliedOnDesc(apps []models.JobApplication) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].AppliedOn.After(apps[j].AppliedOn)
	})
}

// ListByUser returns all applications owned by userID, newest applied-on first.
func (r *MockApplicationRepository) ListByUser(userID uint) ([]models.JobApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]models.JobApplication, 0)
	for _, a := range r.apps {
		if a.UserID == userID {
			apps = append(apps, a)
		}
	}
	sortByAppliedOnDesc(apps)
	return apps, nil
}

// Search returns the owner's applications matching the filter.
func (r *MockApplicationRepository) Search(userID uint, filter ApplicationFilter) ([]models.JobApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]models.JobApplication, 0)
	for _, a := range r.apps {
		if a.UserID != userID {
			continue
		}
		if filter.Query != "" &&
			!strings.Contains(a.CompanyName, filter.Query) &&
			!strings.Contains(a.JobTitle, filter.Query) {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Location != "" && !strings.Contains(a.Location, filter.Location) {
			continue
		}
		apps = append(apps, a)
	}
	sortByAppliedOnDesc(apps)
	return apps, nil
}

// GetByID returns a single application owned by userID.
func (r *MockApplicationRepository) GetByID(userID, id uint) (*models.JobApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.apps[id]
	if !ok || app.UserID != userID {
		return nil, ErrNotFound
	}
	return &app, nil
}

// Create adds a new application and assigns its identifier.
func (r *MockApplicationRepository) Create(app *models.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if app.ID == 0 {
		app.ID = r.nextID
		r.nextID++
	}
	r.apps[app.ID] = *app
	return nil
}

// Update replaces an existing owned application in place.
func (r *MockApplicationRepository) Update(app *models.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.apps[app.ID]
	if !ok || existing.UserID != app.UserID {
		return ErrNotFound
	}
	r.apps[app.ID] = *app
	return nil
}

// Delete removes an owned application.
func (r *MockApplicationRepository) Delete(userID, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok || app.UserID != userID {
		return ErrNotFound
	}
	delete(r.apps, id)
	return nil
}
