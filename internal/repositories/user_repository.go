package repositories

import (
	"errors"

	"hirable/internal/models"
)

// ErrNotFound is returned when a record does not exist or is not visible
// to the caller. The two causes are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned when a user with the same email already
// exists, whether detected by lookup or by the store's unique constraint.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}
