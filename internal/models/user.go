package models

import "time"

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;type:varchar(200)" validate:"required,email,max=200"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255)"` // No json output for security
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	JobApplications []JobApplication `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
