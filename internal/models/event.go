package models

import "time"

// EventKind discriminates the application event variants.
type EventKind string

const (
	EventKindInterview EventKind = "interview"
	EventKindFollowUp  EventKind = "follow_up"
)

// ApplicationEvent records something that happened to an application
// (an interview, a follow-up). The two shapes share a row type with a
// kind tag; payload columns not belonging to the kind stay empty.
// No endpoint serves events yet; the table exists so the cascade chain
// user -> application -> event holds.
type ApplicationEvent struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	JobApplicationID uint      `json:"jobApplicationId" gorm:"not null;index"`
	Kind             EventKind `json:"kind" gorm:"type:varchar(20)"`
	Description      string    `json:"description" gorm:"type:varchar(500)"`
	OccurredAt       time.Time `json:"occurredAt"`

	// interview payload
	InterviewType string `json:"interviewType,omitempty" gorm:"type:varchar(50)"` // e.g. Phone, Zoom, Onsite
	Interviewer   string `json:"interviewer,omitempty" gorm:"type:varchar(100)"`

	// follow-up payload
	Channel string `json:"channel,omitempty" gorm:"type:varchar(50)"` // e.g. Email, LinkedIn, Phone

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
