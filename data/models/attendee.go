package models

import (
	"time"

	"github.com/google/uuid"
)

type AttendeeStatus string

const (
	AttendeePending  AttendeeStatus = "PENDING"
	AttendeeAccepted AttendeeStatus = "ACCEPTED"
	AttendeeDeclined AttendeeStatus = "DECLINED"
)

func (s AttendeeStatus) Valid() bool {
	switch s {
	case AttendeePending, AttendeeAccepted, AttendeeDeclined:
		return true
	}
	return false
}

// Attendee is keyed by (EventID, UserID); there is at most one row per pair.
type Attendee struct {
	EventID   uuid.UUID      `json:"eventId" db:"event_id"`
	UserID    uuid.UUID      `json:"userId" db:"user_id"`
	Status    AttendeeStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

func (Attendee) TableName() string {
	return "event_attendees"
}

type AttendeeWithUser struct {
	Attendee
	User UserSummary `json:"user"`
}
