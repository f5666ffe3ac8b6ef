package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOneOff   EventType = "ONE_OFF"
	EventWholeDay EventType = "WHOLE_DAY"
	EventMultiDay EventType = "MULTI_DAY"
)

func (t EventType) Valid() bool {
	switch t {
	case EventOneOff, EventWholeDay, EventMultiDay:
		return true
	}
	return false
}

type EventStatus string

const (
	EventPlanning  EventStatus = "PLANNING"
	EventUpcoming  EventStatus = "UPCOMING"
	EventLive      EventStatus = "LIVE"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventPlanning, EventUpcoming, EventLive, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// Event fields are declared in the same order as the events table columns.
type Event struct {
	ID              uuid.UUID   `json:"id" db:"id" readOnly:"true"`
	HostID          uuid.UUID   `json:"hostId" db:"host_id" readOnly:"true"`
	Title           string      `validate:"required,max=200" json:"title" db:"title"`
	Description     *string     `json:"description" db:"description"`
	Location        *string     `json:"location" db:"location"`
	Type            EventType   `validate:"required,oneof=ONE_OFF WHOLE_DAY MULTI_DAY" json:"type" db:"type"`
	Status          EventStatus `validate:"required,oneof=PLANNING UPCOMING LIVE COMPLETED CANCELLED" json:"status" db:"status"`
	StartDate       time.Time   `validate:"required" json:"startDate" db:"start_date"`
	EndDate         *time.Time  `json:"endDate" db:"end_date"`
	CoverImage      string      `validate:"required" json:"coverImage" db:"cover_image"`
	RequireApproval bool        `json:"requireApproval" db:"require_approval"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at" readOnly:"true"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e Event) GetID() uuid.UUID {
	return e.ID
}

func (e Event) EmptySlice() interface{} {
	return &[]Event{}
}

// EventSummary is the slice of an event shown next to invites.
type EventSummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	CoverImage string    `json:"coverImage"`
	StartDate  time.Time `json:"startDate"`
}

func (e Event) Summary() EventSummary {
	return EventSummary{ID: e.ID, Title: e.Title, CoverImage: e.CoverImage, StartDate: e.StartDate}
}
