package models

import (
	"time"

	"github.com/google/uuid"
)

// Day is a calendar-day container for activities. Date is always midnight UTC.
type Day struct {
	ID      uuid.UUID `json:"id" db:"id" readOnly:"true"`
	EventID uuid.UUID `json:"eventId" db:"event_id" readOnly:"true"`
	Date    time.Time `json:"date" db:"date" readOnly:"true"`
}

func (Day) TableName() string {
	return "days"
}

func (d Day) GetID() uuid.UUID {
	return d.ID
}

func (d Day) EmptySlice() interface{} {
	return &[]Day{}
}

type Activity struct {
	ID          uuid.UUID  `json:"id" db:"id" readOnly:"true"`
	DayID       uuid.UUID  `json:"dayId" db:"day_id"`
	Title       string     `validate:"required,max=200" json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Location    *string    `json:"location" db:"location"`
	StartTime   time.Time  `validate:"required" json:"startTime" db:"start_time"`
	EndTime     *time.Time `json:"endTime" db:"end_time"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" readOnly:"true"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a Activity) GetID() uuid.UUID {
	return a.ID
}

func (a Activity) EmptySlice() interface{} {
	return &[]Activity{}
}
