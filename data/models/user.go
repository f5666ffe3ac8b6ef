package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id" readOnly:"true"`
	Email     string    `validate:"required,email" json:"email" db:"email"`
	Name      string    `validate:"max=120" json:"name" db:"name"`
	Password  string    `validate:"required" json:"-" db:"password"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" readOnly:"true"`
}

func (User) TableName() string {
	return "users"
}

func (u User) GetID() uuid.UUID {
	return u.ID
}

func (u User) EmptySlice() interface{} {
	return &[]User{}
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the public identity attached to attendee lists, invites and
// previews.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
