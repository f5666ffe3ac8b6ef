package models

import (
	"time"

	"github.com/google/uuid"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteDeclined InviteStatus = "DECLINED"
	InviteRevoked  InviteStatus = "REVOKED"
	InviteRemoved  InviteStatus = "REMOVED"
)

// CoHostInvite records one invitation of an email address to co-host an
// event. InvitedEmail is always stored lowercased.
type CoHostInvite struct {
	ID            uuid.UUID     `json:"id" db:"id" readOnly:"true"`
	EventID       uuid.UUID     `json:"eventId" db:"event_id" readOnly:"true"`
	InviterID     uuid.UUID     `json:"inviterId" db:"inviter_id" readOnly:"true"`
	InvitedEmail  string        `validate:"required,email" json:"invitedEmail" db:"invited_email" readOnly:"true"`
	InvitedUserID uuid.NullUUID `json:"invitedUserId" db:"invited_user_id"`
	Status        InviteStatus  `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at" readOnly:"true"`
	RespondedAt   *time.Time    `json:"respondedAt" db:"responded_at"`
}

func (CoHostInvite) TableName() string {
	return "cohost_invites"
}

func (i CoHostInvite) GetID() uuid.UUID {
	return i.ID
}

func (i CoHostInvite) EmptySlice() interface{} {
	return &[]CoHostInvite{}
}

// InviteInboxItem is an invite joined with its event and inviter, as listed
// in a user's personal invites inbox.
type InviteInboxItem struct {
	CoHostInvite
	Event   EventSummary `json:"event"`
	Inviter UserSummary  `json:"inviter"`
}
