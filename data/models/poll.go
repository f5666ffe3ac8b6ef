package models

import (
	"time"

	"github.com/google/uuid"
)

type PollStatus string

const (
	PollOpen   PollStatus = "OPEN"
	PollClosed PollStatus = "CLOSED"
)

func (s PollStatus) Valid() bool {
	return s == PollOpen || s == PollClosed
}

type VoterPermission string

const (
	VoterAllAttendees      VoterPermission = "ALL_ATTENDEES"
	VoterAcceptedAttendees VoterPermission = "ACCEPTED_ATTENDEES"
	VoterHostsOnly         VoterPermission = "HOSTS_ONLY"
)

func (p VoterPermission) Valid() bool {
	switch p {
	case VoterAllAttendees, VoterAcceptedAttendees, VoterHostsOnly:
		return true
	}
	return false
}

type ResultVisibility string

const (
	ResultsVisibleToAll       ResultVisibility = "VISIBLE_TO_ALL"
	ResultsVisibleToHostsOnly ResultVisibility = "VISIBLE_TO_HOSTS_ONLY"
	ResultsVisibleAfterVoting ResultVisibility = "VISIBLE_AFTER_VOTING"
	ResultsHiddenUntilClosed  ResultVisibility = "HIDDEN_UNTIL_CLOSED"
)

func (v ResultVisibility) Valid() bool {
	switch v {
	case ResultsVisibleToAll, ResultsVisibleToHostsOnly, ResultsVisibleAfterVoting, ResultsHiddenUntilClosed:
		return true
	}
	return false
}

type Poll struct {
	ID          uuid.UUID  `json:"id" db:"id" readOnly:"true"`
	EventID     uuid.UUID  `json:"eventId" db:"event_id" readOnly:"true"`
	CreatorID   uuid.UUID  `json:"creatorId" db:"creator_id" readOnly:"true"`
	Title       string     `validate:"required,max=200" json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      PollStatus `validate:"required,oneof=OPEN CLOSED" json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" readOnly:"true"`
}

func (Poll) TableName() string {
	return "polls"
}

func (p Poll) GetID() uuid.UUID {
	return p.ID
}

func (p Poll) EmptySlice() interface{} {
	return &[]Poll{}
}

// PollSettings is written once, together with its poll, and never updated.
// Every column is readOnly so the generic update path has nothing to write.
type PollSettings struct {
	PollID                  uuid.UUID        `json:"-" db:"poll_id" readOnly:"true"`
	AllowMultipleSelections bool             `json:"allowMultipleSelections" db:"allow_multiple_selections" readOnly:"true"`
	VoterPermission         VoterPermission  `json:"voterPermission" db:"voter_permission" readOnly:"true"`
	ResultVisibility        ResultVisibility `json:"resultVisibility" db:"result_visibility" readOnly:"true"`
}

func (PollSettings) TableName() string {
	return "poll_settings"
}

func (s PollSettings) GetID() uuid.UUID {
	return s.PollID
}

func (s PollSettings) EmptySlice() interface{} {
	return &[]PollSettings{}
}

// DefaultPollSettings are applied to whatever a poll creator leaves unset.
func DefaultPollSettings() PollSettings {
	return PollSettings{
		AllowMultipleSelections: false,
		VoterPermission:         VoterAllAttendees,
		ResultVisibility:        ResultsVisibleToAll,
	}
}

type PollOption struct {
	ID     uuid.UUID `json:"id" db:"id" readOnly:"true"`
	PollID uuid.UUID `json:"pollId" db:"poll_id" readOnly:"true"`
	Text   string    `validate:"required" json:"text" db:"text"`
	Order  int       `json:"order" db:"sort_order"`
}

func (PollOption) TableName() string {
	return "poll_options"
}

func (o PollOption) GetID() uuid.UUID {
	return o.ID
}

func (o PollOption) EmptySlice() interface{} {
	return &[]PollOption{}
}

// PollOptionCount is an option together with its total number of responses.
type PollOptionCount struct {
	PollOption
	Responses int `json:"responses"`
}

type PollResponse struct {
	ID           uuid.UUID `json:"id" db:"id" readOnly:"true"`
	PollID       uuid.UUID `json:"pollId" db:"poll_id"`
	PollOptionID uuid.UUID `json:"pollOptionId" db:"poll_option_id"`
	UserID       uuid.UUID `json:"userId" db:"user_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" readOnly:"true"`
}

func (PollResponse) TableName() string {
	return "poll_responses"
}

func (r PollResponse) GetID() uuid.UUID {
	return r.ID
}

func (r PollResponse) EmptySlice() interface{} {
	return &[]PollResponse{}
}
