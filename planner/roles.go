package planner

import (
	"context"
	"fmt"

	"event-planner/data/models"
	"event-planner/data/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Role is a user's relationship to one event. Higher roles include the
// capabilities of lower ones only where the capability table says so.
type Role int

const (
	RoleNone Role = iota
	RoleAttendee
	RoleCoHost
	RoleHost
)

func (r Role) String() string {
	switch r {
	case RoleAttendee:
		return "attendee"
	case RoleCoHost:
		return "cohost"
	case RoleHost:
		return "host"
	}
	return "none"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	for _, role := range []Role{RoleNone, RoleAttendee, RoleCoHost, RoleHost} {
		if role.String() == string(text) {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("unknown role %q", text)
}

// Standing is the resolved role of a user on an event together with the rows
// it was resolved from.
type Standing struct {
	Role  Role
	Event models.Event
	// Attendee is the user's attendee record, of any status, if one exists.
	Attendee *models.Attendee
}

func (s Standing) IsHostOrCoHost() bool {
	return s.Role == RoleHost || s.Role == RoleCoHost
}

// AttendeeStatus is nil when the user has no attendee record.
func (s Standing) AttendeeStatus() *models.AttendeeStatus {
	if s.Attendee == nil {
		return nil
	}
	st := s.Attendee.Status
	return &st
}

// Action names an operation gated by the capability table.
type Action string

const (
	ActViewEvent      Action = "view the event"
	ActListPolls      Action = "list polls"
	ActViewPoll       Action = "view polls"
	ActVote           Action = "vote in polls"
	ActMyAttendance   Action = "view attendance"
	ActUpdateEvent    Action = "update the event"
	ActListAttendees  Action = "list attendees"
	ActDecideAttendee Action = "decide on attendees"
	ActInviteCoHost   Action = "invite co-hosts"
	ActListInvites    Action = "list co-host invites"
	ActCreatePoll     Action = "create polls"
	ActUpdatePoll     Action = "update polls"
	ActCreateActivity Action = "create activities"
	ActDeleteActivity Action = "delete activities"
	ActDeleteEvent    Action = "delete the event"
	ActRevokeInvite   Action = "revoke invites"
	ActRemoveCoHost   Action = "remove co-hosts"
)

var (
	members = []Role{RoleHost, RoleCoHost, RoleAttendee}
	hosts   = []Role{RoleHost, RoleCoHost}
	owner   = []Role{RoleHost}
)

// capabilities maps every gated operation to the roles allowed to perform it.
var capabilities = map[Action][]Role{
	ActViewEvent:    members,
	ActListPolls:    members,
	ActViewPoll:     members,
	ActVote:         members,
	ActMyAttendance: members,

	ActUpdateEvent:    hosts,
	ActListAttendees:  hosts,
	ActDecideAttendee: hosts,
	ActInviteCoHost:   hosts,
	ActListInvites:    hosts,
	ActCreatePoll:     hosts,
	ActUpdatePoll:     hosts,
	ActCreateActivity: hosts,
	ActDeleteActivity: hosts,

	ActDeleteEvent:  owner,
	ActRevokeInvite: owner,
	ActRemoveCoHost: owner,
}

// Can reports whether role may perform action. Unknown actions are denied.
func Can(role Role, action Action) bool {
	for _, r := range capabilities[action] {
		if r == role {
			return true
		}
	}
	return false
}

func denied(action Action) *Error {
	switch {
	case Can(RoleAttendee, action):
		return newError(Forbidden, "not invited to event")
	case Can(RoleCoHost, action):
		return newError(Forbidden, "only the host or a co-host can %s", action)
	}
	return newError(Forbidden, "only the host can %s", action)
}

// ResolveRole determines userID's standing on the event. It only fails when
// the event does not exist; an unrelated user resolves to RoleNone.
func (s *Service) ResolveRole(ctx context.Context, eventID, userID uuid.UUID) (Standing, error) {
	return resolve(ctx, s.repo, eventID, userID)
}

func resolve(ctx context.Context, repo repository.DBRepo, eventID, userID uuid.UUID) (Standing, error) {
	e, err := repo.GetEvent(ctx, eventID)
	if err != nil {
		return Standing{}, notFound(err, errEventNotFound)
	}
	st := Standing{Event: e}

	a, err := repo.GetAttendee(ctx, eventID, userID)
	switch {
	case err == nil:
		st.Attendee = &a
	case !errors.Is(err, repository.ErrNotFound):
		return Standing{}, err
	}

	if e.HostID == userID {
		st.Role = RoleHost
		return st, nil
	}

	isCoHost, err := repo.IsCoHost(ctx, eventID, userID)
	if err != nil {
		return Standing{}, err
	}
	switch {
	case isCoHost:
		st.Role = RoleCoHost
	case st.Attendee != nil:
		st.Role = RoleAttendee
	}
	return st, nil
}

// authorize resolves the actor's standing and checks it against the
// capability table.
func authorize(ctx context.Context, repo repository.DBRepo, eventID, actor uuid.UUID, action Action) (Standing, error) {
	st, err := resolve(ctx, repo, eventID, actor)
	if err != nil {
		return Standing{}, err
	}
	if !Can(st.Role, action) {
		return Standing{}, denied(action)
	}
	return st, nil
}

// notFound replaces a repository miss with the given domain error.
func notFound(err error, nf *Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return nf
	}
	return err
}
