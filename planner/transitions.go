package planner

import "event-planner/data/models"

// InviteEvent is something that happens to a co-host invite.
type InviteEvent int

const (
	InviteAccept InviteEvent = iota
	InviteDecline
	InviteRevoke
	InviteRemove
)

// NextInviteStatus is the co-host invite state machine. Accept, decline and
// revoke only apply to a PENDING invite; remove only to an ACCEPTED one.
// Any other combination is an InvalidState error.
func NextInviteStatus(cur models.InviteStatus, ev InviteEvent) (models.InviteStatus, error) {
	switch ev {
	case InviteAccept, InviteDecline, InviteRevoke:
		if cur != models.InvitePending {
			return cur, newError(InvalidState, "invite is not pending")
		}
		switch ev {
		case InviteAccept:
			return models.InviteAccepted, nil
		case InviteDecline:
			return models.InviteDeclined, nil
		}
		return models.InviteRevoked, nil
	case InviteRemove:
		if cur != models.InviteAccepted {
			return cur, newError(InvalidState, "invite is not accepted")
		}
		return models.InviteRemoved, nil
	}
	return cur, newError(Internal, "unknown invite event %d", ev)
}

// Decision is a host's verdict on a pending attendee.
type Decision string

const (
	Approve Decision = "APPROVE"
	Decline Decision = "DECLINE"
)

func (d Decision) Valid() bool {
	return d == Approve || d == Decline
}

var errNotPending = &Error{InvalidState, "attendee not found or not pending"}

// NextAttendeeStatus is the attendee state machine for host decisions. Only
// a PENDING attendee can be decided on.
func NextAttendeeStatus(cur models.AttendeeStatus, d Decision) (models.AttendeeStatus, error) {
	if cur != models.AttendeePending {
		return cur, errNotPending
	}
	switch d {
	case Approve:
		return models.AttendeeAccepted, nil
	case Decline:
		return models.AttendeeDeclined, nil
	}
	return cur, newError(Validation, "decision must be APPROVE or DECLINE")
}

// joinStatus is the status a fresh join starts in.
func joinStatus(requireApproval bool) models.AttendeeStatus {
	if requireApproval {
		return models.AttendeePending
	}
	return models.AttendeeAccepted
}
