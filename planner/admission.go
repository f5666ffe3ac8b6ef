package planner

import (
	"context"

	"event-planner/data/models"
	"event-planner/data/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type JoinResult struct {
	Status models.AttendeeStatus `json:"status"`
	Reused bool                  `json:"reused"`
}

// Join adds userID to the event's attendees. A user who is already ACCEPTED
// or PENDING gets their current status back with Reused set and nothing is
// written. Anyone else starts as PENDING when the event requires approval and
// ACCEPTED otherwise.
func (s *Service) Join(ctx context.Context, eventID, userID uuid.UUID) (JoinResult, error) {
	var res JoinResult
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		e, err := repo.GetEvent(ctx, eventID)
		if err != nil {
			return notFound(err, errEventNotFound)
		}
		if e.HostID == userID {
			return newError(Invariant, "host already part of event")
		}

		cur, err := repo.GetAttendee(ctx, eventID, userID)
		switch {
		case err == nil && (cur.Status == models.AttendeeAccepted || cur.Status == models.AttendeePending):
			res = JoinResult{Status: cur.Status, Reused: true}
			return nil
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return err
		}

		a := models.Attendee{
			EventID:   eventID,
			UserID:    userID,
			Status:    joinStatus(e.RequireApproval),
			CreatedAt: s.clock(),
		}
		if err := repo.UpsertAttendee(ctx, a); err != nil {
			return err
		}
		res = JoinResult{Status: a.Status}
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}

	s.log.WithFields(logrus.Fields{"event": eventID, "user": userID, "status": res.Status, "reused": res.Reused}).
		Debug("attendee joined")
	return res, nil
}

// Decide applies a host decision to one pending attendee.
func (s *Service) Decide(ctx context.Context, eventID, target uuid.UUID, d Decision, actor uuid.UUID) (models.Attendee, error) {
	if !d.Valid() {
		return models.Attendee{}, newError(Validation, "decision must be APPROVE or DECLINE")
	}

	var out models.Attendee
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		if _, err := authorize(ctx, repo, eventID, actor, ActDecideAttendee); err != nil {
			return err
		}

		cur, err := repo.GetAttendee(ctx, eventID, target)
		if err != nil {
			return notFound(err, errNotPending)
		}
		next, err := NextAttendeeStatus(cur.Status, d)
		if err != nil {
			return err
		}

		n, err := repo.SetAttendeeStatus(ctx, eventID, []uuid.UUID{target}, cur.Status, next)
		if err != nil {
			return err
		}
		if n == 0 {
			return errNotPending
		}
		cur.Status = next
		out = cur
		return nil
	})
	if err != nil {
		return models.Attendee{}, err
	}

	s.log.WithFields(logrus.Fields{"event": eventID, "user": target, "status": out.Status, "by": actor}).
		Info("attendee decided")
	return out, nil
}

type AttendeeDecision struct {
	UserID   uuid.UUID `json:"userId" validate:"required"`
	Decision Decision  `json:"decision" validate:"required,oneof=APPROVE DECLINE"`
}

type BulkResult struct {
	Accepted []uuid.UUID `json:"accepted"`
	Declined []uuid.UUID `json:"declined"`
	Skipped  []uuid.UUID `json:"skipped"`
}

// BulkDecide applies many decisions at once. Only PENDING attendees are
// changed; everyone else, including users with no attendee record, is
// reported as skipped. When a user appears more than once the last decision
// wins. Both status groups are written in the same transaction.
func (s *Service) BulkDecide(ctx context.Context, eventID uuid.UUID, decisions []AttendeeDecision, actor uuid.UUID) (BulkResult, error) {
	res := BulkResult{Accepted: []uuid.UUID{}, Declined: []uuid.UUID{}, Skipped: []uuid.UUID{}}
	if len(decisions) == 0 {
		return res, newError(Validation, "at least one decision is required")
	}

	var order []uuid.UUID
	latest := map[uuid.UUID]Decision{}
	for _, d := range decisions {
		if !d.Decision.Valid() {
			return res, newError(Validation, "decision must be APPROVE or DECLINE")
		}
		if _, seen := latest[d.UserID]; !seen {
			order = append(order, d.UserID)
		}
		latest[d.UserID] = d.Decision
	}

	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		if _, err := authorize(ctx, repo, eventID, actor, ActDecideAttendee); err != nil {
			return err
		}

		current, err := repo.ListAttendeesByUsers(ctx, eventID, order)
		if err != nil {
			return err
		}
		status := make(map[uuid.UUID]models.AttendeeStatus, len(current))
		for _, a := range current {
			status[a.UserID] = a.Status
		}

		for _, id := range order {
			cur, ok := status[id]
			if !ok {
				res.Skipped = append(res.Skipped, id)
				continue
			}
			next, err := NextAttendeeStatus(cur, latest[id])
			if err != nil {
				res.Skipped = append(res.Skipped, id)
				continue
			}
			if next == models.AttendeeAccepted {
				res.Accepted = append(res.Accepted, id)
			} else {
				res.Declined = append(res.Declined, id)
			}
		}

		if err := applyGroup(ctx, repo, eventID, res.Accepted, models.AttendeeAccepted); err != nil {
			return err
		}
		return applyGroup(ctx, repo, eventID, res.Declined, models.AttendeeDeclined)
	})
	if err != nil {
		return BulkResult{Accepted: []uuid.UUID{}, Declined: []uuid.UUID{}, Skipped: []uuid.UUID{}}, err
	}

	s.log.WithFields(logrus.Fields{
		"event":    eventID,
		"by":       actor,
		"accepted": len(res.Accepted),
		"declined": len(res.Declined),
		"skipped":  len(res.Skipped),
	}).Info("bulk attendee decisions applied")
	return res, nil
}

// applyGroup moves a whole group out of PENDING in one statement. A short
// count means someone else decided on part of the group meanwhile, and the
// transaction is abandoned.
func applyGroup(ctx context.Context, repo repository.DBRepo, eventID uuid.UUID, ids []uuid.UUID, to models.AttendeeStatus) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := repo.SetAttendeeStatus(ctx, eventID, ids, models.AttendeePending, to)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return newError(InvalidState, "attendees changed while deciding; retry")
	}
	return nil
}

type AttendeeGroups struct {
	Pending  []models.AttendeeWithUser `json:"pending"`
	Accepted []models.AttendeeWithUser `json:"accepted"`
	Declined []models.AttendeeWithUser `json:"declined"`
}

type AttendeeList struct {
	EventID         uuid.UUID                 `json:"eventId"`
	RequireApproval bool                      `json:"requireApproval"`
	Attendees       []models.AttendeeWithUser `json:"attendees"`
	Groups          AttendeeGroups            `json:"groups"`
}

// ListAttendees returns every attendee of the event, also grouped by status.
func (s *Service) ListAttendees(ctx context.Context, eventID, actor uuid.UUID) (AttendeeList, error) {
	st, err := authorize(ctx, s.repo, eventID, actor, ActListAttendees)
	if err != nil {
		return AttendeeList{}, err
	}

	all, err := s.repo.ListAttendees(ctx, eventID)
	if err != nil {
		return AttendeeList{}, err
	}

	out := AttendeeList{
		EventID:         eventID,
		RequireApproval: st.Event.RequireApproval,
		Attendees:       all,
		Groups: AttendeeGroups{
			Pending:  []models.AttendeeWithUser{},
			Accepted: []models.AttendeeWithUser{},
			Declined: []models.AttendeeWithUser{},
		},
	}
	for _, a := range all {
		switch a.Status {
		case models.AttendeePending:
			out.Groups.Pending = append(out.Groups.Pending, a)
		case models.AttendeeAccepted:
			out.Groups.Accepted = append(out.Groups.Accepted, a)
		case models.AttendeeDeclined:
			out.Groups.Declined = append(out.Groups.Declined, a)
		}
	}
	return out, nil
}

func (s *Service) ListPendingAttendees(ctx context.Context, eventID, actor uuid.UUID) ([]models.AttendeeWithUser, error) {
	if _, err := authorize(ctx, s.repo, eventID, actor, ActListAttendees); err != nil {
		return nil, err
	}
	return s.repo.ListAttendees(ctx, eventID, models.AttendeePending)
}

// MyAttendance returns the actor's own attendee record.
func (s *Service) MyAttendance(ctx context.Context, eventID, actor uuid.UUID) (models.Attendee, error) {
	st, err := authorize(ctx, s.repo, eventID, actor, ActMyAttendance)
	if err != nil {
		return models.Attendee{}, err
	}
	if st.Attendee == nil {
		return models.Attendee{}, newError(NotFound, "not attending this event")
	}
	return *st.Attendee, nil
}
