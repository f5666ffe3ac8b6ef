package planner

import (
	"context"
	"strings"

	"event-planner/data/models"
	"event-planner/data/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type InviteResult struct {
	Invite models.CoHostInvite `json:"invite"`
	Reused bool                `json:"reused"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Invite invites email to co-host the event. While a PENDING invite for the
// same address exists it is returned unchanged with Reused set.
func (s *Service) Invite(ctx context.Context, eventID uuid.UUID, email string, actor uuid.UUID) (InviteResult, error) {
	email = normalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return InviteResult{}, newError(Validation, "a valid email is required")
	}

	var res InviteResult
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		st, err := authorize(ctx, repo, eventID, actor, ActInviteCoHost)
		if err != nil {
			return err
		}

		host, err := repo.GetUser(ctx, st.Event.HostID)
		if err != nil {
			return err
		}
		if strings.EqualFold(host.Email, email) {
			return newError(InvalidState, "user is already the host of this event")
		}

		var invitedUserID uuid.NullUUID
		u, err := repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			invitedUserID = uuid.NullUUID{UUID: u.ID, Valid: true}
			isCoHost, err := repo.IsCoHost(ctx, eventID, u.ID)
			if err != nil {
				return err
			}
			if isCoHost {
				return newError(InvalidState, "user is already a co-host of this event")
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		pending, err := repo.FindPendingInvite(ctx, eventID, email)
		switch {
		case err == nil:
			res = InviteResult{Invite: pending, Reused: true}
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		inv := models.CoHostInvite{
			ID:            uuid.New(),
			EventID:       eventID,
			InviterID:     actor,
			InvitedEmail:  email,
			InvitedUserID: invitedUserID,
			Status:        models.InvitePending,
			CreatedAt:     s.clock(),
		}
		if err := repo.CreateInvite(ctx, inv); err != nil {
			return err
		}
		res = InviteResult{Invite: inv}
		return nil
	})

	// A concurrent invite for the same address won the unique index; hand
	// back the one that exists.
	if errors.Is(err, repository.ErrConflict) {
		pending, ferr := s.repo.FindPendingInvite(ctx, eventID, email)
		if ferr != nil {
			return InviteResult{}, ferr
		}
		return InviteResult{Invite: pending, Reused: true}, nil
	}
	if err != nil {
		return InviteResult{}, err
	}

	if !res.Reused {
		s.log.WithFields(logrus.Fields{"event": eventID, "invite": res.Invite.ID, "by": actor}).
			Info("co-host invited")
	}
	return res, nil
}

// loadInvite fetches an invite and checks it belongs to eventID.
func loadInvite(ctx context.Context, repo repository.DBRepo, eventID, inviteID uuid.UUID) (models.CoHostInvite, error) {
	inv, err := repo.GetInvite(ctx, inviteID)
	if err != nil {
		return models.CoHostInvite{}, notFound(err, errInviteNotFound)
	}
	if inv.EventID != eventID {
		return models.CoHostInvite{}, errInviteNotFound
	}
	return inv, nil
}

// checkInvitee allows the user the invite was resolved to or, when it was
// not resolved to an account, the user whose email matches.
func checkInvitee(inv models.CoHostInvite, u models.User) error {
	if inv.InvitedUserID.Valid {
		if inv.InvitedUserID.UUID != u.ID {
			return newError(Forbidden, "this invite is not addressed to you")
		}
		return nil
	}
	if !strings.EqualFold(inv.InvitedEmail, u.Email) {
		return newError(Forbidden, "this invite is not addressed to you")
	}
	return nil
}

// respond runs the shared part of accept and decline. onSuccess runs in the
// same transaction after the invite row has moved.
func (s *Service) respond(ctx context.Context, eventID, inviteID, actor uuid.UUID, ev InviteEvent, onSuccess func(repository.DBRepo) error) (models.CoHostInvite, error) {
	var out models.CoHostInvite
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		inv, err := loadInvite(ctx, repo, eventID, inviteID)
		if err != nil {
			return err
		}
		next, err := NextInviteStatus(inv.Status, ev)
		if err != nil {
			return err
		}

		u, err := repo.GetUser(ctx, actor)
		if err != nil {
			return notFound(err, errUserNotFound)
		}
		if err := checkInvitee(inv, u); err != nil {
			return err
		}

		now := s.clock()
		from := inv.Status
		inv.Status = next
		inv.RespondedAt = &now
		if !inv.InvitedUserID.Valid {
			inv.InvitedUserID = uuid.NullUUID{UUID: actor, Valid: true}
		}

		ok, err := repo.TransitionInvite(ctx, inv, from)
		if err != nil {
			return err
		}
		if !ok {
			return newError(InvalidState, "invite is not pending")
		}
		if onSuccess != nil {
			if err := onSuccess(repo); err != nil {
				return err
			}
		}
		out = inv
		return nil
	})
	return out, err
}

// Accept makes the actor a co-host. The invite moves to ACCEPTED and the
// co-host membership is created in one transaction.
func (s *Service) Accept(ctx context.Context, eventID, inviteID, actor uuid.UUID) (models.CoHostInvite, error) {
	inv, err := s.respond(ctx, eventID, inviteID, actor, InviteAccept, func(repo repository.DBRepo) error {
		return repo.AddCoHost(ctx, eventID, actor, s.clock())
	})
	if err != nil {
		return models.CoHostInvite{}, err
	}

	s.log.WithFields(logrus.Fields{"event": eventID, "invite": inviteID, "user": actor}).
		Info("co-host invite accepted")
	return inv, nil
}

func (s *Service) Decline(ctx context.Context, eventID, inviteID, actor uuid.UUID) (models.CoHostInvite, error) {
	inv, err := s.respond(ctx, eventID, inviteID, actor, InviteDecline, nil)
	if err != nil {
		return models.CoHostInvite{}, err
	}

	s.log.WithFields(logrus.Fields{"event": eventID, "invite": inviteID, "user": actor}).
		Info("co-host invite declined")
	return inv, nil
}

// Revoke withdraws a pending invite. Host only.
func (s *Service) Revoke(ctx context.Context, eventID, inviteID, actor uuid.UUID) error {
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		if _, err := authorize(ctx, repo, eventID, actor, ActRevokeInvite); err != nil {
			return err
		}
		inv, err := loadInvite(ctx, repo, eventID, inviteID)
		if err != nil {
			return err
		}
		next, err := NextInviteStatus(inv.Status, InviteRevoke)
		if err != nil {
			return err
		}

		now := s.clock()
		inv.Status = next
		inv.RespondedAt = &now
		ok, err := repo.TransitionInvite(ctx, inv, models.InvitePending)
		if err != nil {
			return err
		}
		if !ok {
			return newError(InvalidState, "invite is not pending")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"event": eventID, "invite": inviteID}).Info("co-host invite revoked")
	return nil
}

// Remove takes co-host rights away from userID. The membership is deleted and
// the user's most recent ACCEPTED invite becomes REMOVED, in one transaction.
// Older invites and invites in any other status are left alone.
func (s *Service) Remove(ctx context.Context, eventID, userID, actor uuid.UUID) error {
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		st, err := authorize(ctx, repo, eventID, actor, ActRemoveCoHost)
		if err != nil {
			return err
		}
		if userID == st.Event.HostID {
			return newError(Invariant, "the host cannot be removed")
		}

		removed, err := repo.RemoveCoHost(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return newError(NotFound, "user is not a co-host of this event")
		}

		inv, err := repo.LatestAcceptedInvite(ctx, eventID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		next, err := NextInviteStatus(inv.Status, InviteRemove)
		if err != nil {
			return err
		}

		now := s.clock()
		inv.Status = next
		inv.RespondedAt = &now
		_, err = repo.TransitionInvite(ctx, inv, models.InviteAccepted)
		return err
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"event": eventID, "user": userID}).Info("co-host removed")
	return nil
}

type CoHostOverview struct {
	CoHosts []models.UserSummary  `json:"coHosts"`
	Invites []models.CoHostInvite `json:"invites"`
}

// ListEventInvites returns the current co-hosts and every invite of the
// event, newest first.
func (s *Service) ListEventInvites(ctx context.Context, eventID, actor uuid.UUID) (CoHostOverview, error) {
	if _, err := authorize(ctx, s.repo, eventID, actor, ActListInvites); err != nil {
		return CoHostOverview{}, err
	}

	coHosts, err := s.repo.ListCoHosts(ctx, eventID)
	if err != nil {
		return CoHostOverview{}, err
	}
	invites, err := s.repo.ListEventInvites(ctx, eventID)
	if err != nil {
		return CoHostOverview{}, err
	}
	return CoHostOverview{CoHosts: coHosts, Invites: invites}, nil
}

// ListMyInvites returns every invite sent to the actor's email address,
// across all events, newest first.
func (s *Service) ListMyInvites(ctx context.Context, actor uuid.UUID) ([]models.InviteInboxItem, error) {
	u, err := s.repo.GetUser(ctx, actor)
	if err != nil {
		return nil, notFound(err, errUserNotFound)
	}
	return s.repo.ListInvitesByEmail(ctx, u.Email)
}
