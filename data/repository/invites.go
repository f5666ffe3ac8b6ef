package repository

import (
	"context"
	"fmt"

	"event-planner/data/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CreateInvite returns ErrConflict when a pending invite for the same event
// and email already exists.
func (sr *SqlRepo) CreateInvite(ctx context.Context, inv models.CoHostInvite) error {
	return sr.create(ctx, inv)
}

func (sr *SqlRepo) GetInvite(ctx context.Context, id uuid.UUID) (models.CoHostInvite, error) {
	var inv models.CoHostInvite
	if err := sr.getModelByID(ctx, &inv, id); err != nil {
		return models.CoHostInvite{}, err
	}
	return inv, nil
}

func (sr *SqlRepo) FindPendingInvite(ctx context.Context, eventID uuid.UUID, email string) (models.CoHostInvite, error) {
	return sr.findInvite(ctx,
		"event_id = $1 AND invited_email = lower($2) AND status = 'PENDING'",
		eventID, email)
}

// LatestAcceptedInvite returns the most recently created ACCEPTED invite that
// made userID a co-host of the event.
func (sr *SqlRepo) LatestAcceptedInvite(ctx context.Context, eventID, userID uuid.UUID) (models.CoHostInvite, error) {
	return sr.findInvite(ctx,
		"event_id = $1 AND invited_user_id = $2 AND status = 'ACCEPTED'",
		eventID, userID)
}

func (sr *SqlRepo) findInvite(ctx context.Context, cond string, args ...interface{}) (models.CoHostInvite, error) {
	var inv models.CoHostInvite
	query := fmt.Sprintf("SELECT %s FROM cohost_invites WHERE %s ORDER BY created_at DESC LIMIT 1",
		selectList(inv, ""), cond)
	r := sr.q().QueryRowContext(ctx, query, args...)
	if err := models.ScanRowToModel(&inv, r); err != nil {
		return models.CoHostInvite{}, translateError(err, "error fetching invite")
	}
	return inv, nil
}

// TransitionInvite writes inv's status, respondedAt and invitedUserId only if
// the stored invite is still in status from. It reports whether the row was
// updated, so two concurrent responders cannot both win.
func (sr *SqlRepo) TransitionInvite(ctx context.Context, inv models.CoHostInvite, from models.InviteStatus) (bool, error) {
	res, err := sr.q().ExecContext(ctx, `
		UPDATE cohost_invites SET status = $1, responded_at = $2, invited_user_id = $3
		WHERE id = $4 AND status = $5`,
		inv.Status, inv.RespondedAt, inv.InvitedUserID, inv.ID, from)
	if err != nil {
		return false, errors.Wrap(err, "error updating invite")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "error reading affected rows")
	}
	return n == 1, nil
}

func (sr *SqlRepo) ListEventInvites(ctx context.Context, eventID uuid.UUID) ([]models.CoHostInvite, error) {
	query := fmt.Sprintf("SELECT %s FROM cohost_invites WHERE event_id = $1 ORDER BY created_at DESC",
		selectList(models.CoHostInvite{}, ""))
	res, err := sr.queryModels(ctx, models.CoHostInvite{}, 10, query, eventID)
	if err != nil {
		return nil, err
	}
	return *res.(*[]models.CoHostInvite), nil
}

// ListInvitesByEmail returns every invite addressed to email, across all
// events, newest first.
func (sr *SqlRepo) ListInvitesByEmail(ctx context.Context, email string) ([]models.InviteInboxItem, error) {
	query := fmt.Sprintf(`
		SELECT %s, e.id, e.title, e.cover_image, e.start_date, u.id, u.name, u.email
		FROM cohost_invites i
		JOIN events e ON e.id = i.event_id
		JOIN users u ON u.id = i.inviter_id
		WHERE i.invited_email = lower($1)
		ORDER BY i.created_at DESC`, selectList(models.CoHostInvite{}, "i"))

	rows, err := sr.q().QueryContext(ctx, query, email)
	if err != nil {
		return nil, errors.Wrap(err, "error listing invites")
	}
	defer rows.Close()

	items := []models.InviteInboxItem{}
	for rows.Next() {
		var it models.InviteInboxItem
		inv := &it.CoHostInvite
		if err := rows.Scan(
			&inv.ID, &inv.EventID, &inv.InviterID, &inv.InvitedEmail, &inv.InvitedUserID,
			&inv.Status, &inv.CreatedAt, &inv.RespondedAt,
			&it.Event.ID, &it.Event.Title, &it.Event.CoverImage, &it.Event.StartDate,
			&it.Inviter.ID, &it.Inviter.Name, &it.Inviter.Email,
		); err != nil {
			return nil, errors.Wrap(err, "error scanning invite")
		}
		items = append(items, it)
	}
	return items, errors.Wrap(rows.Err(), "error listing invites")
}
