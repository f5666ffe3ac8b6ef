package repository

import (
	"context"
	"fmt"
	"time"

	"event-planner/data/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (sr *SqlRepo) IsCoHost(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := sr.q().QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM co_hosts WHERE event_id = $1 AND user_id = $2)",
		eventID, userID).Scan(&ok)
	if err != nil {
		return false, errors.Wrap(err, "error checking co-host")
	}
	return ok, nil
}

func (sr *SqlRepo) ListCoHosts(ctx context.Context, eventID uuid.UUID) ([]models.UserSummary, error) {
	rows, err := sr.q().QueryContext(ctx, `
		SELECT u.id, u.name, u.email
		FROM co_hosts c JOIN users u ON u.id = c.user_id
		WHERE c.event_id = $1
		ORDER BY c.created_at`, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "error listing co-hosts")
	}
	defer rows.Close()

	coHosts := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, errors.Wrap(err, "error scanning co-host")
		}
		coHosts = append(coHosts, u)
	}
	return coHosts, errors.Wrap(rows.Err(), "error listing co-hosts")
}

// AddCoHost is a no-op when the user already co-hosts the event.
func (sr *SqlRepo) AddCoHost(ctx context.Context, eventID, userID uuid.UUID, at time.Time) error {
	_, err := sr.q().ExecContext(ctx,
		"INSERT INTO co_hosts (event_id, user_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		eventID, userID, at)
	return translateError(err, "error adding co-host")
}

// RemoveCoHost reports whether a membership was removed.
func (sr *SqlRepo) RemoveCoHost(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	res, err := sr.q().ExecContext(ctx,
		"DELETE FROM co_hosts WHERE event_id = $1 AND user_id = $2", eventID, userID)
	if err != nil {
		return false, errors.Wrap(err, "error removing co-host")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "error reading affected rows")
	}
	return n > 0, nil
}

const attendeeColumns = "event_id, user_id, status, created_at"

func scanAttendee(s interface{ Scan(...interface{}) error }, a *models.Attendee) error {
	return s.Scan(&a.EventID, &a.UserID, &a.Status, &a.CreatedAt)
}

func (sr *SqlRepo) GetAttendee(ctx context.Context, eventID, userID uuid.UUID) (models.Attendee, error) {
	var a models.Attendee
	r := sr.q().QueryRowContext(ctx,
		"SELECT "+attendeeColumns+" FROM event_attendees WHERE event_id = $1 AND user_id = $2",
		eventID, userID)
	if err := scanAttendee(r, &a); err != nil {
		return models.Attendee{}, translateError(err, "error fetching attendee")
	}
	return a, nil
}

// UpsertAttendee inserts the record, or overwrites the status of the existing
// record for the same (event, user) pair.
func (sr *SqlRepo) UpsertAttendee(ctx context.Context, a models.Attendee) error {
	_, err := sr.q().ExecContext(ctx, `
		INSERT INTO event_attendees (`+attendeeColumns+`) VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO UPDATE SET status = EXCLUDED.status`,
		a.EventID, a.UserID, a.Status, a.CreatedAt)
	return translateError(err, "error upserting attendee")
}

// ListAttendees returns the event's attendees in join order, optionally
// restricted to the given statuses.
func (sr *SqlRepo) ListAttendees(ctx context.Context, eventID uuid.UUID, statuses ...models.AttendeeStatus) ([]models.AttendeeWithUser, error) {
	query := `
		SELECT a.event_id, a.user_id, a.status, a.created_at, u.id, u.name, u.email
		FROM event_attendees a JOIN users u ON u.id = a.user_id
		WHERE a.event_id = $1`
	args := []interface{}{eventID}
	if len(statuses) > 0 {
		query += fmt.Sprintf(" AND a.status IN (%s)", placeholders(2, len(statuses)))
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	query += " ORDER BY a.created_at, a.user_id"

	rows, err := sr.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error listing attendees")
	}
	defer rows.Close()

	attendees := []models.AttendeeWithUser{}
	for rows.Next() {
		var a models.AttendeeWithUser
		if err := rows.Scan(&a.EventID, &a.UserID, &a.Status, &a.CreatedAt, &a.User.ID, &a.User.Name, &a.User.Email); err != nil {
			return nil, errors.Wrap(err, "error scanning attendee")
		}
		attendees = append(attendees, a)
	}
	return attendees, errors.Wrap(rows.Err(), "error listing attendees")
}

func (sr *SqlRepo) ListAttendeesByUsers(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) ([]models.Attendee, error) {
	attendees := []models.Attendee{}
	if len(userIDs) == 0 {
		return attendees, nil
	}

	query := fmt.Sprintf("SELECT %s FROM event_attendees WHERE event_id = $1 AND user_id IN (%s)",
		attendeeColumns, placeholders(2, len(userIDs)))
	rows, err := sr.q().QueryContext(ctx, query, append([]interface{}{eventID}, uuidArgs(userIDs)...)...)
	if err != nil {
		return nil, errors.Wrap(err, "error listing attendees")
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attendee
		if err := scanAttendee(rows, &a); err != nil {
			return nil, errors.Wrap(err, "error scanning attendee")
		}
		attendees = append(attendees, a)
	}
	return attendees, errors.Wrap(rows.Err(), "error listing attendees")
}

// SetAttendeeStatus moves every listed attendee currently in status from to
// status to, in one statement, and returns the number of rows changed.
func (sr *SqlRepo) SetAttendeeStatus(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID, from, to models.AttendeeStatus) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"UPDATE event_attendees SET status = $1 WHERE event_id = $2 AND status = $3 AND user_id IN (%s)",
		placeholders(4, len(userIDs)))
	args := append([]interface{}{to, eventID, from}, uuidArgs(userIDs)...)

	res, err := sr.q().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "error updating attendee status")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "error reading affected rows")
	}
	return n, nil
}
