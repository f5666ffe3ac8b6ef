package repository

import (
	"context"
	"fmt"

	"event-planner/data/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CreatePoll writes the poll, its settings and its options atomically.
func (sr *SqlRepo) CreatePoll(ctx context.Context, p models.Poll, s models.PollSettings, options []models.PollOption) error {
	return sr.InTx(ctx, func(repo DBRepo) error {
		tx := repo.(*SqlRepo)
		if err := tx.create(ctx, p); err != nil {
			return err
		}
		s.PollID = p.ID
		if err := tx.create(ctx, s); err != nil {
			return err
		}
		for _, o := range options {
			if err := tx.create(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
}

func (sr *SqlRepo) GetPoll(ctx context.Context, id uuid.UUID) (models.Poll, error) {
	var p models.Poll
	if err := sr.getModelByID(ctx, &p, id); err != nil {
		return models.Poll{}, err
	}
	return p, nil
}

func (sr *SqlRepo) UpdatePoll(ctx context.Context, p models.Poll) error {
	return sr.update(ctx, p)
}

func (sr *SqlRepo) ListPolls(ctx context.Context, eventID uuid.UUID) ([]models.Poll, error) {
	query := fmt.Sprintf("SELECT %s FROM polls WHERE event_id = $1 ORDER BY created_at DESC, id",
		selectList(models.Poll{}, ""))
	res, err := sr.queryModels(ctx, models.Poll{}, 10, query, eventID)
	if err != nil {
		return nil, err
	}
	return *res.(*[]models.Poll), nil
}

func (sr *SqlRepo) GetPollSettings(ctx context.Context, pollID uuid.UUID) (models.PollSettings, error) {
	var s models.PollSettings
	query := fmt.Sprintf("SELECT %s FROM poll_settings WHERE poll_id = $1", selectList(s, ""))
	if err := models.ScanRowToModel(&s, sr.q().QueryRowContext(ctx, query, pollID)); err != nil {
		return models.PollSettings{}, translateError(err, "error fetching poll settings")
	}
	return s, nil
}

// ListPollOptions returns the poll's options in their stored order, each with
// its total response count.
func (sr *SqlRepo) ListPollOptions(ctx context.Context, pollID uuid.UUID) ([]models.PollOptionCount, error) {
	rows, err := sr.q().QueryContext(ctx, `
		SELECT o.id, o.poll_id, o.text, o.sort_order, COUNT(r.id)
		FROM poll_options o LEFT JOIN poll_responses r ON r.poll_option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id
		ORDER BY o.sort_order`, pollID)
	if err != nil {
		return nil, errors.Wrap(err, "error listing poll options")
	}
	defer rows.Close()

	options := []models.PollOptionCount{}
	for rows.Next() {
		var o models.PollOptionCount
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Order, &o.Responses); err != nil {
			return nil, errors.Wrap(err, "error scanning poll option")
		}
		options = append(options, o)
	}
	return options, errors.Wrap(rows.Err(), "error listing poll options")
}

// ListUserSelections returns the option ids userID currently has a response
// for on the poll.
func (sr *SqlRepo) ListUserSelections(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := sr.q().QueryContext(ctx,
		"SELECT poll_option_id FROM poll_responses WHERE poll_id = $1 AND user_id = $2 ORDER BY created_at",
		pollID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "error listing selections")
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "error scanning selection")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "error listing selections")
}

// DeleteResponses removes userID's responses on the poll except those for the
// options in keep.
func (sr *SqlRepo) DeleteResponses(ctx context.Context, pollID, userID uuid.UUID, keep []uuid.UUID) error {
	query := "DELETE FROM poll_responses WHERE poll_id = $1 AND user_id = $2"
	args := []interface{}{pollID, userID}
	if len(keep) > 0 {
		query += fmt.Sprintf(" AND poll_option_id NOT IN (%s)", placeholders(3, len(keep)))
		args = append(args, uuidArgs(keep)...)
	}

	_, err := sr.q().ExecContext(ctx, query, args...)
	return errors.Wrap(err, "error deleting responses")
}

func (sr *SqlRepo) InsertResponse(ctx context.Context, r models.PollResponse) error {
	return sr.create(ctx, r)
}

// UpsertResponse is a no-op when the user already selected the option.
func (sr *SqlRepo) UpsertResponse(ctx context.Context, r models.PollResponse) error {
	query := fmt.Sprintf(
		"INSERT INTO poll_responses (%s) VALUES (%s) ON CONFLICT (user_id, poll_option_id) DO NOTHING",
		selectList(r, ""), placeholders(1, 5))
	_, err := sr.q().ExecContext(ctx, query, models.GetValsFromModel(r, false)...)
	return translateError(err, "error upserting response")
}
