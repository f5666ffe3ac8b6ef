package repository

import (
	"context"
	"fmt"

	"event-planner/data/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CreateDays inserts the days, skipping any (event, date) pair that already
// exists.
func (sr *SqlRepo) CreateDays(ctx context.Context, days []models.Day) error {
	for _, d := range days {
		_, err := sr.q().ExecContext(ctx,
			"INSERT INTO days (id, event_id, date) VALUES ($1, $2, $3) ON CONFLICT (event_id, date) DO NOTHING",
			d.ID, d.EventID, d.Date)
		if err != nil {
			return translateError(err, "error creating day")
		}
	}
	return nil
}

func (sr *SqlRepo) ListDays(ctx context.Context, eventID uuid.UUID) ([]models.Day, error) {
	query := fmt.Sprintf("SELECT %s FROM days WHERE event_id = $1 ORDER BY date", selectList(models.Day{}, ""))
	res, err := sr.queryModels(ctx, models.Day{}, 10, query, eventID)
	if err != nil {
		return nil, err
	}
	return *res.(*[]models.Day), nil
}

func (sr *SqlRepo) GetDay(ctx context.Context, id uuid.UUID) (models.Day, error) {
	var d models.Day
	if err := sr.getModelByID(ctx, &d, id); err != nil {
		return models.Day{}, err
	}
	return d, nil
}

func (sr *SqlRepo) CreateActivity(ctx context.Context, a models.Activity) error {
	return sr.create(ctx, a)
}

func (sr *SqlRepo) GetActivity(ctx context.Context, id uuid.UUID) (models.Activity, error) {
	var a models.Activity
	if err := sr.getModelByID(ctx, &a, id); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

func (sr *SqlRepo) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return sr.delete(ctx, models.Activity{ID: id})
}

// ListActivities returns the activities of every day of the event, ordered
// by start time.
func (sr *SqlRepo) ListActivities(ctx context.Context, eventID uuid.UUID) ([]models.Activity, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activities a JOIN days d ON d.id = a.day_id
		WHERE d.event_id = $1
		ORDER BY a.start_time, a.created_at`, selectList(models.Activity{}, "a"))
	res, err := sr.queryModels(ctx, models.Activity{}, 25, query, eventID)
	if err != nil {
		return nil, errors.Wrap(err, "error listing activities")
	}
	return *res.(*[]models.Activity), nil
}
