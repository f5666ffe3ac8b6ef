package repository

import (
	"context"
	"fmt"
	"strings"

	"event-planner/data/models"

	"github.com/google/uuid"
)

func (sr *SqlRepo) CreateEvent(ctx context.Context, e models.Event) error {
	return sr.create(ctx, e)
}

func (sr *SqlRepo) GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error) {
	var e models.Event
	if err := sr.getModelByID(ctx, &e, id); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (sr *SqlRepo) UpdateEvent(ctx context.Context, e models.Event) error {
	return sr.update(ctx, e)
}

// DeleteEvent removes the event; the schema cascades to everything it owns.
func (sr *SqlRepo) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return sr.delete(ctx, models.Event{ID: id})
}

// ListEventsForUser returns the events userID hosts, co-hosts or has any
// attendee record for, filtered, sorted and paginated by queryParams.
func (sr *SqlRepo) ListEventsForUser(ctx context.Context, userID uuid.UUID, queryParams map[string]string) ([]models.Event, error) {
	qc, err := buildQueryClauses(queryParams, models.Event{}, 2, "startDate")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	where := append([]string{
		"(host_id = $1" +
			" OR EXISTS (SELECT 1 FROM co_hosts c WHERE c.event_id = events.id AND c.user_id = $1)" +
			" OR EXISTS (SELECT 1 FROM event_attendees a WHERE a.event_id = events.id AND a.user_id = $1))",
	}, qc.where...)

	query := fmt.Sprintf("SELECT %s FROM events WHERE %s %s",
		selectList(models.Event{}, ""),
		strings.Join(where, " AND "),
		qc.tail())

	args := append([]interface{}{userID}, qc.values...)
	res, err := sr.queryModels(ctx, models.Event{}, qc.limit, query, args...)
	if err != nil {
		return nil, err
	}
	return *res.(*[]models.Event), nil
}
