package planner

import (
	"context"
	"strings"
	"time"

	"event-planner/data/models"
	"event-planner/data/repository"
	"event-planner/planner/dates"

	"github.com/google/uuid"
)

// materializeDays returns the day containers for a new event: none for
// ONE_OFF, the start day for WHOLE_DAY, and every day from start to end
// inclusive for MULTI_DAY.
func materializeDays(e models.Event) []models.Day {
	var when []time.Time
	switch e.Type {
	case models.EventWholeDay:
		when = []time.Time{dates.StartOfDayUTC(e.StartDate)}
	case models.EventMultiDay:
		if e.EndDate != nil {
			when = dates.EnumerateDaysInclusiveUTC(e.StartDate, *e.EndDate)
		}
	}

	days := make([]models.Day, len(when))
	for i, d := range when {
		days[i] = models.Day{ID: uuid.New(), EventID: e.ID, Date: d}
	}
	return days
}

type CreateActivityInput struct {
	DayID       uuid.UUID  `json:"dayId" validate:"required"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartTime   time.Time  `json:"startTime" validate:"required"`
	EndTime     *time.Time `json:"endTime"`
}

// CreateActivity schedules an activity on one of the event's days. It must
// start on that day's UTC date and may not end before it starts.
func (s *Service) CreateActivity(ctx context.Context, eventID, actor uuid.UUID, in CreateActivityInput) (models.Activity, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Activity{}, newError(Validation, "title is required")
	}
	if in.StartTime.IsZero() {
		return models.Activity{}, newError(Validation, "startTime is required")
	}

	a := models.Activity{
		ID:          uuid.New(),
		DayID:       in.DayID,
		Title:       title,
		Description: in.Description,
		Location:    in.Location,
		StartTime:   in.StartTime.UTC(),
		CreatedAt:   s.clock(),
	}
	if in.EndTime != nil {
		end := in.EndTime.UTC()
		a.EndTime = &end
	}

	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		if _, err := authorize(ctx, repo, eventID, actor, ActCreateActivity); err != nil {
			return err
		}

		day, err := repo.GetDay(ctx, in.DayID)
		if err != nil {
			return notFound(err, errDayNotFound)
		}
		if day.EventID != eventID {
			return errDayNotFound
		}
		if !dates.SameUTCDay(a.StartTime, day.Date) {
			return newError(Invariant, "activity must start on %s (UTC)", day.Date.Format(time.DateOnly))
		}
		if a.EndTime != nil && a.EndTime.Before(a.StartTime) {
			return newError(Invariant, "endTime must not be before startTime")
		}
		return repo.CreateActivity(ctx, a)
	})
	if err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

// DeleteActivity removes an activity that belongs to one of the event's days.
func (s *Service) DeleteActivity(ctx context.Context, eventID, activityID, actor uuid.UUID) error {
	return s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		if _, err := authorize(ctx, repo, eventID, actor, ActDeleteActivity); err != nil {
			return err
		}

		a, err := repo.GetActivity(ctx, activityID)
		if err != nil {
			return notFound(err, errActivityNotFound)
		}
		day, err := repo.GetDay(ctx, a.DayID)
		if err != nil {
			return notFound(err, errActivityNotFound)
		}
		if day.EventID != eventID {
			return errActivityNotFound
		}
		return notFound(repo.DeleteActivity(ctx, activityID), errActivityNotFound)
	})
}
