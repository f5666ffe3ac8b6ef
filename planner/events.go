package planner

import (
	"context"
	"strings"
	"time"

	"event-planner/data/models"
	"event-planner/data/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type CreateEventInput struct {
	Title           string              `json:"title" validate:"required,max=200"`
	Description     *string             `json:"description"`
	Location        *string             `json:"location"`
	Type            models.EventType    `json:"type" validate:"required,oneof=ONE_OFF WHOLE_DAY MULTI_DAY"`
	Status          *models.EventStatus `json:"status" validate:"omitempty,oneof=PLANNING UPCOMING LIVE COMPLETED CANCELLED"`
	StartDate       time.Time           `json:"startDate" validate:"required"`
	EndDate         *time.Time          `json:"endDate"`
	CoverImage      string              `json:"coverImage" validate:"required"`
	RequireApproval bool                `json:"requireApproval"`
}

type DaySchedule struct {
	models.Day
	Activities []models.Activity `json:"activities"`
}

type EventDetail struct {
	models.Event
	Role    Role                 `json:"role"`
	Host    models.UserSummary   `json:"host"`
	CoHosts []models.UserSummary `json:"coHosts"`
	Days    []DaySchedule        `json:"days"`
	// MyStatus is the viewer's attendee status, if they have a record.
	MyStatus *models.AttendeeStatus `json:"myStatus,omitempty"`
}

// EventPreview is what a join link shows to someone not yet in the event.
type EventPreview struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Description     *string            `json:"description"`
	Location        *string            `json:"location"`
	Type            models.EventType   `json:"type"`
	Status          models.EventStatus `json:"status"`
	StartDate       time.Time          `json:"startDate"`
	EndDate         *time.Time         `json:"endDate"`
	CoverImage      string             `json:"coverImage"`
	RequireApproval bool               `json:"requireApproval"`
	HostName        string             `json:"hostName"`
}

// CreateEvent creates an event hosted by actor together with its day
// containers.
func (s *Service) CreateEvent(ctx context.Context, actor uuid.UUID, in CreateEventInput) (EventDetail, error) {
	now := s.clock()
	e := models.Event{
		ID:              uuid.New(),
		HostID:          actor,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Location:        in.Location,
		Type:            in.Type,
		Status:          models.EventPlanning,
		StartDate:       in.StartDate.UTC(),
		CoverImage:      strings.TrimSpace(in.CoverImage),
		RequireApproval: in.RequireApproval,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Status != nil {
		e.Status = *in.Status
	}
	if in.EndDate != nil && e.Type != models.EventWholeDay {
		end := in.EndDate.UTC()
		e.EndDate = &end
	}

	if err := checkEvent(e); err != nil {
		return EventDetail{}, err
	}

	var detail EventDetail
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		if _, err := repo.GetUser(ctx, actor); err != nil {
			return notFound(err, errUserNotFound)
		}
		if err := repo.CreateEvent(ctx, e); err != nil {
			return err
		}
		if err := repo.CreateDays(ctx, materializeDays(e)); err != nil {
			return err
		}
		st := Standing{Role: RoleHost, Event: e}
		var err error
		detail, err = buildEventDetail(ctx, repo, st)
		return err
	})
	if err != nil {
		return EventDetail{}, err
	}

	s.log.WithFields(logrus.Fields{"event": e.ID, "host": actor, "type": e.Type, "days": len(detail.Days)}).
		Info("event created")
	return detail, nil
}

// checkEvent enforces the type and date rules shared by create and update.
func checkEvent(e models.Event) error {
	if e.Title == "" {
		return newError(Validation, "title is required")
	}
	if !e.Type.Valid() {
		return newError(Validation, "type must be one of ONE_OFF, WHOLE_DAY, MULTI_DAY")
	}
	if !e.Status.Valid() {
		return newError(Validation, "invalid status %q", e.Status)
	}
	if e.StartDate.IsZero() {
		return newError(Validation, "startDate is required")
	}
	if e.CoverImage == "" {
		return newError(Validation, "coverImage is required")
	}
	if (e.Type == models.EventOneOff || e.Type == models.EventMultiDay) && e.EndDate == nil {
		return newError(Validation, "endDate is required for %s events", e.Type)
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return newError(Invariant, "endDate must not be before startDate")
	}
	if err := models.ValidateModel(e); err != nil {
		return newError(Validation, "%s", err.Error())
	}
	return nil
}

func buildEventDetail(ctx context.Context, repo repository.DBRepo, st Standing) (EventDetail, error) {
	host, err := repo.GetUser(ctx, st.Event.HostID)
	if err != nil {
		return EventDetail{}, err
	}
	coHosts, err := repo.ListCoHosts(ctx, st.Event.ID)
	if err != nil {
		return EventDetail{}, err
	}
	days, err := repo.ListDays(ctx, st.Event.ID)
	if err != nil {
		return EventDetail{}, err
	}
	activities, err := repo.ListActivities(ctx, st.Event.ID)
	if err != nil {
		return EventDetail{}, err
	}

	byDay := map[uuid.UUID][]models.Activity{}
	for _, a := range activities {
		byDay[a.DayID] = append(byDay[a.DayID], a)
	}
	schedule := make([]DaySchedule, len(days))
	for i, d := range days {
		schedule[i] = DaySchedule{Day: d, Activities: byDay[d.ID]}
		if schedule[i].Activities == nil {
			schedule[i].Activities = []models.Activity{}
		}
	}

	return EventDetail{
		Event:    st.Event,
		Role:     st.Role,
		Host:     host.Summary(),
		CoHosts:  coHosts,
		Days:     schedule,
		MyStatus: st.AttendeeStatus(),
	}, nil
}

// GetEvent returns the event with its people and schedule to any member.
func (s *Service) GetEvent(ctx context.Context, eventID, actor uuid.UUID) (EventDetail, error) {
	st, err := authorize(ctx, s.repo, eventID, actor, ActViewEvent)
	if err != nil {
		return EventDetail{}, err
	}
	return buildEventDetail(ctx, s.repo, st)
}

// PreviewEvent is open to any authenticated user.
func (s *Service) PreviewEvent(ctx context.Context, eventID uuid.UUID) (EventPreview, error) {
	e, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return EventPreview{}, notFound(err, errEventNotFound)
	}
	host, err := s.repo.GetUser(ctx, e.HostID)
	if err != nil {
		return EventPreview{}, err
	}

	return EventPreview{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Location:        e.Location,
		Type:            e.Type,
		Status:          e.Status,
		StartDate:       e.StartDate,
		EndDate:         e.EndDate,
		CoverImage:      e.CoverImage,
		RequireApproval: e.RequireApproval,
		HostName:        host.Name,
	}, nil
}

// ListMyEvents lists the events the actor hosts, co-hosts or attends.
// queryParams filter, sort and paginate the result, e.g.
// status_anyOf=LIVE,UPCOMING&sortBy=-startDate&limit=20.
func (s *Service) ListMyEvents(ctx context.Context, actor uuid.UUID, queryParams map[string]string) ([]models.Event, error) {
	events, err := s.repo.ListEventsForUser(ctx, actor, queryParams)
	if errors.Is(err, repository.ErrInvalidQuery) {
		return nil, newError(Validation, "%s", err.Error())
	}
	return events, err
}

// UpdateEventInput holds the event fields that may change after creation.
// An empty description or location clears it.
type UpdateEventInput struct {
	Title           *string             `json:"title" validate:"omitempty,max=200"`
	Description     *string             `json:"description"`
	Location        *string             `json:"location"`
	CoverImage      *string             `json:"coverImage"`
	Status          *models.EventStatus `json:"status" validate:"omitempty,oneof=PLANNING UPCOMING LIVE COMPLETED CANCELLED"`
	RequireApproval *bool               `json:"requireApproval"`
}

func (s *Service) UpdateEvent(ctx context.Context, eventID, actor uuid.UUID, in UpdateEventInput) (models.Event, error) {
	var out models.Event
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		st, err := authorize(ctx, repo, eventID, actor, ActUpdateEvent)
		if err != nil {
			return err
		}

		e := st.Event
		if in.Title != nil {
			e.Title = strings.TrimSpace(*in.Title)
		}
		if in.Description != nil {
			e.Description = emptyToNil(in.Description)
		}
		if in.Location != nil {
			e.Location = emptyToNil(in.Location)
		}
		if in.CoverImage != nil {
			e.CoverImage = strings.TrimSpace(*in.CoverImage)
		}
		if in.Status != nil {
			e.Status = *in.Status
		}
		if in.RequireApproval != nil {
			e.RequireApproval = *in.RequireApproval
		}
		e.UpdatedAt = s.clock()

		if err := checkEvent(e); err != nil {
			return err
		}
		if err := repo.UpdateEvent(ctx, e); err != nil {
			return notFound(err, errEventNotFound)
		}
		out = e
		return nil
	})
	if err != nil {
		return models.Event{}, err
	}
	return out, nil
}

func emptyToNil(s *string) *string {
	if strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// DeleteEvent deletes the event and everything attached to it. Host only.
func (s *Service) DeleteEvent(ctx context.Context, eventID, actor uuid.UUID) error {
	err := s.repo.InTx(ctx, func(repo repository.DBRepo) error {
		if _, err := authorize(ctx, repo, eventID, actor, ActDeleteEvent); err != nil {
			return err
		}
		return notFound(repo.DeleteEvent(ctx, eventID), errEventNotFound)
	})
	if err != nil {
		return err
	}

	s.log.WithField("event", eventID).Info("event deleted")
	return nil
}
