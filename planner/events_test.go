package planner

import (
	"testing"
	"time"

	"event-planner/data/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventDays(t *testing.T) {
	start := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		typ     models.EventType
		end     *time.Time
		days    []string
		wantEnd bool
	}{
		{"one-off has no days", models.EventOneOff, &end, nil, true},
		{"whole day has one day and no end", models.EventWholeDay, &end, []string{"2025-06-01"}, false},
		{"multi-day spans inclusively", models.EventMultiDay, &end, []string{"2025-06-01", "2025-06-02", "2025-06-03"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			host := f.user()

			d, err := f.svc.CreateEvent(f.ctx, host.ID, CreateEventInput{
				Title:      "Offsite",
				Type:       tt.typ,
				StartDate:  start,
				EndDate:    tt.end,
				CoverImage: "cover.png",
			})
			require.NoError(t, err)
			assert.Equal(t, RoleHost, d.Role)
			assert.Equal(t, host.ID, d.Host.ID)
			assert.Equal(t, models.EventPlanning, d.Status)
			assert.Equal(t, tt.wantEnd, d.EndDate != nil)

			got := []string{}
			for _, day := range d.Days {
				got = append(got, day.Date.Format(time.DateOnly))
				assert.NotNil(t, day.Activities)
			}
			if tt.days == nil {
				tt.days = []string{}
			}
			assert.Equal(t, tt.days, got)
		})
	}
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)
	host := f.user()
	start := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	valid := func(mod func(*CreateEventInput)) CreateEventInput {
		end := start.Add(time.Hour)
		in := CreateEventInput{Title: "Party", Type: models.EventOneOff, StartDate: start, EndDate: &end, CoverImage: "c.png"}
		mod(&in)
		return in
	}

	tests := []struct {
		name string
		in   CreateEventInput
		kind Kind
	}{
		{"missing title", valid(func(in *CreateEventInput) { in.Title = "  " }), Validation},
		{"unknown type", valid(func(in *CreateEventInput) { in.Type = "WEEKLY" }), Validation},
		{"missing cover", valid(func(in *CreateEventInput) { in.CoverImage = "" }), Validation},
		{"one-off without end", valid(func(in *CreateEventInput) { in.EndDate = nil }), Validation},
		{"multi-day without end", valid(func(in *CreateEventInput) { in.Type, in.EndDate = models.EventMultiDay, nil }), Validation},
		{"end before start", valid(func(in *CreateEventInput) { in.EndDate = &before }), Invariant},
		{"bad status", valid(func(in *CreateEventInput) { in.Status = ptr(models.EventStatus("DONE")) }), Validation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateEvent(f.ctx, host.ID, tt.in)
			assertKind(t, tt.kind, err)
		})
	}

	t.Run("whole day ignores an earlier end", func(t *testing.T) {
		_, err := f.svc.CreateEvent(f.ctx, host.ID, valid(func(in *CreateEventInput) {
			in.Type, in.EndDate = models.EventWholeDay, &before
		}))
		require.NoError(t, err)
	})

	t.Run("unknown host", func(t *testing.T) {
		_, err := f.svc.CreateEvent(f.ctx, uuid.New(), valid(func(*CreateEventInput) {}))
		assertKind(t, NotFound, err)
	})
}

func TestGetEvent(t *testing.T) {
	f := newFixture(t)
	host, co, a, stranger := f.user(), f.user(), f.user(), f.user()
	e := f.event(host.ID, true)
	f.coHost(e, co)
	f.attendee(e, a, models.AttendeePending)

	d, err := f.svc.GetEvent(f.ctx, e.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleAttendee, d.Role)
	require.NotNil(t, d.MyStatus)
	assert.Equal(t, models.AttendeePending, *d.MyStatus)
	require.Len(t, d.CoHosts, 1)
	assert.Equal(t, co.ID, d.CoHosts[0].ID)
	assert.Len(t, d.Days, 3)

	_, err = f.svc.GetEvent(f.ctx, e.ID, stranger.ID)
	assertKind(t, Forbidden, err)

	p, err := f.svc.PreviewEvent(f.ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, host.Name, p.HostName)
	assert.True(t, p.RequireApproval)

	_, err = f.svc.PreviewEvent(f.ctx, uuid.New())
	assertKind(t, NotFound, err)
}

func TestUpdateEvent(t *testing.T) {
	f := newFixture(t)
	host, co, a := f.user(), f.user(), f.user()
	e := f.event(host.ID, false)
	f.coHost(e, co)
	f.attendee(e, a, models.AttendeeAccepted)

	got, err := f.svc.UpdateEvent(f.ctx, e.ID, co.ID, UpdateEventInput{
		Title:           ptr("Renamed"),
		Location:        ptr("Lisbon"),
		Status:          ptr(models.EventUpcoming),
		RequireApproval: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "Lisbon", *got.Location)
	assert.True(t, got.RequireApproval)
	assert.True(t, got.UpdatedAt.After(e.UpdatedAt))
	assert.Equal(t, e.StartDate, got.StartDate)

	got, err = f.svc.UpdateEvent(f.ctx, e.ID, host.ID, UpdateEventInput{Location: ptr(" ")})
	require.NoError(t, err)
	assert.Nil(t, got.Location)

	_, err = f.svc.UpdateEvent(f.ctx, e.ID, a.ID, UpdateEventInput{Title: ptr("x")})
	assertKind(t, Forbidden, err)

	_, err = f.svc.UpdateEvent(f.ctx, e.ID, host.ID, UpdateEventInput{Title: ptr("")})
	assertKind(t, Validation, err)
}

func TestDeleteEvent(t *testing.T) {
	f := newFixture(t)
	host, co := f.user(), f.user()
	e := f.event(host.ID, false)
	f.coHost(e, co)

	err := f.svc.DeleteEvent(f.ctx, e.ID, co.ID)
	assertKind(t, Forbidden, err)
	assert.EqualError(t, err, "only the host can delete the event")

	require.NoError(t, f.svc.DeleteEvent(f.ctx, e.ID, host.ID))
	_, err = f.svc.GetEvent(f.ctx, e.ID, host.ID)
	assertKind(t, NotFound, err)
}

func TestListMyEvents(t *testing.T) {
	f := newFixture(t)
	host, a, stranger := f.user(), f.user(), f.user()
	hosted := f.event(host.ID, false)
	attending := f.event(stranger.ID, false)
	f.attendee(attending, host, models.AttendeePending)
	f.event(stranger.ID, false)

	events, err := f.svc.ListMyEvents(f.ctx, host.ID, map[string]string{})
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{hosted.ID, attending.ID}, ids)

	events, err = f.svc.ListMyEvents(f.ctx, a.ID, map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = f.svc.ListMyEvents(f.ctx, host.ID, map[string]string{"limit": "-1"})
	assertKind(t, Validation, err)

	_, err = f.svc.ListMyEvents(f.ctx, host.ID, map[string]string{"sortBy": "nope"})
	assertKind(t, Validation, err)
}
