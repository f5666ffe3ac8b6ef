package planner

import (
	"testing"

	"event-planner/data/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin(t *testing.T) {
	t.Run("open event accepts immediately", func(t *testing.T) {
		f := newFixture(t)
		host, u := f.user(), f.user()
		e := f.event(host.ID, false)

		res, err := f.svc.Join(f.ctx, e.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, JoinResult{Status: models.AttendeeAccepted}, res)
	})

	t.Run("approval gate puts joiners in pending", func(t *testing.T) {
		f := newFixture(t)
		host, u := f.user(), f.user()
		e := f.event(host.ID, true)

		res, err := f.svc.Join(f.ctx, e.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AttendeePending, res.Status)
		assert.False(t, res.Reused)
	})

	t.Run("joining twice is idempotent", func(t *testing.T) {
		f := newFixture(t)
		host, u := f.user(), f.user()
		e := f.event(host.ID, true)

		_, err := f.svc.Join(f.ctx, e.ID, u.ID)
		require.NoError(t, err)
		res, err := f.svc.Join(f.ctx, e.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, JoinResult{Status: models.AttendeePending, Reused: true}, res)

		all, err := f.repo.ListAttendees(f.ctx, e.ID)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("host cannot join", func(t *testing.T) {
		f := newFixture(t)
		host := f.user()
		e := f.event(host.ID, false)

		_, err := f.svc.Join(f.ctx, e.ID, host.ID)
		assertKind(t, Invariant, err)
		assert.EqualError(t, err, "host already part of event")
	})

	t.Run("declined attendee rejoins through the gate", func(t *testing.T) {
		f := newFixture(t)
		host, u := f.user(), f.user()
		e := f.event(host.ID, true)
		f.attendee(e, u, models.AttendeeDeclined)

		res, err := f.svc.Join(f.ctx, e.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, JoinResult{Status: models.AttendeePending}, res)
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newFixture(t)
		u := f.user()
		_, err := f.svc.Join(f.ctx, uuid.New(), u.ID)
		assertKind(t, NotFound, err)
	})
}

func TestDecide(t *testing.T) {
	f := newFixture(t)
	host, co, u, other := f.user(), f.user(), f.user(), f.user()
	e := f.event(host.ID, true)
	f.coHost(e, co)
	_, err := f.svc.Join(f.ctx, e.ID, u.ID)
	require.NoError(t, err)
	_, err = f.svc.Join(f.ctx, e.ID, other.ID)
	require.NoError(t, err)

	t.Run("attendee cannot decide", func(t *testing.T) {
		_, err := f.svc.Decide(f.ctx, e.ID, u.ID, Approve, other.ID)
		assertKind(t, Forbidden, err)
	})

	t.Run("invalid decision", func(t *testing.T) {
		_, err := f.svc.Decide(f.ctx, e.ID, u.ID, Decision("MAYBE"), host.ID)
		assertKind(t, Validation, err)
	})

	t.Run("co-host approves", func(t *testing.T) {
		a, err := f.svc.Decide(f.ctx, e.ID, u.ID, Approve, co.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AttendeeAccepted, a.Status)

		mine, err := f.svc.MyAttendance(f.ctx, e.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AttendeeAccepted, mine.Status)
	})

	t.Run("decline after accept is rejected", func(t *testing.T) {
		_, err := f.svc.Decide(f.ctx, e.ID, u.ID, Decline, host.ID)
		assertKind(t, InvalidState, err)
		assert.EqualError(t, err, "attendee not found or not pending")
	})

	t.Run("missing attendee", func(t *testing.T) {
		_, err := f.svc.Decide(f.ctx, e.ID, uuid.New(), Approve, host.ID)
		assertKind(t, InvalidState, err)
	})

	t.Run("host declines", func(t *testing.T) {
		a, err := f.svc.Decide(f.ctx, e.ID, other.ID, Decline, host.ID)
		require.NoError(t, err)
		assert.Equal(t, models.AttendeeDeclined, a.Status)
	})
}

func TestBulkDecide(t *testing.T) {
	setup := func(t *testing.T) (*fixture, models.Event, models.User, []models.User) {
		f := newFixture(t)
		host := f.user()
		e := f.event(host.ID, true)
		users := []models.User{f.user(), f.user(), f.user()}
		f.attendee(e, users[0], models.AttendeePending)
		f.attendee(e, users[1], models.AttendeeAccepted)
		f.attendee(e, users[2], models.AttendeePending)
		return f, e, host, users
	}

	t.Run("partitions by current status", func(t *testing.T) {
		f, e, host, users := setup(t)

		res, err := f.svc.BulkDecide(f.ctx, e.ID, []AttendeeDecision{
			{UserID: users[0].ID, Decision: Approve},
			{UserID: users[1].ID, Decision: Decline},
			{UserID: users[2].ID, Decision: Decline},
		}, host.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{users[0].ID}, res.Accepted)
		assert.Equal(t, []uuid.UUID{users[2].ID}, res.Declined)
		assert.Equal(t, []uuid.UUID{users[1].ID}, res.Skipped)

		a, err := f.repo.GetAttendee(f.ctx, e.ID, users[1].ID)
		require.NoError(t, err)
		assert.Equal(t, models.AttendeeAccepted, a.Status)
	})

	t.Run("last decision wins and unknown users are skipped", func(t *testing.T) {
		f, e, host, users := setup(t)
		stranger := uuid.New()

		res, err := f.svc.BulkDecide(f.ctx, e.ID, []AttendeeDecision{
			{UserID: users[0].ID, Decision: Approve},
			{UserID: stranger, Decision: Approve},
			{UserID: users[0].ID, Decision: Decline},
		}, host.ID)
		require.NoError(t, err)
		assert.Empty(t, res.Accepted)
		assert.NotNil(t, res.Accepted)
		assert.Equal(t, []uuid.UUID{users[0].ID}, res.Declined)
		assert.Equal(t, []uuid.UUID{stranger}, res.Skipped)
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		f, e, host, _ := setup(t)
		_, err := f.svc.BulkDecide(f.ctx, e.ID, nil, host.ID)
		assertKind(t, Validation, err)
	})

	t.Run("rejects a bad decision before writing", func(t *testing.T) {
		f, e, host, users := setup(t)
		_, err := f.svc.BulkDecide(f.ctx, e.ID, []AttendeeDecision{
			{UserID: users[0].ID, Decision: Approve},
			{UserID: users[2].ID, Decision: "NOPE"},
		}, host.ID)
		assertKind(t, Validation, err)

		a, err := f.repo.GetAttendee(f.ctx, e.ID, users[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.AttendeePending, a.Status)
	})

	t.Run("attendees are forbidden", func(t *testing.T) {
		f, e, _, users := setup(t)
		_, err := f.svc.BulkDecide(f.ctx, e.ID, []AttendeeDecision{
			{UserID: users[0].ID, Decision: Approve},
		}, users[1].ID)
		assertKind(t, Forbidden, err)
	})
}

func TestListAttendees(t *testing.T) {
	f := newFixture(t)
	host, co := f.user(), f.user()
	e := f.event(host.ID, true)
	f.coHost(e, co)
	p, a, d := f.user(), f.user(), f.user()
	f.attendee(e, p, models.AttendeePending)
	f.attendee(e, a, models.AttendeeAccepted)
	f.attendee(e, d, models.AttendeeDeclined)

	list, err := f.svc.ListAttendees(f.ctx, e.ID, co.ID)
	require.NoError(t, err)
	assert.True(t, list.RequireApproval)
	require.Len(t, list.Attendees, 3)
	assert.Equal(t, p.ID, list.Attendees[0].UserID)
	assert.Equal(t, p.Email, list.Attendees[0].User.Email)
	require.Len(t, list.Groups.Pending, 1)
	require.Len(t, list.Groups.Accepted, 1)
	require.Len(t, list.Groups.Declined, 1)
	assert.Equal(t, d.ID, list.Groups.Declined[0].UserID)

	pending, err := f.svc.ListPendingAttendees(f.ctx, e.ID, host.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].UserID)

	_, err = f.svc.ListAttendees(f.ctx, e.ID, a.ID)
	assertKind(t, Forbidden, err)
}

func TestMyAttendance(t *testing.T) {
	f := newFixture(t)
	host, co, stranger := f.user(), f.user(), f.user()
	e := f.event(host.ID, false)
	f.coHost(e, co)

	_, err := f.svc.MyAttendance(f.ctx, e.ID, co.ID)
	assertKind(t, NotFound, err)

	_, err = f.svc.MyAttendance(f.ctx, e.ID, stranger.ID)
	assertKind(t, Forbidden, err)
	assert.EqualError(t, err, "not invited to event")
}
