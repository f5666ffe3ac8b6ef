package planner

import (
	"context"
	"sync"
	"testing"
	"time"

	"event-planner/data/models"
	"event-planner/data/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t    *testing.T
	ctx  context.Context
	svc  *Service
	repo *repository.MemRepo
	logs *test.Hook
}

// tickingClock advances one second per call so rows created in sequence have
// distinct timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	cur := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Second)
		return cur
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	repo := repository.NewMemRepo()
	return &fixture{
		t:    t,
		ctx:  context.Background(),
		svc:  NewService(repo, logger, WithClock(tickingClock())),
		repo: repo,
		logs: hook,
	}
}

func (f *fixture) user() models.User {
	f.t.Helper()
	u, err := f.svc.RegisterUser(f.ctx, gofakeit.Email(), gofakeit.Name(), "hash")
	require.NoError(f.t, err)
	return u
}

func (f *fixture) event(host uuid.UUID, requireApproval bool) models.Event {
	f.t.Helper()
	end := time.Date(2025, 3, 3, 2, 0, 0, 0, time.UTC)
	d, err := f.svc.CreateEvent(f.ctx, host, CreateEventInput{
		Title:           gofakeit.LoremIpsumSentence(3),
		Type:            models.EventMultiDay,
		StartDate:       time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		EndDate:         &end,
		CoverImage:      "cover.png",
		RequireApproval: requireApproval,
	})
	require.NoError(f.t, err)
	return d.Event
}

// coHost invites u and has them accept.
func (f *fixture) coHost(e models.Event, u models.User) models.CoHostInvite {
	f.t.Helper()
	res, err := f.svc.Invite(f.ctx, e.ID, u.Email, e.HostID)
	require.NoError(f.t, err)
	inv, err := f.svc.Accept(f.ctx, e.ID, res.Invite.ID, u.ID)
	require.NoError(f.t, err)
	return inv
}

func (f *fixture) attendee(e models.Event, u models.User, status models.AttendeeStatus) {
	f.t.Helper()
	require.NoError(f.t, f.repo.UpsertAttendee(f.ctx, models.Attendee{
		EventID: e.ID, UserID: u.ID, Status: status, CreatedAt: f.svc.clock(),
	}))
}

func assertKind(t *testing.T, want Kind, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, KindOf(err), "error: %v", err)
}
