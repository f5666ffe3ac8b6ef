package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"event-planner/data/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*SqlRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &SqlRepo{DB: db}, mock
}

var eventColumns = []string{
	"id", "host_id", "title", "description", "location", "type", "status",
	"start_date", "end_date", "cover_image", "require_approval", "created_at", "updated_at",
}

func TestSqlRepo_CreateUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := models.User{
		ID:        uuid.New(),
		Email:     gofakeit.Email(),
		Name:      gofakeit.Name(),
		Password:  "hash",
		CreatedAt: time.Now(),
	}

	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO users (id, email, name, password, created_at) VALUES ($1, $2, $3, $4, $5)")).
		ExpectExec().
		WithArgs(u.ID, u.Email, u.Name, u.Password, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.CreateUser(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_CreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectPrepare("INSERT INTO users").
		ExpectExec().
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_lower_idx"})

	err := repo.CreateUser(context.Background(), models.User{ID: uuid.New(), Email: "a@example.com"})
	assert.True(t, errors.Is(err, ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_GetUser_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, password, created_at FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password", "created_at"}))

	_, err := repo.GetUser(context.Background(), id)
	assert.Equal(t, ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_GetEvent(t *testing.T) {
	repo, mock := newMockRepo(t)
	id, host := uuid.New(), uuid.New()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM events WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(
			id.String(), host.String(), "Picnic", nil, "Park", "ONE_OFF", "PLANNING",
			start, start.Add(time.Hour), "cover.png", true, start, start,
		))

	e, err := repo.GetEvent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, host, e.HostID)
	assert.Nil(t, e.Description)
	require.NotNil(t, e.Location)
	assert.Equal(t, "Park", *e.Location)
	assert.Equal(t, models.EventOneOff, e.Type)
	require.NotNil(t, e.EndDate)
	assert.True(t, e.RequireApproval)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_UpdateEvent_SkipsReadOnlyColumns(t *testing.T) {
	repo, mock := newMockRepo(t)
	e := models.Event{ID: uuid.New(), HostID: uuid.New(), Title: "Renamed"}

	mock.ExpectPrepare(regexp.QuoteMeta(
		"UPDATE events SET title = $1, description = $2, location = $3, type = $4, status = $5, " +
			"start_date = $6, end_date = $7, cover_image = $8, require_approval = $9, updated_at = $10 WHERE id = $11")).
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Equal(t, ErrNotFound, repo.UpdateEvent(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_InTx(t *testing.T) {
	ctx := context.Background()
	eventID, userID := uuid.New(), uuid.New()

	t.Run("commits on success", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO co_hosts").
			WithArgs(eventID, userID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE cohost_invites SET status").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.InTx(ctx, func(tx DBRepo) error {
			if err := tx.AddCoHost(ctx, eventID, userID, time.Now()); err != nil {
				return err
			}
			_, err := tx.TransitionInvite(ctx, models.CoHostInvite{ID: uuid.New(), Status: models.InviteAccepted}, models.InvitePending)
			return err
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM co_hosts").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE cohost_invites SET status").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		err := repo.InTx(ctx, func(tx DBRepo) error {
			if _, err := tx.RemoveCoHost(ctx, eventID, userID); err != nil {
				return err
			}
			_, err := tx.TransitionInvite(ctx, models.CoHostInvite{ID: uuid.New(), Status: models.InviteRemoved}, models.InviteAccepted)
			return err
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested calls share the transaction", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO co_hosts").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.InTx(ctx, func(tx DBRepo) error {
			return tx.InTx(ctx, func(inner DBRepo) error {
				return inner.AddCoHost(ctx, eventID, userID, time.Now())
			})
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSqlRepo_SetAttendeeStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	eventID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE event_attendees SET status = $1 WHERE event_id = $2 AND status = $3 AND user_id IN ($4, $5)")).
		WithArgs("ACCEPTED", eventID, "PENDING", a, b).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.SetAttendeeStatus(context.Background(), eventID, []uuid.UUID{a, b}, models.AttendeePending, models.AttendeeAccepted)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.SetAttendeeStatus(context.Background(), eventID, nil, models.AttendeePending, models.AttendeeAccepted)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_TransitionInvite_LostRace(t *testing.T) {
	repo, mock := newMockRepo(t)
	inv := models.CoHostInvite{ID: uuid.New(), Status: models.InviteDeclined}

	mock.ExpectExec("UPDATE cohost_invites SET status = \\$1, responded_at = \\$2, invited_user_id = \\$3 WHERE id = \\$4 AND status = \\$5").
		WithArgs("DECLINED", nil, nil, inv.ID, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.TransitionInvite(context.Background(), inv, models.InvitePending)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_DeleteResponses(t *testing.T) {
	pollID, userID := uuid.New(), uuid.New()

	t.Run("keeps listed options", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		keep := uuid.New()
		mock.ExpectExec(regexp.QuoteMeta(
			"DELETE FROM poll_responses WHERE poll_id = $1 AND user_id = $2 AND poll_option_id NOT IN ($3)")).
			WithArgs(pollID, userID, keep).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteResponses(context.Background(), pollID, userID, []uuid.UUID{keep}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clears everything", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM poll_responses WHERE poll_id = $1 AND user_id = $2")).
			WithArgs(pollID, userID).
			WillReturnResult(sqlmock.NewResult(0, 3))

		assert.NoError(t, repo.DeleteResponses(context.Background(), pollID, userID, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSqlRepo_CreatePoll_IsAtomic(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := models.Poll{ID: uuid.New(), EventID: uuid.New(), CreatorID: uuid.New(), Title: "Where?", Status: models.PollOpen}
	opts := []models.PollOption{
		{ID: uuid.New(), PollID: p.ID, Text: "Beach", Order: 0},
		{ID: uuid.New(), PollID: p.ID, Text: "Hills", Order: 1},
	}

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO polls").ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO poll_settings").ExpectExec().
		WithArgs(p.ID, false, "ALL_ATTENDEES", "VISIBLE_TO_ALL").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO poll_options").ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO poll_options").ExpectExec().WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.CreatePoll(context.Background(), p, models.DefaultPollSettings(), opts)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlRepo_ListEventsForUser(t *testing.T) {
	userID := uuid.New()

	t.Run("filters and sorts", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT (.+) FROM events WHERE \(host_id = \$1 (.+)\) AND status = \$2 AND title ILIKE \$3 ORDER BY start_date DESC, id DESC LIMIT \$4 OFFSET \$5`).
			WithArgs(userID, "LIVE", "%party%", 5, 0).
			WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(
				uuid.NewString(), userID.String(), "Garden party", nil, nil, "WHOLE_DAY", "LIVE",
				start, nil, "c.png", false, start, start,
			))

		events, err := repo.ListEventsForUser(context.Background(), userID, map[string]string{
			"status":         "LIVE",
			"title_contains": "party",
			"sortBy":         "-startDate",
			"limit":          "5",
		})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Garden party", events[0].Title)
		assert.Nil(t, events[0].EndDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown parameters", func(t *testing.T) {
		repo, _ := newMockRepo(t)
		_, err := repo.ListEventsForUser(context.Background(), userID, map[string]string{"noSuchThing": "x"})
		assert.EqualError(t, err, "invalid query: invalid query parameter: noSuchThing")
		assert.True(t, errors.Is(err, ErrInvalidQuery))
	})
}

func TestSqlRepo_ListPollOptions(t *testing.T) {
	repo, mock := newMockRepo(t)
	pollID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT o.id, o.poll_id, o.text, o.sort_order, COUNT\\(r.id\\)").
		WithArgs(pollID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "poll_id", "text", "sort_order", "count"}).
			AddRow(a.String(), pollID.String(), "A", 0, 2).
			AddRow(b.String(), pollID.String(), "B", 1, 0))

	opts, err := repo.ListPollOptions(context.Background(), pollID)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "A", opts[0].Text)
	assert.Equal(t, 2, opts[0].Responses)
	assert.Equal(t, 1, opts[1].Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}
