package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"event-planner/data/migrations"
	"event-planner/data/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DBRepo is the persistence surface the planner works against. SqlRepo and
// MemRepo both implement it. Lookups of a single row return ErrNotFound when
// nothing matches.
type DBRepo interface {
	// InTx runs fn against a repo bound to one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise. Calling InTx on a
	// repo that is already inside a transaction reuses it.
	InTx(ctx context.Context, fn func(DBRepo) error) error

	CreateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	CreateEvent(ctx context.Context, e models.Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (models.Event, error)
	UpdateEvent(ctx context.Context, e models.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEventsForUser(ctx context.Context, userID uuid.UUID, queryParams map[string]string) ([]models.Event, error)

	IsCoHost(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
	ListCoHosts(ctx context.Context, eventID uuid.UUID) ([]models.UserSummary, error)
	AddCoHost(ctx context.Context, eventID, userID uuid.UUID, at time.Time) error
	RemoveCoHost(ctx context.Context, eventID, userID uuid.UUID) (bool, error)

	GetAttendee(ctx context.Context, eventID, userID uuid.UUID) (models.Attendee, error)
	UpsertAttendee(ctx context.Context, a models.Attendee) error
	ListAttendees(ctx context.Context, eventID uuid.UUID, statuses ...models.AttendeeStatus) ([]models.AttendeeWithUser, error)
	ListAttendeesByUsers(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID) ([]models.Attendee, error)
	SetAttendeeStatus(ctx context.Context, eventID uuid.UUID, userIDs []uuid.UUID, from, to models.AttendeeStatus) (int64, error)

	CreateInvite(ctx context.Context, inv models.CoHostInvite) error
	GetInvite(ctx context.Context, id uuid.UUID) (models.CoHostInvite, error)
	FindPendingInvite(ctx context.Context, eventID uuid.UUID, email string) (models.CoHostInvite, error)
	LatestAcceptedInvite(ctx context.Context, eventID, userID uuid.UUID) (models.CoHostInvite, error)
	TransitionInvite(ctx context.Context, inv models.CoHostInvite, from models.InviteStatus) (bool, error)
	ListEventInvites(ctx context.Context, eventID uuid.UUID) ([]models.CoHostInvite, error)
	ListInvitesByEmail(ctx context.Context, email string) ([]models.InviteInboxItem, error)

	CreateDays(ctx context.Context, days []models.Day) error
	ListDays(ctx context.Context, eventID uuid.UUID) ([]models.Day, error)
	GetDay(ctx context.Context, id uuid.UUID) (models.Day, error)
	CreateActivity(ctx context.Context, a models.Activity) error
	GetActivity(ctx context.Context, id uuid.UUID) (models.Activity, error)
	DeleteActivity(ctx context.Context, id uuid.UUID) error
	ListActivities(ctx context.Context, eventID uuid.UUID) ([]models.Activity, error)

	CreatePoll(ctx context.Context, p models.Poll, s models.PollSettings, options []models.PollOption) error
	GetPoll(ctx context.Context, id uuid.UUID) (models.Poll, error)
	UpdatePoll(ctx context.Context, p models.Poll) error
	ListPolls(ctx context.Context, eventID uuid.UUID) ([]models.Poll, error)
	GetPollSettings(ctx context.Context, pollID uuid.UUID) (models.PollSettings, error)
	ListPollOptions(ctx context.Context, pollID uuid.UUID) ([]models.PollOptionCount, error)
	ListUserSelections(ctx context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error)
	DeleteResponses(ctx context.Context, pollID, userID uuid.UUID, keep []uuid.UUID) error
	InsertResponse(ctx context.Context, r models.PollResponse) error
	UpsertResponse(ctx context.Context, r models.PollResponse) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type SqlRepo struct {
	DB *sql.DB
	tx *sql.Tx
}

func (sr *SqlRepo) Connection() *sql.DB {
	return sr.DB
}

func (sr *SqlRepo) q() querier {
	if sr.tx != nil {
		return sr.tx
	}
	return sr.DB
}

func (sr *SqlRepo) InTx(ctx context.Context, fn func(DBRepo) error) error {
	if sr.tx != nil {
		return fn(sr)
	}

	tx, err := sr.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "error starting transaction")
	}
	defer tx.Rollback()

	if err := fn(&SqlRepo{DB: sr.DB, tx: tx}); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "error committing transaction")
}

// RunMigrations applies the embedded schema migrations to the connected
// database.
func (sr *SqlRepo) RunMigrations(dbName string, log logrus.FieldLogger) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %v", err)
	}

	driver, err := pgx.WithInstance(sr.DB, &pgx.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %v", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	version, _, _ := m.Version()
	log.WithField("version", version).Info("Migrations complete")
	return nil
}

// create inserts every column of a model into its table.
func (sr *SqlRepo) create(ctx context.Context, m models.Model) error {
	vals := models.GetValsFromModel(m, false)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.TableName(),
		strings.Join(models.GetColumnNames(m, false), ", "),
		placeholders(1, len(vals)))

	stmt, err := sr.q().PrepareContext(ctx, query)
	if err != nil {
		return errors.Wrap(err, "error preparing query")
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, vals...); err != nil {
		return translateError(err, "error executing query")
	}
	return nil
}

// update writes every non-readOnly column of a model, keyed by its id.
func (sr *SqlRepo) update(ctx context.Context, m models.Model) error {
	columns := models.GetColumnNames(m, true)

	setClause := make([]string, (len(columns)))
	for i, c := range columns {
		setClause[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		m.TableName(),
		strings.Join(setClause, ", "),
		len(columns)+1)

	stmt, err := sr.q().PrepareContext(ctx, query)
	if err != nil {
		return errors.Wrap(err, "error preparing query")
	}
	defer stmt.Close()

	vals := models.GetValsFromModel(m, true)
	vals = append(vals, m.GetID())
	res, err := stmt.ExecContext(ctx, vals...)
	if err != nil {
		return translateError(err, "error executing query")
	}
	return expectAffected(res)
}

func (sr *SqlRepo) delete(ctx context.Context, m models.Model) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", m.TableName())
	res, err := sr.q().ExecContext(ctx, query, m.GetID())
	if err != nil {
		return errors.Wrap(err, "error deleting record")
	}
	return expectAffected(res)
}

// getModelByID retrieves a model from the db by its ID. The model must be
// passed as a pointer to the desired model type and is filled in place.
func (sr *SqlRepo) getModelByID(ctx context.Context, m models.Model, id uuid.UUID) error {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectList(m, ""), m.TableName())
	r := sr.q().QueryRowContext(ctx, query, id)

	if err := models.ScanRowToModel(m, r); err != nil {
		return translateError(err, "error fetching "+m.TableName())
	}
	return nil
}

// queryModels runs query and scans each row into a model of m's type. The
// query must select m's columns in field order.
func (sr *SqlRepo) queryModels(ctx context.Context, m models.Model, expectedRows int, query string, args ...interface{}) (interface{}, error) {
	rows, err := sr.q().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "error querying "+m.TableName())
	}
	defer rows.Close()

	res, err := models.ScanRowsToSliceOfModels(m, rows, expectedRows)
	if err != nil {
		return nil, errors.Wrap(err, "error scanning "+m.TableName())
	}
	return res, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "error reading affected rows")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// selectList joins a model's column names for a SELECT, optionally qualified
// with a table alias.
func selectList(m models.Model, alias string) string {
	cols := models.GetColumnNames(m, false)
	if alias != "" {
		for i, c := range cols {
			cols[i] = alias + "." + c
		}
	}
	return strings.Join(cols, ", ")
}

// placeholders returns n positional parameters starting at $start.
func placeholders(start, n int) string {
	ph := make([]string, n)
	for i := 0; i < n; i++ {
		ph[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(ph, ", ")
}

func uuidArgs(ids []uuid.UUID) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
