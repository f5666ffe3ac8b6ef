package repository

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"event-planner/data/models"

	"github.com/google/uuid"
)

type memberKey struct {
	eventID uuid.UUID
	userID  uuid.UUID
}

type optionKey struct {
	userID   uuid.UUID
	optionID uuid.UUID
}

// memState is every table of the in-memory store. seq records insertion order
// and breaks ties between rows with equal timestamps.
type memState struct {
	seq        map[uuid.UUID]int64
	next       int64
	users      map[uuid.UUID]models.User
	events     map[uuid.UUID]models.Event
	coHosts    map[memberKey]time.Time
	invites    map[uuid.UUID]models.CoHostInvite
	attendees  map[memberKey]models.Attendee
	days       map[uuid.UUID]models.Day
	activities map[uuid.UUID]models.Activity
	polls      map[uuid.UUID]models.Poll
	settings   map[uuid.UUID]models.PollSettings
	options    map[uuid.UUID]models.PollOption
	responses  map[optionKey]models.PollResponse
}

func newMemState() *memState {
	return &memState{
		seq:        map[uuid.UUID]int64{},
		users:      map[uuid.UUID]models.User{},
		events:     map[uuid.UUID]models.Event{},
		coHosts:    map[memberKey]time.Time{},
		invites:    map[uuid.UUID]models.CoHostInvite{},
		attendees:  map[memberKey]models.Attendee{},
		days:       map[uuid.UUID]models.Day{},
		activities: map[uuid.UUID]models.Activity{},
		polls:      map[uuid.UUID]models.Poll{},
		settings:   map[uuid.UUID]models.PollSettings{},
		options:    map[uuid.UUID]models.PollOption{},
		responses:  map[optionKey]models.PollResponse{},
	}
}

func (st *memState) clone() *memState {
	return &memState{
		seq:        maps.Clone(st.seq),
		next:       st.next,
		users:      maps.Clone(st.users),
		events:     maps.Clone(st.events),
		coHosts:    maps.Clone(st.coHosts),
		invites:    maps.Clone(st.invites),
		attendees:  maps.Clone(st.attendees),
		days:       maps.Clone(st.days),
		activities: maps.Clone(st.activities),
		polls:      maps.Clone(st.polls),
		settings:   maps.Clone(st.settings),
		options:    maps.Clone(st.options),
		responses:  maps.Clone(st.responses),
	}
}

func (st *memState) stamp(id uuid.UUID) {
	st.next++
	st.seq[id] = st.next
}

// MemRepo is an in-process DBRepo. A single mutex serializes access; InTx
// holds it for the whole callback and restores a snapshot if the callback
// fails, which gives the same all-or-nothing behaviour as a SQL transaction.
type MemRepo struct {
	mu   *sync.Mutex
	st   *memState
	inTx bool
}

func NewMemRepo() *MemRepo {
	return &MemRepo{mu: &sync.Mutex{}, st: newMemState()}
}

func (mr *MemRepo) lock() func() {
	if mr.inTx {
		return func() {}
	}
	mr.mu.Lock()
	return mr.mu.Unlock
}

func (mr *MemRepo) InTx(ctx context.Context, fn func(DBRepo) error) error {
	if mr.inTx {
		return fn(mr)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	snapshot := mr.st.clone()
	if err := fn(&MemRepo{mu: mr.mu, st: mr.st, inTx: true}); err != nil {
		*mr.st = *snapshot
		return err
	}
	return nil
}

func (mr *MemRepo) CreateUser(_ context.Context, u models.User) error {
	defer mr.lock()()
	for _, existing := range mr.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("%w: users_email_lower_idx", ErrConflict)
		}
	}
	mr.st.users[u.ID] = u
	mr.st.stamp(u.ID)
	return nil
}

func (mr *MemRepo) GetUser(_ context.Context, id uuid.UUID) (models.User, error) {
	defer mr.lock()()
	u, ok := mr.st.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (mr *MemRepo) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	defer mr.lock()()
	for _, u := range mr.st.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (mr *MemRepo) CreateEvent(_ context.Context, e models.Event) error {
	defer mr.lock()()
	if _, ok := mr.st.events[e.ID]; ok {
		return ErrConflict
	}
	mr.st.events[e.ID] = e
	mr.st.stamp(e.ID)
	return nil
}

func (mr *MemRepo) GetEvent(_ context.Context, id uuid.UUID) (models.Event, error) {
	defer mr.lock()()
	e, ok := mr.st.events[id]
	if !ok {
		return models.Event{}, ErrNotFound
	}
	return e, nil
}

// UpdateEvent leaves the readOnly columns (id, host, creation time) untouched.
func (mr *MemRepo) UpdateEvent(_ context.Context, e models.Event) error {
	defer mr.lock()()
	cur, ok := mr.st.events[e.ID]
	if !ok {
		return ErrNotFound
	}
	e.HostID = cur.HostID
	e.CreatedAt = cur.CreatedAt
	mr.st.events[e.ID] = e
	return nil
}

// DeleteEvent removes the event and everything that belongs to it.
func (mr *MemRepo) DeleteEvent(_ context.Context, id uuid.UUID) error {
	defer mr.lock()()
	st := mr.st
	if _, ok := st.events[id]; !ok {
		return ErrNotFound
	}
	delete(st.events, id)

	for k := range st.coHosts {
		if k.eventID == id {
			delete(st.coHosts, k)
		}
	}
	for k, a := range st.attendees {
		if a.EventID == id {
			delete(st.attendees, k)
		}
	}
	for k, inv := range st.invites {
		if inv.EventID == id {
			delete(st.invites, k)
		}
	}
	for k, d := range st.days {
		if d.EventID != id {
			continue
		}
		for ak, a := range st.activities {
			if a.DayID == k {
				delete(st.activities, ak)
			}
		}
		delete(st.days, k)
	}
	for k, p := range st.polls {
		if p.EventID == id {
			st.deletePollLocked(k)
		}
	}
	return nil
}

func (st *memState) deletePollLocked(pollID uuid.UUID) {
	delete(st.polls, pollID)
	delete(st.settings, pollID)
	for k, o := range st.options {
		if o.PollID == pollID {
			delete(st.options, k)
		}
	}
	for k, r := range st.responses {
		if r.PollID == pollID {
			delete(st.responses, k)
		}
	}
}

// ListEventsForUser accepts the same query parameters as the SQL
// implementation and evaluates them against the stored events.
func (mr *MemRepo) ListEventsForUser(_ context.Context, userID uuid.UUID, queryParams map[string]string) ([]models.Event, error) {
	jsonMap := models.MapJsonTagsToDB(models.Event{})
	filters, err := parseFilters(queryParams, jsonMap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	sortCol, order, err := buildSortingClause(queryParams, jsonMap, "startDate")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	limit, offset, err := buildPaginationClause(queryParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	defer mr.lock()()
	events := []models.Event{}
	for _, e := range mr.st.events {
		if !mr.st.isMemberLocked(e, userID) {
			continue
		}
		ok, err := matchFilters(e, filters)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		if ok {
			events = append(events, e)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		c := compareValues(columnValue(events[i], sortCol), columnValue(events[j], sortCol))
		if c == 0 {
			c = strings.Compare(events[i].ID.String(), events[j].ID.String())
		}
		if order == "DESC" {
			return c > 0
		}
		return c < 0
	})

	if offset >= len(events) {
		return []models.Event{}, nil
	}
	events = events[offset:]
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (st *memState) isMemberLocked(e models.Event, userID uuid.UUID) bool {
	if e.HostID == userID {
		return true
	}
	k := memberKey{e.ID, userID}
	if _, ok := st.coHosts[k]; ok {
		return true
	}
	_, ok := st.attendees[k]
	return ok
}

// columnValue returns the field of m whose db tag is column, dereferencing
// pointers. A nil pointer yields nil.
func columnValue(m models.Model, column string) interface{} {
	val := reflect.ValueOf(m)
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Tag.Get("db") != column {
			continue
		}
		f := val.Field(i)
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				return nil
			}
			f = f.Elem()
		}
		return f.Interface()
	}
	return nil
}

// compareValues orders two column values of the same type. nil sorts last.
func compareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	switch av := a.(type) {
	case time.Time:
		return av.Compare(b.(time.Time))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case uuid.UUID:
		return strings.Compare(av.String(), b.(uuid.UUID).String())
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// parseColumnValue converts a query parameter into the type of the column
// value it is compared with.
func parseColumnValue(like interface{}, raw string) (interface{}, error) {
	switch like.(type) {
	case time.Time:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("invalid time value: %s", raw)
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw)
		}
		return b, nil
	case uuid.UUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid id value: %s", raw)
		}
		return id, nil
	}
	return raw, nil
}

func matchFilters(m models.Model, filters []filter) (bool, error) {
	for _, f := range filters {
		field := columnValue(m, f.column)
		if field == nil {
			return false, nil
		}

		if f.operator == "ILIKE" {
			needle := strings.Trim(f.values[0], "%")
			if !strings.Contains(strings.ToLower(fmt.Sprint(field)), strings.ToLower(needle)) {
				return false, nil
			}
			continue
		}

		if f.operator == "IN" {
			found := false
			for _, raw := range f.values {
				v, err := parseColumnValue(field, raw)
				if err != nil {
					return false, err
				}
				if compareValues(field, v) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
			continue
		}

		v, err := parseColumnValue(field, f.values[0])
		if err != nil {
			return false, err
		}
		c := compareValues(field, v)
		var ok bool
		switch f.operator {
		case "=":
			ok = c == 0
		case "!=":
			ok = c != 0
		case "<":
			ok = c < 0
		case ">":
			ok = c > 0
		case "<=":
			ok = c <= 0
		case ">=":
			ok = c >= 0
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (mr *MemRepo) IsCoHost(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	defer mr.lock()()
	_, ok := mr.st.coHosts[memberKey{eventID, userID}]
	return ok, nil
}

func (mr *MemRepo) ListCoHosts(_ context.Context, eventID uuid.UUID) ([]models.UserSummary, error) {
	defer mr.lock()()
	type row struct {
		at time.Time
		u  models.User
	}
	var rows []row
	for k, at := range mr.st.coHosts {
		if k.eventID == eventID {
			rows = append(rows, row{at, mr.st.users[k.userID]})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].at.Equal(rows[j].at) {
			return rows[i].at.Before(rows[j].at)
		}
		return rows[i].u.ID.String() < rows[j].u.ID.String()
	})

	coHosts := make([]models.UserSummary, 0, len(rows))
	for _, r := range rows {
		coHosts = append(coHosts, r.u.Summary())
	}
	return coHosts, nil
}

func (mr *MemRepo) AddCoHost(_ context.Context, eventID, userID uuid.UUID, at time.Time) error {
	defer mr.lock()()
	k := memberKey{eventID, userID}
	if _, ok := mr.st.coHosts[k]; !ok {
		mr.st.coHosts[k] = at
	}
	return nil
}

func (mr *MemRepo) RemoveCoHost(_ context.Context, eventID, userID uuid.UUID) (bool, error) {
	defer mr.lock()()
	k := memberKey{eventID, userID}
	if _, ok := mr.st.coHosts[k]; !ok {
		return false, nil
	}
	delete(mr.st.coHosts, k)
	return true, nil
}

func (mr *MemRepo) GetAttendee(_ context.Context, eventID, userID uuid.UUID) (models.Attendee, error) {
	defer mr.lock()()
	a, ok := mr.st.attendees[memberKey{eventID, userID}]
	if !ok {
		return models.Attendee{}, ErrNotFound
	}
	return a, nil
}

func (mr *MemRepo) UpsertAttendee(_ context.Context, a models.Attendee) error {
	defer mr.lock()()
	k := memberKey{a.EventID, a.UserID}
	if cur, ok := mr.st.attendees[k]; ok {
		cur.Status = a.Status
		mr.st.attendees[k] = cur
		return nil
	}
	mr.st.attendees[k] = a
	return nil
}

func (mr *MemRepo) ListAttendees(_ context.Context, eventID uuid.UUID, statuses ...models.AttendeeStatus) ([]models.AttendeeWithUser, error) {
	defer mr.lock()()
	attendees := []models.AttendeeWithUser{}
	for _, a := range mr.st.attendees {
		if a.EventID != eventID {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, a.Status) {
			continue
		}
		attendees = append(attendees, models.AttendeeWithUser{Attendee: a, User: mr.st.users[a.UserID].Summary()})
	}
	sort.Slice(attendees, func(i, j int) bool {
		a, b := attendees[i], attendees[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.UserID.String() < b.UserID.String()
	})
	return attendees, nil
}

func containsStatus(statuses []models.AttendeeStatus, s models.AttendeeStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (mr *MemRepo) ListAttendeesByUsers(_ context.Context, eventID uuid.UUID, userIDs []uuid.UUID) ([]models.Attendee, error) {
	defer mr.lock()()
	attendees := []models.Attendee{}
	for _, id := range userIDs {
		if a, ok := mr.st.attendees[memberKey{eventID, id}]; ok {
			attendees = append(attendees, a)
		}
	}
	return attendees, nil
}

func (mr *MemRepo) SetAttendeeStatus(_ context.Context, eventID uuid.UUID, userIDs []uuid.UUID, from, to models.AttendeeStatus) (int64, error) {
	defer mr.lock()()
	var n int64
	for _, id := range userIDs {
		k := memberKey{eventID, id}
		a, ok := mr.st.attendees[k]
		if !ok || a.Status != from {
			continue
		}
		a.Status = to
		mr.st.attendees[k] = a
		n++
	}
	return n, nil
}

func (mr *MemRepo) CreateInvite(_ context.Context, inv models.CoHostInvite) error {
	defer mr.lock()()
	if inv.Status == models.InvitePending {
		if _, ok := mr.st.pendingInviteLocked(inv.EventID, inv.InvitedEmail); ok {
			return fmt.Errorf("%w: cohost_invites_one_pending_idx", ErrConflict)
		}
	}
	mr.st.invites[inv.ID] = inv
	mr.st.stamp(inv.ID)
	return nil
}

func (mr *MemRepo) GetInvite(_ context.Context, id uuid.UUID) (models.CoHostInvite, error) {
	defer mr.lock()()
	inv, ok := mr.st.invites[id]
	if !ok {
		return models.CoHostInvite{}, ErrNotFound
	}
	return inv, nil
}

func (mr *MemRepo) FindPendingInvite(_ context.Context, eventID uuid.UUID, email string) (models.CoHostInvite, error) {
	defer mr.lock()()
	inv, ok := mr.st.pendingInviteLocked(eventID, email)
	if !ok {
		return models.CoHostInvite{}, ErrNotFound
	}
	return inv, nil
}

func (st *memState) pendingInviteLocked(eventID uuid.UUID, email string) (models.CoHostInvite, bool) {
	for _, inv := range st.newestInvitesLocked() {
		if inv.EventID == eventID && inv.Status == models.InvitePending && strings.EqualFold(inv.InvitedEmail, email) {
			return inv, true
		}
	}
	return models.CoHostInvite{}, false
}

func (mr *MemRepo) LatestAcceptedInvite(_ context.Context, eventID, userID uuid.UUID) (models.CoHostInvite, error) {
	defer mr.lock()()
	for _, inv := range mr.st.newestInvitesLocked() {
		if inv.EventID == eventID && inv.Status == models.InviteAccepted &&
			inv.InvitedUserID.Valid && inv.InvitedUserID.UUID == userID {
			return inv, nil
		}
	}
	return models.CoHostInvite{}, ErrNotFound
}

// newestInvitesLocked returns all invites, newest first.
func (st *memState) newestInvitesLocked() []models.CoHostInvite {
	invites := make([]models.CoHostInvite, 0, len(st.invites))
	for _, inv := range st.invites {
		invites = append(invites, inv)
	}
	sort.Slice(invites, func(i, j int) bool {
		a, b := invites[i], invites[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return st.seq[a.ID] > st.seq[b.ID]
	})
	return invites
}

func (mr *MemRepo) TransitionInvite(_ context.Context, inv models.CoHostInvite, from models.InviteStatus) (bool, error) {
	defer mr.lock()()
	cur, ok := mr.st.invites[inv.ID]
	if !ok || cur.Status != from {
		return false, nil
	}
	cur.Status = inv.Status
	cur.RespondedAt = inv.RespondedAt
	cur.InvitedUserID = inv.InvitedUserID
	mr.st.invites[inv.ID] = cur
	return true, nil
}

func (mr *MemRepo) ListEventInvites(_ context.Context, eventID uuid.UUID) ([]models.CoHostInvite, error) {
	defer mr.lock()()
	invites := []models.CoHostInvite{}
	for _, inv := range mr.st.newestInvitesLocked() {
		if inv.EventID == eventID {
			invites = append(invites, inv)
		}
	}
	return invites, nil
}

func (mr *MemRepo) ListInvitesByEmail(_ context.Context, email string) ([]models.InviteInboxItem, error) {
	defer mr.lock()()
	items := []models.InviteInboxItem{}
	for _, inv := range mr.st.newestInvitesLocked() {
		if !strings.EqualFold(inv.InvitedEmail, email) {
			continue
		}
		items = append(items, models.InviteInboxItem{
			CoHostInvite: inv,
			Event:        mr.st.events[inv.EventID].Summary(),
			Inviter:      mr.st.users[inv.InviterID].Summary(),
		})
	}
	return items, nil
}

func (mr *MemRepo) CreateDays(_ context.Context, days []models.Day) error {
	defer mr.lock()()
	for _, d := range days {
		exists := false
		for _, cur := range mr.st.days {
			if cur.EventID == d.EventID && cur.Date.Equal(d.Date) {
				exists = true
				break
			}
		}
		if !exists {
			mr.st.days[d.ID] = d
		}
	}
	return nil
}

func (mr *MemRepo) ListDays(_ context.Context, eventID uuid.UUID) ([]models.Day, error) {
	defer mr.lock()()
	days := []models.Day{}
	for _, d := range mr.st.days {
		if d.EventID == eventID {
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

func (mr *MemRepo) GetDay(_ context.Context, id uuid.UUID) (models.Day, error) {
	defer mr.lock()()
	d, ok := mr.st.days[id]
	if !ok {
		return models.Day{}, ErrNotFound
	}
	return d, nil
}

func (mr *MemRepo) CreateActivity(_ context.Context, a models.Activity) error {
	defer mr.lock()()
	if _, ok := mr.st.days[a.DayID]; !ok {
		return ErrNotFound
	}
	mr.st.activities[a.ID] = a
	mr.st.stamp(a.ID)
	return nil
}

func (mr *MemRepo) GetActivity(_ context.Context, id uuid.UUID) (models.Activity, error) {
	defer mr.lock()()
	a, ok := mr.st.activities[id]
	if !ok {
		return models.Activity{}, ErrNotFound
	}
	return a, nil
}

func (mr *MemRepo) DeleteActivity(_ context.Context, id uuid.UUID) error {
	defer mr.lock()()
	if _, ok := mr.st.activities[id]; !ok {
		return ErrNotFound
	}
	delete(mr.st.activities, id)
	return nil
}

func (mr *MemRepo) ListActivities(_ context.Context, eventID uuid.UUID) ([]models.Activity, error) {
	defer mr.lock()()
	activities := []models.Activity{}
	for _, a := range mr.st.activities {
		if mr.st.days[a.DayID].EventID == eventID {
			activities = append(activities, a)
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		a, b := activities[i], activities[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return mr.st.seq[a.ID] < mr.st.seq[b.ID]
	})
	return activities, nil
}

func (mr *MemRepo) CreatePoll(_ context.Context, p models.Poll, s models.PollSettings, options []models.PollOption) error {
	defer mr.lock()()
	if _, ok := mr.st.events[p.EventID]; !ok {
		return ErrNotFound
	}
	mr.st.polls[p.ID] = p
	mr.st.stamp(p.ID)
	s.PollID = p.ID
	mr.st.settings[p.ID] = s
	for _, o := range options {
		mr.st.options[o.ID] = o
	}
	return nil
}

func (mr *MemRepo) GetPoll(_ context.Context, id uuid.UUID) (models.Poll, error) {
	defer mr.lock()()
	p, ok := mr.st.polls[id]
	if !ok {
		return models.Poll{}, ErrNotFound
	}
	return p, nil
}

func (mr *MemRepo) UpdatePoll(_ context.Context, p models.Poll) error {
	defer mr.lock()()
	cur, ok := mr.st.polls[p.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Title = p.Title
	cur.Description = p.Description
	cur.Status = p.Status
	mr.st.polls[p.ID] = cur
	return nil
}

func (mr *MemRepo) ListPolls(_ context.Context, eventID uuid.UUID) ([]models.Poll, error) {
	defer mr.lock()()
	polls := []models.Poll{}
	for _, p := range mr.st.polls {
		if p.EventID == eventID {
			polls = append(polls, p)
		}
	}
	sort.Slice(polls, func(i, j int) bool {
		a, b := polls[i], polls[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return mr.st.seq[a.ID] > mr.st.seq[b.ID]
	})
	return polls, nil
}

func (mr *MemRepo) GetPollSettings(_ context.Context, pollID uuid.UUID) (models.PollSettings, error) {
	defer mr.lock()()
	s, ok := mr.st.settings[pollID]
	if !ok {
		return models.PollSettings{}, ErrNotFound
	}
	return s, nil
}

func (mr *MemRepo) ListPollOptions(_ context.Context, pollID uuid.UUID) ([]models.PollOptionCount, error) {
	defer mr.lock()()
	counts := map[uuid.UUID]int{}
	for _, r := range mr.st.responses {
		if r.PollID == pollID {
			counts[r.PollOptionID]++
		}
	}

	options := []models.PollOptionCount{}
	for _, o := range mr.st.options {
		if o.PollID == pollID {
			options = append(options, models.PollOptionCount{PollOption: o, Responses: counts[o.ID]})
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Order < options[j].Order })
	return options, nil
}

func (mr *MemRepo) ListUserSelections(_ context.Context, pollID, userID uuid.UUID) ([]uuid.UUID, error) {
	defer mr.lock()()
	var rs []models.PollResponse
	for _, r := range mr.st.responses {
		if r.PollID == pollID && r.UserID == userID {
			rs = append(rs, r)
		}
	}
	sort.Slice(rs, func(i, j int) bool { return mr.st.seq[rs[i].ID] < mr.st.seq[rs[j].ID] })

	ids := make([]uuid.UUID, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.PollOptionID)
	}
	return ids, nil
}

func (mr *MemRepo) DeleteResponses(_ context.Context, pollID, userID uuid.UUID, keep []uuid.UUID) error {
	defer mr.lock()()
	kept := map[uuid.UUID]bool{}
	for _, id := range keep {
		kept[id] = true
	}
	for k, r := range mr.st.responses {
		if r.PollID == pollID && r.UserID == userID && !kept[r.PollOptionID] {
			delete(mr.st.responses, k)
		}
	}
	return nil
}

func (mr *MemRepo) InsertResponse(_ context.Context, r models.PollResponse) error {
	defer mr.lock()()
	k := optionKey{r.UserID, r.PollOptionID}
	if _, ok := mr.st.responses[k]; ok {
		return fmt.Errorf("%w: poll_responses_user_id_poll_option_id_key", ErrConflict)
	}
	mr.st.responses[k] = r
	mr.st.stamp(r.ID)
	return nil
}

func (mr *MemRepo) UpsertResponse(_ context.Context, r models.PollResponse) error {
	defer mr.lock()()
	k := optionKey{r.UserID, r.PollOptionID}
	if _, ok := mr.st.responses[k]; ok {
		return nil
	}
	mr.st.responses[k] = r
	mr.st.stamp(r.ID)
	return nil
}
