package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"event-planner/planner"

	"github.com/google/uuid"
)

var errSettingsImmutable = errors.New("poll settings cannot be changed")

// unknownField returns the field named by a decoder error for a key the
// target struct does not have.
func unknownField(err error) (string, bool) {
	rest, ok := strings.CutPrefix(err.Error(), "json: unknown field ")
	if !ok {
		return "", false
	}
	name, uerr := strconv.Unquote(rest)
	if uerr != nil {
		return "", false
	}
	return name, true
}

func (app *application) listPolls(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	polls, err := app.Planner.ListPolls(r.Context(), id, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, polls, "polls")
}

func (app *application) createPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	var in planner.CreatePollInput
	if err := app.ReadJSON(w, r, &in, true); err != nil {
		app.badRequest(w, err)
		return
	}

	poll, err := app.Planner.CreatePoll(r.Context(), id, currentUser(r), in)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, poll, "poll")
}

// pollIDs parses the {id} and {pollId} path parameters.
func (app *application) pollIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	id, ok := app.eventID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	pollID, err := pathID(r, "pollId")
	if err != nil {
		app.badRequest(w, err)
		return uuid.Nil, uuid.Nil, false
	}
	return id, pollID, true
}

func (app *application) getPoll(w http.ResponseWriter, r *http.Request) {
	id, pollID, ok := app.pollIDs(w, r)
	if !ok {
		return
	}
	poll, err := app.Planner.GetPoll(r.Context(), id, pollID, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, poll, "poll")
}

func (app *application) updatePoll(w http.ResponseWriter, r *http.Request) {
	id, pollID, ok := app.pollIDs(w, r)
	if !ok {
		return
	}
	var in planner.UpdatePollInput
	if err := app.ReadJSON(w, r, &in, true); err != nil {
		if name, ok := unknownField(err); ok && strings.EqualFold(name, "settings") {
			err = errSettingsImmutable
		}
		app.badRequest(w, err)
		return
	}

	poll, err := app.Planner.UpdatePoll(r.Context(), id, pollID, currentUser(r), in)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, poll, "poll")
}

func (app *application) vote(w http.ResponseWriter, r *http.Request) {
	id, pollID, ok := app.pollIDs(w, r)
	if !ok {
		return
	}
	var req struct {
		OptionIDs []uuid.UUID `json:"optionIds"`
	}
	if err := app.ReadJSON(w, r, &req, false); err != nil {
		app.badRequest(w, err)
		return
	}

	if err := app.Planner.Vote(r.Context(), id, pollID, currentUser(r), req.OptionIDs); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
