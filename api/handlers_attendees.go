package main

import (
	"net/http"

	"event-planner/planner"
)

func (app *application) joinEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	res, err := app.Planner.Join(r.Context(), id, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, res)
}

func (app *application) myAttendance(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	a, err := app.Planner.MyAttendance(r.Context(), id, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, a, "attendee")
}

func (app *application) listAttendees(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	list, err := app.Planner.ListAttendees(r.Context(), id, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, list)
}

func (app *application) listPendingAttendees(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	pending, err := app.Planner.ListPendingAttendees(r.Context(), id, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, pending, "attendees")
}

func (app *application) decideAttendee(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	target, err := pathID(r, "userId")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	var req struct {
		Decision planner.Decision `json:"decision" validate:"required,oneof=APPROVE DECLINE"`
	}
	if err := app.ReadJSON(w, r, &req, true); err != nil {
		app.badRequest(w, err)
		return
	}

	a, err := app.Planner.Decide(r.Context(), id, target, req.Decision, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, a, "attendee")
}

func (app *application) bulkDecide(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	var req struct {
		Decisions []planner.AttendeeDecision `json:"decisions" validate:"required,min=1,dive"`
	}
	if err := app.ReadJSON(w, r, &req, true); err != nil {
		app.badRequest(w, err)
		return
	}

	res, err := app.Planner.BulkDecide(r.Context(), id, req.Decisions, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, res)
}
