package main

import (
	"net/http"
)

func (app *application) inviteCoHost(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := app.ReadJSON(w, r, &req, true); err != nil {
		app.badRequest(w, err)
		return
	}

	res, err := app.Planner.Invite(r.Context(), id, req.Email, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.Reused {
		status = http.StatusOK
	}
	app.writeJSON(w, status, res)
}

func (app *application) listEventInvites(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	overview, err := app.Planner.ListEventInvites(r.Context(), id, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, overview)
}

func (app *application) acceptInvite(w http.ResponseWriter, r *http.Request) {
	app.respondToInvite(w, r, true)
}

func (app *application) declineInvite(w http.ResponseWriter, r *http.Request) {
	app.respondToInvite(w, r, false)
}

func (app *application) respondToInvite(w http.ResponseWriter, r *http.Request, accept bool) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	inviteID, err := pathID(r, "inviteId")
	if err != nil {
		app.badRequest(w, err)
		return
	}

	respond := app.Planner.Decline
	if accept {
		respond = app.Planner.Accept
	}
	inv, err := respond(r.Context(), id, inviteID, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, inv, "invite")
}

func (app *application) revokeInvite(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	inviteID, err := pathID(r, "inviteId")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := app.Planner.Revoke(r.Context(), id, inviteID, currentUser(r)); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) removeCoHost(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := app.Planner.Remove(r.Context(), id, userID, currentUser(r)); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) listMyInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := app.Planner.ListMyInvites(r.Context(), currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, invites, "invites")
}
