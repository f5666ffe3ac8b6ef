package main

import (
	"net/http"

	"event-planner/planner"
)

func (app *application) createActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	var in planner.CreateActivityInput
	if err := app.ReadJSON(w, r, &in, true); err != nil {
		app.badRequest(w, err)
		return
	}

	a, err := app.Planner.CreateActivity(r.Context(), id, currentUser(r), in)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, a, "activity")
}

func (app *application) deleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	activityID, err := pathID(r, "activityId")
	if err != nil {
		app.badRequest(w, err)
		return
	}
	if err := app.Planner.DeleteActivity(r.Context(), id, activityID, currentUser(r)); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
