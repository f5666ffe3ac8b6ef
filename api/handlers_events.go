package main

import (
	"fmt"
	"net/http"

	"event-planner/planner"

	"github.com/google/uuid"
)

// pathID parses a uuid path parameter.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", name, r.PathValue(name))
	}
	return id, nil
}

// eventID is shorthand for the {id} path parameter, writing the 400 itself.
func (app *application) eventID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		app.badRequest(w, err)
		return uuid.Nil, false
	}
	return id, true
}

func (app *application) listMyEvents(w http.ResponseWriter, r *http.Request) {
	queryParams := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			queryParams[k] = v[0]
		}
	}

	events, err := app.Planner.ListMyEvents(r.Context(), currentUser(r), queryParams)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, events, "events")
}

func (app *application) createEvent(w http.ResponseWriter, r *http.Request) {
	var in planner.CreateEventInput
	if err := app.ReadJSON(w, r, &in, true); err != nil {
		app.badRequest(w, err)
		return
	}

	detail, err := app.Planner.CreateEvent(r.Context(), currentUser(r), in)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusCreated, detail, "event")
}

func (app *application) getEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	detail, err := app.Planner.GetEvent(r.Context(), id, currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, detail, "event")
}

func (app *application) previewEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	preview, err := app.Planner.PreviewEvent(r.Context(), id)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, preview, "event")
}

func (app *application) updateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	var in planner.UpdateEventInput
	if err := app.ReadJSON(w, r, &in, true); err != nil {
		app.badRequest(w, err)
		return
	}

	e, err := app.Planner.UpdateEvent(r.Context(), id, currentUser(r), in)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, e, "event")
}

func (app *application) deleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := app.eventID(w, r)
	if !ok {
		return
	}
	if err := app.Planner.DeleteEvent(r.Context(), id, currentUser(r)); err != nil {
		app.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
