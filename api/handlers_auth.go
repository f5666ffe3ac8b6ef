package main

import (
	"errors"
	"net/http"
	"time"

	"event-planner/data/models"
	"event-planner/planner"
)

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	app.writeJSON(w, http.StatusOK, map[string]string{"store": app.Config.Store}, "health")
}

type authResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"required,max=100"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}
	if err := app.ReadJSON(w, r, &req, true); err != nil {
		app.badRequest(w, err)
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	u, err := app.Planner.RegisterUser(r.Context(), req.Email, req.Name, hash)
	if err != nil {
		app.handleError(w, r, err)
		return
	}

	app.sendToken(w, r, http.StatusCreated, u)
}

var errBadCredentials = errors.New("invalid email or password")

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := app.ReadJSON(w, r, &req, true); err != nil {
		app.badRequest(w, err)
		return
	}

	u, err := app.Planner.UserByEmail(r.Context(), req.Email)
	if planner.KindOf(err) == planner.NotFound {
		app.unauthorized(w, errBadCredentials)
		return
	}
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	if !checkPassword(u.Password, req.Password) {
		app.unauthorized(w, errBadCredentials)
		return
	}

	app.sendToken(w, r, http.StatusOK, u)
}

func (app *application) sendToken(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	token, expires, err := app.issueToken(u.ID)
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, status, authResponse{Token: token, ExpiresAt: expires, User: u})
}

func (app *application) me(w http.ResponseWriter, r *http.Request) {
	u, err := app.Planner.User(r.Context(), currentUser(r))
	if err != nil {
		app.handleError(w, r, err)
		return
	}
	app.writeJSON(w, http.StatusOK, u, "user")
}
