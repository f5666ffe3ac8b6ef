package main

import (
	"net/http"

	"github.com/rs/cors"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()
	auth := func(h http.HandlerFunc) http.Handler {
		return app.authenticate(h)
	}

	mux.HandleFunc("GET /healthz", app.healthz)

	// Accounts
	mux.HandleFunc("POST /api/auth/register", app.register)
	mux.HandleFunc("POST /api/auth/login", app.login)
	mux.Handle("GET /api/auth/me", auth(app.me))

	// Events
	mux.Handle("GET /api/events", auth(app.listMyEvents))
	mux.Handle("POST /api/events", auth(app.createEvent))
	mux.Handle("GET /api/events/{id}", auth(app.getEvent))
	mux.Handle("GET /api/events/{id}/preview", auth(app.previewEvent))
	mux.Handle("PATCH /api/events/{id}", auth(app.updateEvent))
	mux.Handle("DELETE /api/events/{id}", auth(app.deleteEvent))

	// Attendees
	mux.Handle("POST /api/events/{id}/join", auth(app.joinEvent))
	mux.Handle("GET /api/events/{id}/attendance", auth(app.myAttendance))
	mux.Handle("GET /api/events/{id}/attendees", auth(app.listAttendees))
	mux.Handle("GET /api/events/{id}/attendees/pending", auth(app.listPendingAttendees))
	mux.Handle("POST /api/events/{id}/attendees/decisions", auth(app.bulkDecide))
	mux.Handle("POST /api/events/{id}/attendees/{userId}/decision", auth(app.decideAttendee))

	// Co-hosts
	mux.Handle("POST /api/events/{id}/cohosts/invite", auth(app.inviteCoHost))
	mux.Handle("GET /api/events/{id}/cohosts/invites", auth(app.listEventInvites))
	mux.Handle("POST /api/events/{id}/cohosts/invites/{inviteId}/accept", auth(app.acceptInvite))
	mux.Handle("POST /api/events/{id}/cohosts/invites/{inviteId}/decline", auth(app.declineInvite))
	mux.Handle("POST /api/events/{id}/cohosts/invites/{inviteId}/revoke", auth(app.revokeInvite))
	mux.Handle("DELETE /api/events/{id}/cohosts/{userId}", auth(app.removeCoHost))
	mux.Handle("GET /api/invites/cohosts/me", auth(app.listMyInvites))

	// Schedule
	mux.Handle("POST /api/events/{id}/activities", auth(app.createActivity))
	mux.Handle("DELETE /api/events/{id}/activities/{activityId}", auth(app.deleteActivity))

	// Polls
	mux.Handle("GET /api/events/{id}/polls", auth(app.listPolls))
	mux.Handle("POST /api/events/{id}/polls", auth(app.createPoll))
	mux.Handle("GET /api/events/{id}/polls/{pollId}", auth(app.getPoll))
	mux.Handle("PATCH /api/events/{id}/polls/{pollId}", auth(app.updatePoll))
	mux.Handle("POST /api/events/{id}/polls/{pollId}/vote", auth(app.vote))

	c := cors.New(cors.Options{
		AllowedOrigins:   app.Config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return app.recoverPanic(app.logRequests(c.Handler(mux)))
}
