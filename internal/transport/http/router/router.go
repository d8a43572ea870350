package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/metrics"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/community-service/internal/transport/http/middleware"
)

type Handlers struct {
	Events       *handlers.EventsHandler
	Registration *handlers.RegistrationHandler
	Users        *handlers.UsersHandler
	Notes        *handlers.NotesHandler
	Contact      *handlers.ContactHandler
	Health       *handlers.HealthHandler
}

type Options struct {
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Sensitive covers sign-up, contact and the token endpoints.
	Sensitive       middleware.WindowLimiter
	SensitiveLimit  int
	SensitiveWindow time.Duration
}

func New(h Handlers, auth *middleware.AuthMiddleware, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)

	if opts.RLEnabled && opts.RLLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RLLimit, opts.RLWindow))
	}

	r.Get("/healthz", h.Health.Healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	sensitive := middleware.Sensitive(opts.Sensitive, opts.SensitiveLimit, opts.SensitiveWindow)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// public
		r.Get("/events", h.Events.ListPublished)
		r.With(auth.Optional).Get("/events/{event_id}", h.Events.Get)
		r.Get("/notes", h.Notes.List)
		r.Get("/notes/{note_id}", h.Notes.Get)

		r.With(sensitive).Post("/users", h.Users.Signup)
		r.With(sensitive).Post("/users/verify-email/confirm", h.Users.ConfirmEmailVerification)
		r.With(sensitive).Post("/users/password-reset/request", h.Users.RequestPasswordReset)
		r.With(sensitive).Post("/users/password-reset/confirm", h.Users.ConfirmPasswordReset)
		r.With(sensitive).Post("/contact", h.Contact.Submit)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)

			r.Post("/events", h.Events.Create)
			r.Patch("/events/{event_id}", h.Events.Update)
			r.Post("/events/{event_id}/publish", h.Events.Publish)
			r.Post("/events/{event_id}/cancel", h.Events.Cancel)
			r.Get("/organizer/events", h.Events.ListMine)

			r.Get("/events/{event_id}/eligibility", h.Registration.Eligibility)
			r.Post("/events/{event_id}/register", h.Registration.Register)
			r.Delete("/events/{event_id}/register", h.Registration.Unregister)
			r.Post("/events/{event_id}/admin-register", h.Registration.AdminRegister)
			r.Put("/events/{event_id}/participants/{participant_id}/status", h.Registration.SetStatus)
			r.Get("/events/{event_id}/participants", h.Registration.Participants)

			r.Get("/me", h.Users.Me)
			r.Get("/me/registrations", h.Users.MyRegistrations)
			r.Post("/users/verify-email/request", h.Users.RequestEmailVerification)

			r.Post("/notes", h.Notes.Create)
			r.Delete("/notes/{note_id}", h.Notes.Delete)
			r.Post("/notes/{note_id}/ratings", h.Notes.Rate)

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/contact", h.Contact.List)
				r.Patch("/contact/{message_id}", h.Contact.Resolve)
				r.Post("/users/{user_id}/registrations/rebuild", h.Users.RebuildRegistrations)
			})
		})
	})

	return r
}
