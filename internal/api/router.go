package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/careopd/frontoffice/internal/frontdesk"
	"github.com/careopd/frontoffice/internal/notify"
	"github.com/careopd/frontoffice/internal/remote"
	"github.com/careopd/frontoffice/internal/session"
	"github.com/careopd/frontoffice/internal/store"
)

type RouterConfig struct {
	Service       *frontdesk.Service
	Store         *store.Store
	Sessions      session.Store
	Notifications *notify.Center
	Upstream      *remote.Client
	Redis         *redis.Client
	Env           string
	Version       string
	Log           zerolog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	a := &API{
		svc:      cfg.Service,
		store:    cfg.Store,
		sessions: cfg.Sessions,
		notes:    cfg.Notifications,
		upstream: cfg.Upstream,
		log:      cfg.Log,
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.Redis, cfg.Upstream, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Post("/auth/login", a.login)

	// Everything data-bearing requires the identity marker.
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(cfg.Sessions))

		r.Post("/auth/logout", a.logout)

		r.Get("/appointments", a.listAppointments)
		r.Post("/appointments", a.bookAppointment)
		r.Post("/appointments/{id}/cancel", a.cancelAppointment)
		r.Post("/appointments/{id}/reschedule", a.rescheduleAppointment)
		r.Get("/appointments/{id}/rebook", a.rebookPrefill)

		r.Get("/doctors", a.listDoctors)
		r.Post("/doctors", a.createDoctor)
		r.Put("/doctors/{id}", a.updateDoctor)
		r.Post("/doctors/{id}/deactivate", a.deactivateDoctor)
		r.Post("/doctors/{id}/reactivate", a.reactivateDoctor)
		r.Get("/doctors/{id}/slots", a.doctorSlots)

		r.Get("/patients", a.listPatients)
		r.Post("/patients", a.createPatient)
		r.Put("/patients/{id}", a.updatePatient)

		r.Get("/notifications", a.listNotifications)
		r.Post("/notifications/read", a.markNotificationsRead)

		r.Get("/settings", a.getSettings)
		r.Put("/settings", a.updateSettings)
	})

	return r
}
