package frontdesk

import (
	"context"
	"errors"
	"time"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/session"
)

// SetActiveClinic records which clinic this front office is serving.
// Set on login; the background refresher follows it.
func (s *Service) SetActiveClinic(id clinic.ID) {
	s.activeMu.Lock()
	s.active = id
	s.activeMu.Unlock()
}

// ActiveClinic returns the clinic recorded at login, or the zero ID when
// nobody has signed in yet.
func (s *Service) ActiveClinic() clinic.ID {
	s.activeMu.RLock()
	defer s.activeMu.RUnlock()
	return s.active
}

// Refresher re-pulls the snapshot from upstream on a fixed interval so the
// conflict gate works against reasonably fresh data even when no terminal
// has touched the server for a while. A tick without an active clinic is
// skipped; that is the unauthenticated idle state, not an error.
type Refresher struct {
	svc      *Service
	interval time.Duration
}

func NewRefresher(svc *Service, interval time.Duration) *Refresher {
	return &Refresher{svc: svc, interval: interval}
}

// Run blocks until ctx is done, refreshing once immediately and then on
// every tick.
func (r *Refresher) Run(ctx context.Context) {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.svc.log.Info().Msg("refresher stopping")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Refresher) runOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	err := r.svc.Refresh(runCtx, r.svc.ActiveClinic())
	switch {
	case err == nil:
		r.svc.log.Debug().Dur("duration", time.Since(start)).Msg("refresh run complete")
	case errors.Is(err, session.ErrNotAuthenticated):
		r.svc.log.Debug().Msg("no active clinic, skipping refresh")
	default:
		r.svc.log.Warn().Err(err).Msg("refresh run failed")
	}
}
