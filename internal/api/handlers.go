package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/frontdesk"
	"github.com/careopd/frontoffice/internal/notify"
	"github.com/careopd/frontoffice/internal/remote"
	"github.com/careopd/frontoffice/internal/session"
	"github.com/careopd/frontoffice/internal/store"
)

// API bundles the handler dependencies. Handlers stay thin: decode, call
// the frontdesk service or a selector over the snapshot, encode.
type API struct {
	svc      *frontdesk.Service
	store    *store.Store
	sessions session.Store
	notes    *notify.Center
	upstream *remote.Client
	log      zerolog.Logger
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing_credentials", "email and password are required")
		return
	}

	resp, err := a.upstream.Login(r.Context(), remote.LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sess := session.Session{
		Token:    uuid.NewString(),
		ClinicID: resp.User.ClinicID,
		UserID:   resp.User.ID,
		UserName: resp.User.Name,
	}
	if err := a.sessions.Save(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, "session_error", err.Error())
		return
	}

	a.svc.SetActiveClinic(sess.ClinicID)
	// Best effort: a failed initial refresh leaves an empty snapshot that
	// the background refresher will fill in.
	if err := a.svc.Refresh(r.Context(), sess.ClinicID); err != nil {
		a.log.Warn().Err(err).Msg("initial refresh after login failed")
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:    sess.Token,
		ClinicID: sess.ClinicID,
		UserID:   sess.UserID,
		UserName: sess.UserName,
	})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := a.sessions.Delete(r.Context(), token); err != nil {
			a.log.Warn().Err(err).Msg("logout: session delete failed")
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.notes.History())
}

func (a *API) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	a.notes.MarkAllRead()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) getSettings(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	cl, err := a.svc.Settings(r.Context(), sess.ClinicID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cl)
}

func (a *API) updateSettings(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	var form frontdesk.SettingsForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	cl, err := a.svc.SaveSettings(r.Context(), sess.ClinicID, form)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cl)
}

func idParam(r *http.Request) clinic.ID {
	return clinic.ID(chi.URLParam(r, "id"))
}
