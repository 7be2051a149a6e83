package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/careopd/frontoffice/internal/frontdesk"
	"github.com/careopd/frontoffice/internal/remote"
)

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details string   `json:"details,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

func writeValidationError(w http.ResponseWriter, v *frontdesk.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_failed",
		Details: "Please fill all required details marked with *",
		Fields:  v.Fields,
	})
}

// handleServiceError maps frontdesk and remote errors onto HTTP responses.
// Upstream rejections mirror the upstream status and surface its message
// verbatim; transport failures collapse to a generic connectivity message.
func handleServiceError(w http.ResponseWriter, err error) {
	if v, ok := frontdesk.AsValidation(err); ok {
		writeValidationError(w, v)
		return
	}
	if rej, ok := remote.AsRejection(err); ok {
		status := rej.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, "upstream_rejected", rej.Message)
		return
	}

	switch {
	case errors.Is(err, frontdesk.ErrConflict):
		writeError(w, http.StatusConflict, "booking_conflict", err.Error())
	case errors.Is(err, frontdesk.ErrUnchanged):
		writeError(w, http.StatusConflict, "unchanged", err.Error())
	case errors.Is(err, frontdesk.ErrAppointmentResolved):
		writeError(w, http.StatusConflict, "appointment_resolved", err.Error())
	case errors.Is(err, frontdesk.ErrNotReschedulable):
		writeError(w, http.StatusConflict, "not_reschedulable", err.Error())
	case errors.Is(err, frontdesk.ErrNotRebookable):
		writeError(w, http.StatusConflict, "not_rebookable", err.Error())
	case errors.Is(err, frontdesk.ErrAppointmentNotFound),
		errors.Is(err, frontdesk.ErrDoctorNotFound),
		errors.Is(err, frontdesk.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, frontdesk.ErrReasonRequired):
		writeError(w, http.StatusUnprocessableEntity, "reason_required", err.Error())
	case errors.Is(err, remote.ErrUnreachable):
		writeError(w, http.StatusBadGateway, "upstream_unreachable", "Server error: Could not connect to backend.")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
