package frontdesk

import (
	"errors"
	"strings"
)

var (
	ErrConflict            = errors.New("this patient already has an appointment at this time")
	ErrUnchanged           = errors.New("new date and time match the current appointment")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrReasonRequired      = errors.New("a reason is required to deactivate a doctor")
	ErrAppointmentResolved = errors.New("appointment is already completed or cancelled")
	ErrNotReschedulable    = errors.New("only upcoming pending or confirmed appointments can be rescheduled")
	ErrNotRebookable       = errors.New("only cancelled or missed appointments can be rebooked")
)

// ValidationError reports missing or malformed form fields. It is raised
// before any upstream call; the field names let the terminal highlight the
// offending inputs.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "required fields missing or invalid: " + strings.Join(e.Fields, ", ")
}

// AsValidation unwraps a ValidationError from an error chain.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
