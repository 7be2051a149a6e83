// Package frontdesk owns the appointment lifecycle: booking, cancelling,
// rescheduling, and rebooking, plus the thin management wrappers for
// doctors, patients, and clinic settings. Every mutation is gated through
// validation and the conflict detector against the current local snapshot,
// then proxied upstream; the snapshot changes only inside the success path
// of its own upstream call.
package frontdesk

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/notify"
	"github.com/careopd/frontoffice/internal/remote"
	"github.com/careopd/frontoffice/internal/schedule"
	"github.com/careopd/frontoffice/internal/session"
	"github.com/careopd/frontoffice/internal/store"
)

// DefaultVisitType is used when a booking does not state a reason.
const DefaultVisitType = "Consultation"

type Service struct {
	store  *store.Store
	remote *remote.Client
	notes  *notify.Center
	log    zerolog.Logger
	today  func() string

	activeMu sync.RWMutex
	active   clinic.ID
}

func NewService(st *store.Store, rc *remote.Client, notes *notify.Center, log zerolog.Logger) *Service {
	return &Service{
		store:  st,
		remote: rc,
		notes:  notes,
		log:    log.With().Str("component", "frontdesk").Logger(),
		today:  clinic.Today,
	}
}

// Refresh replaces the local snapshot with the upstream state of all three
// collections. The snapshot is only swapped when every fetch succeeds, so a
// partial failure leaves the previous consistent view in place.
func (s *Service) Refresh(ctx context.Context, clinicID clinic.ID) error {
	if clinicID.IsZero() {
		return session.ErrNotAuthenticated
	}

	var (
		appts []clinic.Appointment
		docs  []clinic.Doctor
		pats  []clinic.Patient
		errs  [3]error
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		appts, errs[0] = s.remote.ListAppointments(ctx, clinicID)
	}()
	go func() {
		defer wg.Done()
		docs, errs[1] = s.remote.ListDoctors(ctx, clinicID)
	}()
	go func() {
		defer wg.Done()
		pats, errs[2] = s.remote.ListPatients(ctx, clinicID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("refresh snapshot: %w", err)
		}
	}

	s.store.ReplaceAll(appts, docs, pats)
	s.log.Info().
		Int("appointments", len(appts)).
		Int("doctors", len(docs)).
		Int("patients", len(pats)).
		Msg("snapshot refreshed")
	return nil
}

// BookingRequest is a booking form submission. Exactly one of PatientID and
// NewPatient identifies the patient; NewPatient creates them inline as part
// of the booking. A non-zero RebookID turns the submission into an in-place
// rebook of that record instead of a fresh create.
type BookingRequest struct {
	ClinicID   clinic.ID
	PatientID  clinic.ID
	NewPatient *remote.NewPatientData
	DoctorID   clinic.ID
	Date       string
	Time       string
	VisitType  string
	RebookID   clinic.ID
}

// BookingResult reports what the booking changed: the stored appointment,
// the inline-created patient if any, and whether an existing record was
// updated rather than a new one created.
type BookingResult struct {
	Appointment clinic.Appointment `json:"appointment"`
	NewPatient  *clinic.Patient    `json:"newPatient,omitempty"`
	Updated     bool               `json:"updated"`
}

func (s *Service) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if err := validateBooking(req); err != nil {
		return nil, err
	}

	// An in-place rebook may only overwrite a record that is out of play:
	// cancelled, or left behind as a no-show. Live records are moved via
	// Reschedule, never silently replaced.
	if !req.RebookID.IsZero() {
		target, ok := s.store.Appointment(req.RebookID)
		if !ok {
			return nil, ErrAppointmentNotFound
		}
		if target.Status != clinic.StatusCancelled && !schedule.IsNoShow(target, s.today()) {
			return nil, ErrNotRebookable
		}
	}

	// The conflict gate runs against the current local snapshot, right
	// before the upstream call. An inline new patient cannot conflict.
	if req.NewPatient == nil &&
		schedule.HasConflict(s.store.Appointments(), req.PatientID, req.Date, req.Time, req.RebookID) {
		return nil, ErrConflict
	}

	visitType := req.VisitType
	if visitType == "" {
		visitType = DefaultVisitType
	}

	payload := remote.AppointmentPayload{
		ClinicID:       req.ClinicID,
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		Date:           req.Date,
		Time:           req.Time,
		Type:           visitType,
		Status:         clinic.StatusPending,
		NewPatientData: req.NewPatient,
	}

	if !req.RebookID.IsZero() {
		appt, err := s.remote.UpdateAppointment(ctx, req.RebookID, payload)
		if err != nil {
			return nil, fmt.Errorf("rebook appointment: %w", err)
		}
		s.store.ReplaceAppointment(*appt)
		s.notes.Push("Appointment Updated", notify.Success)
		s.log.Info().Str("appointment_id", appt.ID.String()).Msg("appointment rebooked in place")
		return &BookingResult{Appointment: *appt, Updated: true}, nil
	}

	result, err := s.remote.CreateAppointment(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.store.PrependAppointment(result.Appointment)
	if result.NewPatient != nil {
		s.store.PrependPatient(*result.NewPatient)
	}
	s.notes.Push("Appointment Booked", notify.Success)
	s.log.Info().Str("appointment_id", result.Appointment.ID.String()).Msg("appointment booked")

	return &BookingResult{Appointment: result.Appointment, NewPatient: result.NewPatient}, nil
}

func validateBooking(req BookingRequest) error {
	var fields []string

	if req.PatientID.IsZero() && req.NewPatient == nil {
		fields = append(fields, "patientId")
	}
	if req.NewPatient != nil {
		if req.NewPatient.Name == "" {
			fields = append(fields, "newPatientName")
		}
		if req.NewPatient.Phone == "" {
			fields = append(fields, "newPatientPhone")
		}
		if req.NewPatient.Age <= 0 {
			fields = append(fields, "newPatientAge")
		}
		if req.NewPatient.Address == "" {
			fields = append(fields, "newPatientAddress")
		}
	}
	if req.DoctorID.IsZero() {
		fields = append(fields, "doctorId")
	}
	if req.Date == "" || !clinic.ValidDate(req.Date) {
		fields = append(fields, "date")
	}
	if req.Time == "" || !clinic.ValidTime(req.Time) {
		fields = append(fields, "time")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Cancel marks the appointment cancelled upstream, then mirrors the status
// locally. Cancellation is a terminal transition for the record; the slot it
// held becomes free again. The notification is error-toned so the feed makes
// cancellations visible, not because anything failed.
func (s *Service) Cancel(ctx context.Context, id clinic.ID) (clinic.Appointment, error) {
	appt, ok := s.store.Appointment(id)
	if !ok {
		return clinic.Appointment{}, ErrAppointmentNotFound
	}
	if appt.Resolved() {
		return clinic.Appointment{}, ErrAppointmentResolved
	}

	if _, err := s.remote.UpdateAppointment(ctx, id, remote.AppointmentUpdate{Status: clinic.StatusCancelled}); err != nil {
		return clinic.Appointment{}, fmt.Errorf("cancel appointment: %w", err)
	}

	s.store.SetAppointmentStatus(id, clinic.StatusCancelled)
	appt.Status = clinic.StatusCancelled
	s.notes.Push("Appointment Cancelled", notify.Error)
	s.log.Info().Str("appointment_id", id.String()).Msg("appointment cancelled")
	return appt, nil
}

// Reschedule moves an appointment to a new date and time and confirms it.
// Only live records move this way: a resolved or past-dated source must go
// through the rebook path instead. A submission identical to the current
// slot is rejected before any network call, as is one that would collide
// with another of the patient's bookings.
func (s *Service) Reschedule(ctx context.Context, id clinic.ID, newDate, newTime string) (clinic.Appointment, error) {
	appt, ok := s.store.Appointment(id)
	if !ok {
		return clinic.Appointment{}, ErrAppointmentNotFound
	}
	if appt.Resolved() || appt.Date < s.today() {
		return clinic.Appointment{}, ErrNotReschedulable
	}

	var fields []string
	if newDate == "" || !clinic.ValidDate(newDate) {
		fields = append(fields, "date")
	}
	if newTime == "" || !clinic.ValidTime(newTime) {
		fields = append(fields, "time")
	}
	if len(fields) > 0 {
		return clinic.Appointment{}, &ValidationError{Fields: fields}
	}

	if newDate == appt.Date && newTime == appt.Time {
		return clinic.Appointment{}, ErrUnchanged
	}

	if schedule.HasConflict(s.store.Appointments(), appt.PatientID, newDate, newTime, id) {
		return clinic.Appointment{}, ErrConflict
	}

	updated, err := s.remote.UpdateAppointment(ctx, id, remote.AppointmentUpdate{
		Date:   newDate,
		Time:   newTime,
		Status: clinic.StatusConfirmed,
	})
	if err != nil {
		return clinic.Appointment{}, fmt.Errorf("reschedule appointment: %w", err)
	}

	s.store.ReplaceAppointment(*updated)
	s.notes.Push("Rescheduled Successfully", notify.Success)
	s.log.Info().
		Str("appointment_id", id.String()).
		Str("date", newDate).
		Str("time", newTime).
		Msg("appointment rescheduled")
	return *updated, nil
}

// Prefill is a pre-populated booking form for re-activating a cancelled or
// no-show appointment: same patient, doctor, and department, today's date,
// time cleared. A zero RebookID means the submission will create a fresh
// record (clone); otherwise it updates the source record in place.
type Prefill struct {
	PatientID  clinic.ID `json:"patientId"`
	DoctorID   clinic.ID `json:"doctorId"`
	Department string    `json:"department"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	RebookID   clinic.ID `json:"rebookId,omitempty"`
}

// RebookPrefill builds the booking form for a rebook. Only a cancelled or
// no-show source qualifies; live records are rescheduled instead. A source
// dated strictly before today is cloned: the no-show or cancelled visit stays in
// history and the submission creates a new record. A source dated today or
// later (a cancelled future appointment) is reused: the submission updates
// the original record.
func (s *Service) RebookPrefill(id clinic.ID) (Prefill, error) {
	appt, ok := s.store.Appointment(id)
	if !ok {
		return Prefill{}, ErrAppointmentNotFound
	}
	if appt.Status != clinic.StatusCancelled && !schedule.IsNoShow(appt, s.today()) {
		return Prefill{}, ErrNotRebookable
	}

	p := Prefill{
		PatientID: appt.PatientID,
		DoctorID:  appt.DoctorID,
		Date:      s.today(),
	}
	if doc, ok := s.store.Doctor(appt.DoctorID); ok {
		p.Department = doc.Department
	}
	if appt.Date >= s.today() {
		p.RebookID = appt.ID
	}
	return p, nil
}
