package frontdesk

import (
	"context"
	"fmt"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/remote"
)

// DoctorForm is a doctor create/update submission. Shift window fields are
// required on the form even though display falls back to clinic defaults,
// so a saved profile is always explicit about its hours.
type DoctorForm struct {
	ClinicID     clinic.ID
	Name         string
	Department   string
	Status       clinic.DoctorStatus
	Photo        string
	MorningStart string
	MorningEnd   string
	EveningStart string
	EveningEnd   string
}

func (f DoctorForm) validate() error {
	var fields []string
	if f.Name == "" {
		fields = append(fields, "name")
	}
	if f.Department == "" {
		fields = append(fields, "department")
	}
	for _, w := range []struct{ field, value string }{
		{"morningStart", f.MorningStart},
		{"morningEnd", f.MorningEnd},
		{"eveningStart", f.EveningStart},
		{"eveningEnd", f.EveningEnd},
	} {
		if w.value == "" || !clinic.ValidTime(w.value) {
			fields = append(fields, w.field)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// SaveDoctor creates a doctor profile, or updates it when id is non-zero.
func (s *Service) SaveDoctor(ctx context.Context, id clinic.ID, form DoctorForm) (clinic.Doctor, error) {
	if err := form.validate(); err != nil {
		return clinic.Doctor{}, err
	}

	status := form.Status
	if status == "" {
		status = clinic.DoctorAvailable
	}

	payload := remote.DoctorPayload{
		ClinicID:     form.ClinicID,
		Name:         form.Name,
		Department:   form.Department,
		Status:       status,
		Photo:        form.Photo,
		MorningStart: form.MorningStart,
		MorningEnd:   form.MorningEnd,
		EveningStart: form.EveningStart,
		EveningEnd:   form.EveningEnd,
	}

	var (
		doc *clinic.Doctor
		err error
	)
	if id.IsZero() {
		doc, err = s.remote.CreateDoctor(ctx, payload)
	} else {
		if _, ok := s.store.Doctor(id); !ok {
			return clinic.Doctor{}, ErrDoctorNotFound
		}
		doc, err = s.remote.UpdateDoctor(ctx, id, payload)
	}
	if err != nil {
		return clinic.Doctor{}, fmt.Errorf("save doctor: %w", err)
	}

	s.store.UpsertDoctor(*doc)
	s.log.Info().Str("doctor_id", doc.ID.String()).Msg("doctor saved")
	return *doc, nil
}

// DeactivateDoctor retires a doctor from the roster. Deactivation always
// carries a reason; doctors are never hard-deleted.
func (s *Service) DeactivateDoctor(ctx context.Context, id clinic.ID, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}
	if _, ok := s.store.Doctor(id); !ok {
		return ErrDoctorNotFound
	}

	body := struct {
		Status clinic.DoctorStatus `json:"status"`
		Reason string              `json:"reason"`
	}{Status: clinic.DoctorInactive, Reason: reason}

	if _, err := s.remote.UpdateDoctor(ctx, id, body); err != nil {
		return fmt.Errorf("deactivate doctor: %w", err)
	}

	s.store.SetDoctorStatus(id, clinic.DoctorInactive)
	s.log.Info().Str("doctor_id", id.String()).Str("reason", reason).Msg("doctor deactivated")
	return nil
}

// ReactivateDoctor returns an inactive doctor to the bookable roster.
func (s *Service) ReactivateDoctor(ctx context.Context, id clinic.ID) error {
	if _, ok := s.store.Doctor(id); !ok {
		return ErrDoctorNotFound
	}

	body := struct {
		Status clinic.DoctorStatus `json:"status"`
	}{Status: clinic.DoctorAvailable}

	if _, err := s.remote.UpdateDoctor(ctx, id, body); err != nil {
		return fmt.Errorf("reactivate doctor: %w", err)
	}

	s.store.SetDoctorStatus(id, clinic.DoctorAvailable)
	s.log.Info().Str("doctor_id", id.String()).Msg("doctor reactivated")
	return nil
}

// PatientForm is a standalone patient create/update submission. LastVisit
// and Type are owned upstream and are not part of the form.
type PatientForm struct {
	ClinicID clinic.ID
	Name     string
	Age      int
	Gender   string
	Phone    string
	Address  string
}

func (f PatientForm) validate() error {
	var fields []string
	if f.Name == "" {
		fields = append(fields, "name")
	}
	if f.Phone == "" {
		fields = append(fields, "phone")
	}
	if f.Age <= 0 {
		fields = append(fields, "age")
	}
	if f.Address == "" {
		fields = append(fields, "address")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// SavePatient creates a patient record, or updates it when id is non-zero.
func (s *Service) SavePatient(ctx context.Context, id clinic.ID, form PatientForm) (clinic.Patient, error) {
	if err := form.validate(); err != nil {
		return clinic.Patient{}, err
	}

	gender := form.Gender
	if gender == "" {
		gender = "M"
	}

	payload := remote.PatientPayload{
		ClinicID: form.ClinicID,
		Name:     form.Name,
		Age:      form.Age,
		Gender:   gender,
		Phone:    form.Phone,
		Address:  form.Address,
		Type:     clinic.PatientNew,
	}

	var (
		pat *clinic.Patient
		err error
	)
	if id.IsZero() {
		pat, err = s.remote.CreatePatient(ctx, payload)
	} else {
		if _, ok := s.store.Patient(id); !ok {
			return clinic.Patient{}, ErrPatientNotFound
		}
		// Type is preserved by upstream on update; the payload's New value
		// only applies to creates.
		pat, err = s.remote.UpdatePatient(ctx, id, payload)
	}
	if err != nil {
		return clinic.Patient{}, fmt.Errorf("save patient: %w", err)
	}

	s.store.UpsertPatient(*pat)
	s.log.Info().Str("patient_id", pat.ID.String()).Msg("patient saved")
	return *pat, nil
}
