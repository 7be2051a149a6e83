package store

import (
	"testing"

	"github.com/careopd/frontoffice/internal/clinic"
)

func TestReadsReturnCopies(t *testing.T) {
	s := New()
	s.ReplaceAll([]clinic.Appointment{{ID: "a1", Status: clinic.StatusPending}}, nil, nil)

	view := s.Appointments()
	view[0].Status = clinic.StatusCancelled

	stored, _ := s.Appointment("a1")
	if stored.Status != clinic.StatusPending {
		t.Error("mutating a read slice must not touch the snapshot")
	}
}

func TestPrependAppointment(t *testing.T) {
	s := New()
	s.ReplaceAll([]clinic.Appointment{{ID: "a1"}}, nil, nil)
	s.PrependAppointment(clinic.Appointment{ID: "a2"})

	appts := s.Appointments()
	if len(appts) != 2 || appts[0].ID != "a2" {
		t.Errorf("appointments = %+v, want a2 first", appts)
	}
}

func TestReplaceAppointment(t *testing.T) {
	s := New()
	s.ReplaceAll([]clinic.Appointment{{ID: "a1", Date: "2026-09-01"}}, nil, nil)

	if !s.ReplaceAppointment(clinic.Appointment{ID: "a1", Date: "2026-09-02"}) {
		t.Fatal("ReplaceAppointment must report the swap")
	}
	stored, _ := s.Appointment("a1")
	if stored.Date != "2026-09-02" {
		t.Errorf("date = %q, want 2026-09-02", stored.Date)
	}

	if s.ReplaceAppointment(clinic.Appointment{ID: "missing"}) {
		t.Error("an unknown id must not report a swap")
	}
}

func TestSetAppointmentStatus(t *testing.T) {
	s := New()
	s.ReplaceAll([]clinic.Appointment{{ID: "a1", Status: clinic.StatusPending}}, nil, nil)

	if !s.SetAppointmentStatus("a1", clinic.StatusCancelled) {
		t.Fatal("SetAppointmentStatus must report the change")
	}
	stored, _ := s.Appointment("a1")
	if stored.Status != clinic.StatusCancelled {
		t.Errorf("status = %q, want Cancelled", stored.Status)
	}
}

func TestUpsertDoctor(t *testing.T) {
	s := New()
	s.SetDoctors([]clinic.Doctor{{ID: "d1", Name: "Dr. Rao"}})

	s.UpsertDoctor(clinic.Doctor{ID: "d1", Name: "Dr. Rao", Department: "Cardiology"})
	if docs := s.Doctors(); len(docs) != 1 || docs[0].Department != "Cardiology" {
		t.Errorf("doctors after in-place upsert = %+v", docs)
	}

	s.UpsertDoctor(clinic.Doctor{ID: "d2", Name: "Dr. Iyer"})
	if docs := s.Doctors(); len(docs) != 2 || docs[0].ID != "d2" {
		t.Errorf("doctors after new upsert = %+v, want d2 first", docs)
	}
}

func TestUpsertPatient(t *testing.T) {
	s := New()
	s.ReplaceAll(nil, nil, []clinic.Patient{{ID: "p1", Name: "Asha"}})

	s.UpsertPatient(clinic.Patient{ID: "p1", Name: "Asha", Phone: "9000000001"})
	if pats := s.Patients(); len(pats) != 1 || pats[0].Phone != "9000000001" {
		t.Errorf("patients after in-place upsert = %+v", pats)
	}

	s.UpsertPatient(clinic.Patient{ID: "p2", Name: "Bharat"})
	if pats := s.Patients(); len(pats) != 2 || pats[0].ID != "p2" {
		t.Errorf("patients after new upsert = %+v, want p2 first", pats)
	}
}
