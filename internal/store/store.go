// Package store holds the front office's working snapshot of the clinic
// collections. Authoritative state lives in the upstream persistence API;
// the discipline here is that a mutation is only applied inside the success
// path of its own upstream call, through one of the explicit operations
// below. Reads hand out copies so derived views never alias the snapshot.
package store

import (
	"sync"

	"github.com/careopd/frontoffice/internal/clinic"
)

type Store struct {
	mu           sync.RWMutex
	appointments []clinic.Appointment
	doctors      []clinic.Doctor
	patients     []clinic.Patient
}

func New() *Store {
	return &Store{}
}

// ReplaceAll swaps in a freshly fetched snapshot of every collection.
func (s *Store) ReplaceAll(appts []clinic.Appointment, docs []clinic.Doctor, pats []clinic.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append([]clinic.Appointment(nil), appts...)
	s.doctors = append([]clinic.Doctor(nil), docs...)
	s.patients = append([]clinic.Patient(nil), pats...)
}

func (s *Store) SetDoctors(docs []clinic.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doctors = append([]clinic.Doctor(nil), docs...)
}

func (s *Store) Appointments() []clinic.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]clinic.Appointment(nil), s.appointments...)
}

func (s *Store) Doctors() []clinic.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]clinic.Doctor(nil), s.doctors...)
}

func (s *Store) Patients() []clinic.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]clinic.Patient(nil), s.patients...)
}

func (s *Store) Appointment(id clinic.ID) (clinic.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.appointments {
		if a.ID.Equal(id) {
			return a, true
		}
	}
	return clinic.Appointment{}, false
}

func (s *Store) Doctor(id clinic.ID) (clinic.Doctor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.doctors {
		if d.ID.Equal(id) {
			return d, true
		}
	}
	return clinic.Doctor{}, false
}

func (s *Store) Patient(id clinic.ID) (clinic.Patient, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.patients {
		if p.ID.Equal(id) {
			return p, true
		}
	}
	return clinic.Patient{}, false
}

// PrependAppointment puts a newly created appointment at the head of the
// list, matching the upstream list order (newest first).
func (s *Store) PrependAppointment(a clinic.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append([]clinic.Appointment{a}, s.appointments...)
}

// ReplaceAppointment swaps the stored record for the server's returned one.
func (s *Store) ReplaceAppointment(a clinic.Appointment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID.Equal(a.ID) {
			s.appointments[i] = a
			return true
		}
	}
	return false
}

func (s *Store) SetAppointmentStatus(id clinic.ID, status clinic.AppointmentStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID.Equal(id) {
			s.appointments[i].Status = status
			return true
		}
	}
	return false
}

func (s *Store) PrependPatient(p clinic.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients = append([]clinic.Patient{p}, s.patients...)
}

// UpsertPatient replaces the stored patient in place, or prepends it when
// the id is new.
func (s *Store) UpsertPatient(p clinic.Patient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.patients {
		if s.patients[i].ID.Equal(p.ID) {
			s.patients[i] = p
			return
		}
	}
	s.patients = append([]clinic.Patient{p}, s.patients...)
}

// UpsertDoctor replaces the stored doctor in place, or prepends it when the
// id is new.
func (s *Store) UpsertDoctor(d clinic.Doctor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].ID.Equal(d.ID) {
			s.doctors[i] = d
			return
		}
	}
	s.doctors = append([]clinic.Doctor{d}, s.doctors...)
}

func (s *Store) SetDoctorStatus(id clinic.ID, status clinic.DoctorStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doctors {
		if s.doctors[i].ID.Equal(id) {
			s.doctors[i].Status = status
			return true
		}
	}
	return false
}
