package api

import (
	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/schedule"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	ClinicID clinic.ID `json:"clinicId"`
	UserID   clinic.ID `json:"userId"`
	UserName string    `json:"userName"`
}

type NewPatientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

type BookAppointmentRequest struct {
	PatientID  clinic.ID          `json:"patientId"`
	NewPatient *NewPatientRequest `json:"newPatient,omitempty"`
	DoctorID   clinic.ID          `json:"doctorId"`
	Date       string             `json:"date"`
	Time       string             `json:"time"`
	Type       string             `json:"type,omitempty"`
	RebookID   clinic.ID          `json:"rebookId,omitempty"`
}

type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type DeactivateRequest struct {
	Reason string `json:"reason"`
}

type DoctorRequest struct {
	Name         string              `json:"name"`
	Department   string              `json:"department"`
	Status       clinic.DoctorStatus `json:"status,omitempty"`
	Photo        string              `json:"photo,omitempty"`
	MorningStart string              `json:"morningStart"`
	MorningEnd   string              `json:"morningEnd"`
	EveningStart string              `json:"eveningStart"`
	EveningEnd   string              `json:"eveningEnd"`
}

type PatientRequest struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Gender  string `json:"gender,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// AppointmentView is an appointment decorated for display: resolved names
// and the derived no-show flag. The stored status is passed through
// untouched.
type AppointmentView struct {
	clinic.Appointment
	PatientName string `json:"patientName"`
	DoctorName  string `json:"doctorName"`
	NoShow      bool   `json:"noShow"`
}

type AppointmentSectionsResponse struct {
	Date     string            `json:"date"`
	Previous []AppointmentView `json:"previous"`
	Today    []AppointmentView `json:"today"`
	Upcoming []AppointmentView `json:"upcoming"`
	Stats    schedule.Stats    `json:"stats"`
}

type DoctorSectionsResponse struct {
	Available []clinic.Doctor `json:"available"`
	OnLeave   []clinic.Doctor `json:"onLeave"`
	Inactive  []clinic.Doctor `json:"inactive"`
	Stats     DoctorStats     `json:"stats"`
}

type DoctorStats struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	OnLeave   int `json:"onLeave"`
	Inactive  int `json:"inactive"`
}

type DoctorSlotsResponse struct {
	DoctorID clinic.ID       `json:"doctorId"`
	Date     string          `json:"date"`
	Slots    []schedule.Slot `json:"slots"`
}

type PatientSectionsResponse struct {
	Date          string                       `json:"date"`
	VisitingToday []schedule.ClassifiedPatient `json:"visitingToday"`
	Recent        []schedule.ClassifiedPatient `json:"recent"`
	NoVisit       []schedule.ClassifiedPatient `json:"noVisit"`
	Stats         schedule.PatientStats        `json:"stats"`
}
