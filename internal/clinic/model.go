package clinic

import "encoding/json"

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

type DoctorStatus string

const (
	DoctorAvailable DoctorStatus = "Available"
	DoctorOnLeave   DoctorStatus = "On Leave"
	DoctorInactive  DoctorStatus = "Inactive"
)

type PatientType string

const (
	PatientNew       PatientType = "New"
	PatientReturning PatientType = "Returning"
)

// LastVisitNone is the upstream sentinel for a patient who has never visited.
const LastVisitNone = "-"

type Doctor struct {
	ID           ID           `json:"_id"`
	Name         string       `json:"name"`
	Department   string       `json:"department"`
	Status       DoctorStatus `json:"status"`
	Photo        string       `json:"photo,omitempty"`
	MorningStart string       `json:"morningStart,omitempty"`
	MorningEnd   string       `json:"morningEnd,omitempty"`
	EveningStart string       `json:"eveningStart,omitempty"`
	EveningEnd   string       `json:"eveningEnd,omitempty"`
}

type Patient struct {
	ID        ID          `json:"_id"`
	Name      string      `json:"name"`
	Age       int         `json:"age"`
	Gender    string      `json:"gender"`
	Phone     string      `json:"phone"`
	Address   string      `json:"address"`
	Type      PatientType `json:"type"`
	LastVisit string      `json:"lastVisit"`
}

type Appointment struct {
	ID        ID                `json:"_id"`
	PatientID ID                `json:"patientId"`
	DoctorID  ID                `json:"doctorId"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Type      string            `json:"type"`
	Status    AppointmentStatus `json:"status"`
}

// Clinic is the settings document: identity, contact details, and the
// message templates the front desk can customize.
type Clinic struct {
	ID        ID         `json:"_id"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Hours     string     `json:"hours"`
	Templates []Template `json:"templates,omitempty"`
}

type Template struct {
	ID   ID     `json:"_id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// The upstream API is not consistent about id spelling, so each document
// type accepts both on the way in. Marshalling always writes "_id".

func (d *Doctor) UnmarshalJSON(b []byte) error {
	type alias Doctor
	aux := struct {
		MongoID ID `json:"_id"`
		PlainID ID `json:"id"`
		*alias
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.ID = firstID(aux.MongoID, aux.PlainID)
	return nil
}

func (p *Patient) UnmarshalJSON(b []byte) error {
	type alias Patient
	aux := struct {
		MongoID ID `json:"_id"`
		PlainID ID `json:"id"`
		*alias
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	p.ID = firstID(aux.MongoID, aux.PlainID)
	return nil
}

func (a *Appointment) UnmarshalJSON(b []byte) error {
	type alias Appointment
	aux := struct {
		MongoID ID `json:"_id"`
		PlainID ID `json:"id"`
		*alias
	}{alias: (*alias)(a)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.ID = firstID(aux.MongoID, aux.PlainID)
	return nil
}

// Resolved reports whether the appointment reached a terminal status.
func (a Appointment) Resolved() bool {
	return a.Status == StatusCompleted || a.Status == StatusCancelled
}
