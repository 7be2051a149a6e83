package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/frontdesk"
	"github.com/careopd/frontoffice/internal/remote"
	"github.com/careopd/frontoffice/internal/schedule"
)

func (a *API) listAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	appts := a.store.Appointments()
	today := clinic.Today()

	stats := schedule.CountStats(appts)
	filtered := a.filterAppointments(appts, q.Get("status"), q.Get("q"), q.Get("from"), q.Get("to"), clinic.ID(q.Get("doctor")))
	sections := schedule.Partition(filtered, today)

	resp := AppointmentSectionsResponse{
		Date:     today,
		Previous: a.decorate(sections.Previous, today),
		Today:    a.decorate(sections.Today, today),
		Upcoming: a.decorate(sections.Upcoming, today),
		Stats:    stats,
	}
	writeJSON(w, http.StatusOK, resp)
}

// filterAppointments applies the list controls: status class, free-text
// search over resolved names, date range, and doctor.
func (a *API) filterAppointments(appts []clinic.Appointment, statusClass, search, from, to string, doctorID clinic.ID) []clinic.Appointment {
	patientNames := nameIndexPatients(a.store.Patients())
	doctorNames := nameIndexDoctors(a.store.Doctors())
	search = strings.ToLower(search)

	out := make([]clinic.Appointment, 0, len(appts))
	for _, appt := range appts {
		switch statusClass {
		case "", "All":
		case "Upcoming":
			if appt.Status != clinic.StatusPending && appt.Status != clinic.StatusConfirmed {
				continue
			}
		case "Completed":
			if appt.Status != clinic.StatusCompleted {
				continue
			}
		case "Cancelled":
			if appt.Status != clinic.StatusCancelled {
				continue
			}
		}

		if search != "" {
			pName := strings.ToLower(patientNames[appt.PatientID])
			dName := strings.ToLower(doctorNames[appt.DoctorID])
			if !strings.Contains(pName, search) && !strings.Contains(dName, search) {
				continue
			}
		}
		if from != "" && appt.Date < from {
			continue
		}
		if to != "" && appt.Date > to {
			continue
		}
		if !doctorID.IsZero() && !appt.DoctorID.Equal(doctorID) {
			continue
		}
		out = append(out, appt)
	}
	return out
}

func (a *API) decorate(appts []clinic.Appointment, today string) []AppointmentView {
	patientNames := nameIndexPatients(a.store.Patients())
	doctorNames := nameIndexDoctors(a.store.Doctors())

	views := make([]AppointmentView, 0, len(appts))
	for _, appt := range appts {
		views = append(views, AppointmentView{
			Appointment: appt,
			PatientName: orUnknown(patientNames[appt.PatientID], "Unknown Patient"),
			DoctorName:  orUnknown(doctorNames[appt.DoctorID], "Unknown Doctor"),
			NoShow:      schedule.IsNoShow(appt, today),
		})
	}
	return views
}

func nameIndexPatients(pats []clinic.Patient) map[clinic.ID]string {
	idx := make(map[clinic.ID]string, len(pats))
	for _, p := range pats {
		idx[p.ID] = p.Name
	}
	return idx
}

func nameIndexDoctors(docs []clinic.Doctor) map[clinic.ID]string {
	idx := make(map[clinic.ID]string, len(docs))
	for _, d := range docs {
		idx[d.ID] = d.Name
	}
	return idx
}

func orUnknown(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func (a *API) bookAppointment(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())

	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	booking := frontdesk.BookingRequest{
		ClinicID:  sess.ClinicID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		VisitType: req.Type,
		RebookID:  req.RebookID,
	}
	if req.NewPatient != nil {
		booking.NewPatient = &remote.NewPatientData{
			Name:    req.NewPatient.Name,
			Phone:   req.NewPatient.Phone,
			Age:     req.NewPatient.Age,
			Gender:  req.NewPatient.Gender,
			Address: req.NewPatient.Address,
		}
	}

	result, err := a.svc.Book(r.Context(), booking)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

func (a *API) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := a.svc.Cancel(r.Context(), idParam(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (a *API) rescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appt, err := a.svc.Reschedule(r.Context(), idParam(r), req.Date, req.Time)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (a *API) rebookPrefill(w http.ResponseWriter, r *http.Request) {
	prefill, err := a.svc.RebookPrefill(idParam(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefill)
}
