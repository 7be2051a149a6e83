package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/frontdesk"
	"github.com/careopd/frontoffice/internal/schedule"
)

func (a *API) listDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs := a.store.Doctors()

	stats := DoctorStats{Total: len(docs)}
	for _, d := range docs {
		switch d.Status {
		case clinic.DoctorAvailable:
			stats.Available++
		case clinic.DoctorOnLeave:
			stats.OnLeave++
		case clinic.DoctorInactive:
			stats.Inactive++
		}
	}

	search := strings.ToLower(q.Get("q"))
	statusFilter := clinic.DoctorStatus(q.Get("status"))
	deptFilter := q.Get("department")

	filtered := make([]clinic.Doctor, 0, len(docs))
	for _, d := range docs {
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Name), search) &&
			!strings.Contains(strings.ToLower(d.Department), search) {
			continue
		}
		if statusFilter != "" && d.Status != statusFilter {
			continue
		}
		if deptFilter != "" && d.Department != deptFilter {
			continue
		}
		filtered = append(filtered, d)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Department < filtered[j].Department
	})

	resp := DoctorSectionsResponse{Stats: stats}
	for _, d := range filtered {
		switch d.Status {
		case clinic.DoctorOnLeave:
			resp.OnLeave = append(resp.OnLeave, d)
		case clinic.DoctorInactive:
			resp.Inactive = append(resp.Inactive, d)
		default:
			resp.Available = append(resp.Available, d)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) doctorSlots(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.store.Doctor(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", frontdesk.ErrDoctorNotFound.Error())
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = clinic.Today()
	}
	if !clinic.ValidDate(date) {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	writeJSON(w, http.StatusOK, DoctorSlotsResponse{
		DoctorID: doc.ID,
		Date:     date,
		Slots:    schedule.DaySlots(a.store.Appointments(), doc, date),
	})
}

func (a *API) createDoctor(w http.ResponseWriter, r *http.Request) {
	a.saveDoctor(w, r, "")
}

func (a *API) updateDoctor(w http.ResponseWriter, r *http.Request) {
	a.saveDoctor(w, r, idParam(r))
}

func (a *API) saveDoctor(w http.ResponseWriter, r *http.Request, id clinic.ID) {
	sess, _ := SessionFrom(r.Context())

	var req DoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	doc, err := a.svc.SaveDoctor(r.Context(), id, frontdesk.DoctorForm{
		ClinicID:     sess.ClinicID,
		Name:         req.Name,
		Department:   req.Department,
		Status:       req.Status,
		Photo:        req.Photo,
		MorningStart: req.MorningStart,
		MorningEnd:   req.MorningEnd,
		EveningStart: req.EveningStart,
		EveningEnd:   req.EveningEnd,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if id.IsZero() {
		status = http.StatusCreated
	}
	writeJSON(w, status, doc)
}

func (a *API) deactivateDoctor(w http.ResponseWriter, r *http.Request) {
	var req DeactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	if err := a.svc.DeactivateDoctor(r.Context(), idParam(r), req.Reason); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(clinic.DoctorInactive)})
}

func (a *API) reactivateDoctor(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.ReactivateDoctor(r.Context(), idParam(r)); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(clinic.DoctorAvailable)})
}
