package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/frontdesk"
	"github.com/careopd/frontoffice/internal/schedule"
)

func (a *API) listPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := clinic.Today()
	pats := a.store.Patients()

	classified := schedule.ClassifyPatients(pats, a.store.Appointments(), today)
	filtered := filterPatients(classified, q.Get("q"), q.Get("type"), q.Get("from"), q.Get("to"), today)
	sections := schedule.PartitionPatients(filtered)

	writeJSON(w, http.StatusOK, PatientSectionsResponse{
		Date:          today,
		VisitingToday: sections.VisitingToday,
		Recent:        sections.Recent,
		NoVisit:       sections.NoVisit,
		Stats:         schedule.CountPatientStats(pats, today),
	})
}

func filterPatients(classified []schedule.ClassifiedPatient, search, typeFilter, from, to, today string) []schedule.ClassifiedPatient {
	search = strings.ToLower(search)
	horizon := clinic.MonthsBefore(today, schedule.RecentVisitMonths)

	out := make([]schedule.ClassifiedPatient, 0, len(classified))
	for _, p := range classified {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(p.Phone, search) {
			continue
		}

		switch typeFilter {
		case "":
		case "New":
			if p.Type != clinic.PatientNew {
				continue
			}
		case "Returning":
			if p.Type != clinic.PatientReturning {
				continue
			}
		case "No Visit":
			if p.LastVisit != clinic.LastVisitNone && p.LastVisit != "" && p.LastVisit >= horizon {
				continue
			}
		}

		if from != "" || to != "" {
			// Never-visited patients have no real date to range over.
			if p.Category == schedule.CategoryNoVisit && (p.LastVisit == clinic.LastVisitNone || p.LastVisit == "") {
				continue
			}
			if from != "" && p.SortDate < from {
				continue
			}
			if to != "" && p.SortDate > to {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func (a *API) createPatient(w http.ResponseWriter, r *http.Request) {
	a.savePatient(w, r, "")
}

func (a *API) updatePatient(w http.ResponseWriter, r *http.Request) {
	a.savePatient(w, r, idParam(r))
}

func (a *API) savePatient(w http.ResponseWriter, r *http.Request, id clinic.ID) {
	sess, _ := SessionFrom(r.Context())

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	pat, err := a.svc.SavePatient(r.Context(), id, frontdesk.PatientForm{
		ClinicID: sess.ClinicID,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if id.IsZero() {
		status = http.StatusCreated
	}
	writeJSON(w, status, pat)
}
