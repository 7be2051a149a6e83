package schedule

import (
	"sort"

	"github.com/careopd/frontoffice/internal/clinic"
)

type PatientCategory string

const (
	CategoryVisitingToday PatientCategory = "visitingToday"
	CategoryRecent        PatientCategory = "recent"
	CategoryNoVisit       PatientCategory = "noVisit"
)

// RecentVisitMonths is the horizon separating recently-visited patients from
// the no-visit bucket.
const RecentVisitMonths = 6

// neverVisitedKey sorts never-visited patients below any real visit date.
const neverVisitedKey = "0000-00-00"

// ClassifiedPatient is a patient annotated with its display bucket and the
// synthetic sort keys for that bucket. SortTime carries the time of today's
// appointment when the patient is visiting today.
type ClassifiedPatient struct {
	clinic.Patient
	Category PatientCategory `json:"category"`
	SortDate string          `json:"sortDate"`
	SortTime string          `json:"sortTime"`
}

// ClassifyPatients assigns each patient a bucket against the reference
// date: visiting today when they hold a non-cancelled appointment on it,
// otherwise recent or no-visit depending on whether their last visit falls
// within the recent-visit horizon. A missing last visit counts as never
// visited.
func ClassifyPatients(patients []clinic.Patient, appts []clinic.Appointment, today string) []ClassifiedPatient {
	horizon := clinic.MonthsBefore(today, RecentVisitMonths)

	out := make([]ClassifiedPatient, 0, len(patients))
	for _, p := range patients {
		cp := ClassifiedPatient{Patient: p}

		if p.ID.IsZero() {
			cp.Category = CategoryNoVisit
			out = append(out, cp)
			continue
		}

		if t, ok := todaysAppointment(appts, p.ID, today); ok {
			cp.Category = CategoryVisitingToday
			cp.SortDate = today
			cp.SortTime = t
			out = append(out, cp)
			continue
		}

		lastVisit := p.LastVisit
		if lastVisit == "" {
			lastVisit = clinic.LastVisitNone
		}
		if lastVisit == clinic.LastVisitNone || lastVisit < horizon {
			cp.Category = CategoryNoVisit
			cp.SortDate = neverVisitedKey
			if lastVisit != clinic.LastVisitNone {
				cp.SortDate = lastVisit
			}
		} else {
			cp.Category = CategoryRecent
			cp.SortDate = lastVisit
		}
		out = append(out, cp)
	}
	return out
}

func todaysAppointment(appts []clinic.Appointment, patientID clinic.ID, today string) (string, bool) {
	for _, a := range appts {
		if a.PatientID.Equal(patientID) && a.Date == today && a.Status != clinic.StatusCancelled {
			return a.Time, true
		}
	}
	return "", false
}

// PatientSections is the accordion view of the patient list.
type PatientSections struct {
	VisitingToday []ClassifiedPatient `json:"visitingToday"`
	Recent        []ClassifiedPatient `json:"recent"`
	NoVisit       []ClassifiedPatient `json:"noVisit"`
}

// PartitionPatients splits classified patients into their buckets: today's
// visitors by appointment time, recent visitors newest first, the rest by
// name.
func PartitionPatients(classified []ClassifiedPatient) PatientSections {
	var s PatientSections
	for _, p := range classified {
		switch p.Category {
		case CategoryVisitingToday:
			s.VisitingToday = append(s.VisitingToday, p)
		case CategoryRecent:
			s.Recent = append(s.Recent, p)
		default:
			s.NoVisit = append(s.NoVisit, p)
		}
	}

	sort.SliceStable(s.VisitingToday, func(i, j int) bool {
		return s.VisitingToday[i].SortTime < s.VisitingToday[j].SortTime
	})
	sort.SliceStable(s.Recent, func(i, j int) bool {
		return s.Recent[i].SortDate > s.Recent[j].SortDate
	})
	sort.SliceStable(s.NoVisit, func(i, j int) bool {
		return s.NoVisit[i].Name < s.NoVisit[j].Name
	})

	return s
}

// PatientStats are the headline counters above the patient list.
type PatientStats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Returning int `json:"returning"`
	NoVisit   int `json:"noVisit"`
}

func CountPatientStats(patients []clinic.Patient, today string) PatientStats {
	horizon := clinic.MonthsBefore(today, RecentVisitMonths)
	s := PatientStats{Total: len(patients)}
	for _, p := range patients {
		switch p.Type {
		case clinic.PatientNew:
			s.New++
		case clinic.PatientReturning:
			s.Returning++
		}
		lastVisit := p.LastVisit
		if lastVisit == "" {
			lastVisit = clinic.LastVisitNone
		}
		if lastVisit == clinic.LastVisitNone || lastVisit < horizon {
			s.NoVisit++
		}
	}
	return s
}
