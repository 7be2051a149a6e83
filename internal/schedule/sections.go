package schedule

import (
	"sort"

	"github.com/careopd/frontoffice/internal/clinic"
)

// Sections is the accordion view of the appointment list: everything before
// the reference date, everything on it, everything after it.
type Sections struct {
	Previous []clinic.Appointment `json:"previous"`
	Today    []clinic.Appointment `json:"today"`
	Upcoming []clinic.Appointment `json:"upcoming"`
}

// Partition buckets appointments around the reference date. Previous is
// newest first, today is ordered by time, upcoming is soonest first. The
// view is recomputed from scratch on every snapshot change, never maintained
// incrementally.
func Partition(appts []clinic.Appointment, today string) Sections {
	var s Sections
	for _, a := range appts {
		switch {
		case a.Date < today:
			s.Previous = append(s.Previous, a)
		case a.Date == today:
			s.Today = append(s.Today, a)
		default:
			s.Upcoming = append(s.Upcoming, a)
		}
	}

	sort.SliceStable(s.Previous, func(i, j int) bool {
		return s.Previous[i].Date+s.Previous[i].Time > s.Previous[j].Date+s.Previous[j].Time
	})
	sort.SliceStable(s.Today, func(i, j int) bool {
		return s.Today[i].Time < s.Today[j].Time
	})
	sort.SliceStable(s.Upcoming, func(i, j int) bool {
		return s.Upcoming[i].Date+s.Upcoming[i].Time < s.Upcoming[j].Date+s.Upcoming[j].Time
	})

	return s
}

// IsNoShow reports whether the appointment should be presented as a
// no-show: its date has passed and it was never resolved. Derived at render
// time only; the stored status is untouched.
func IsNoShow(a clinic.Appointment, today string) bool {
	if a.Date >= today {
		return false
	}
	return a.Status == clinic.StatusPending || a.Status == clinic.StatusConfirmed
}

// Stats are the headline counters above the appointment list. Pending
// counts open work, so it includes confirmed appointments.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

func CountStats(appts []clinic.Appointment) Stats {
	s := Stats{Total: len(appts)}
	for _, a := range appts {
		switch a.Status {
		case clinic.StatusCompleted:
			s.Completed++
		case clinic.StatusCancelled:
			s.Cancelled++
		case clinic.StatusPending, clinic.StatusConfirmed:
			s.Pending++
		}
	}
	return s
}
