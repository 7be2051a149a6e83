package schedule

import "github.com/careopd/frontoffice/internal/clinic"

// HasConflict reports whether the patient already holds a non-cancelled
// appointment at the given date and time. excludeID skips the record under
// edit so a reschedule or in-place rebook does not collide with itself; pass
// the zero ID when nothing should be excluded.
//
// This is the authoritative booking gate and it is evaluated against the
// local snapshot immediately before every create or update call upstream.
// The invariant is per patient: the same doctor slot may legitimately be
// held by two different patients.
func HasConflict(appts []clinic.Appointment, patientID clinic.ID, date, timeOfDay string, excludeID clinic.ID) bool {
	for _, a := range appts {
		if !a.PatientID.Equal(patientID) {
			continue
		}
		if a.Date != date || a.Time != timeOfDay {
			continue
		}
		if a.Status == clinic.StatusCancelled {
			continue
		}
		if a.ID.Equal(excludeID) {
			continue
		}
		return true
	}
	return false
}

// BookedSlots returns the times already occupied for a doctor on a date.
// Display concern only, used to disable slots in the picker.
func BookedSlots(appts []clinic.Appointment, doctorID clinic.ID, date string) []string {
	var booked []string
	for _, a := range appts {
		if a.DoctorID.Equal(doctorID) && a.Date == date && a.Status != clinic.StatusCancelled {
			booked = append(booked, a.Time)
		}
	}
	return booked
}

type SlotStatus string

const (
	SlotAvailable SlotStatus = "Available"
	SlotBooked    SlotStatus = "Booked"
	SlotCompleted SlotStatus = "Completed"
)

type Slot struct {
	Time   string     `json:"time"`
	Status SlotStatus `json:"status"`
}

// DaySlots renders a doctor's slot grid for one date: the canonical grid
// filtered to their shifts, with each slot marked available, booked, or
// completed from the non-cancelled appointments on that date.
func DaySlots(appts []clinic.Appointment, d clinic.Doctor, date string) []Slot {
	byTime := make(map[string]clinic.AppointmentStatus)
	for _, a := range appts {
		if a.DoctorID.Equal(d.ID) && a.Date == date && a.Status != clinic.StatusCancelled {
			byTime[a.Time] = a.Status
		}
	}

	times := FilterSlots(TimeGrid(), d)
	slots := make([]Slot, 0, len(times))
	for _, t := range times {
		s := Slot{Time: t, Status: SlotAvailable}
		if status, ok := byTime[t]; ok {
			if status == clinic.StatusCompleted {
				s.Status = SlotCompleted
			} else {
				s.Status = SlotBooked
			}
		}
		slots = append(slots, s)
	}
	return slots
}
