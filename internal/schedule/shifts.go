package schedule

import "github.com/careopd/frontoffice/internal/clinic"

// Clinic-wide fallback shift windows, applied per field when a doctor's
// profile leaves a window boundary unset.
const (
	DefaultMorningStart = "09:00"
	DefaultMorningEnd   = "13:00"
	DefaultEveningStart = "17:00"
	DefaultEveningEnd   = "21:00"
)

// ShiftWindows is a doctor's bookable time-of-day ranges. Both ranges are
// half open: [MorningStart, MorningEnd) and [EveningStart, EveningEnd).
type ShiftWindows struct {
	MorningStart string
	MorningEnd   string
	EveningStart string
	EveningEnd   string
}

// WindowsFor resolves a doctor's configured shift windows, substituting the
// clinic defaults for any unset field.
func WindowsFor(d clinic.Doctor) ShiftWindows {
	return ShiftWindows{
		MorningStart: orDefault(d.MorningStart, DefaultMorningStart),
		MorningEnd:   orDefault(d.MorningEnd, DefaultMorningEnd),
		EveningStart: orDefault(d.EveningStart, DefaultEveningStart),
		EveningEnd:   orDefault(d.EveningEnd, DefaultEveningEnd),
	}
}

// Contains reports whether the time of day falls inside either shift.
// Comparison is lexicographic, which matches chronological order for
// zero-padded "HH:MM" values. Degenerate windows (start at or after end)
// contain nothing, so a doctor whose both windows are misconfigured yields
// an empty slot list rather than an error.
func (w ShiftWindows) Contains(t string) bool {
	morning := t >= w.MorningStart && t < w.MorningEnd
	evening := t >= w.EveningStart && t < w.EveningEnd
	return morning || evening
}

// FilterSlots narrows the canonical grid to the slots inside the doctor's
// shift windows, preserving grid order.
func FilterSlots(grid []string, d clinic.Doctor) []string {
	w := WindowsFor(d)
	slots := make([]string, 0, len(grid))
	for _, t := range grid {
		if w.Contains(t) {
			slots = append(slots, t)
		}
	}
	return slots
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
