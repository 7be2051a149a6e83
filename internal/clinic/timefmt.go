package clinic

import "time"

// Dates are "YYYY-MM-DD" and times of day are "HH:MM", both zero padded so
// that lexicographic comparison is chronological comparison. Every value
// crossing a boundary is validated against these layouts instead of being
// trusted.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

func ValidDate(s string) bool {
	t, err := time.Parse(DateLayout, s)
	return err == nil && t.Format(DateLayout) == s
}

func ValidTime(s string) bool {
	t, err := time.Parse(TimeLayout, s)
	return err == nil && t.Format(TimeLayout) == s
}

// Today returns the current calendar date in the canonical layout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// MonthsBefore returns the date the given number of months before the given
// date, used for the recent-visit horizon.
func MonthsBefore(date string, months int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		t = time.Now()
	}
	return t.AddDate(0, -months, 0).Format(DateLayout)
}
