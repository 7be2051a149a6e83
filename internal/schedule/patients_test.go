package schedule

import (
	"testing"

	"github.com/careopd/frontoffice/internal/clinic"
)

func TestClassifyPatients(t *testing.T) {
	today := "2026-08-30"
	patients := []clinic.Patient{
		{ID: "p1", Name: "Asha", LastVisit: "2026-08-01"},
		{ID: "p2", Name: "Bharat", LastVisit: "2026-07-15"},
		{ID: "p3", Name: "Chitra", LastVisit: "2025-11-01"}, // past the horizon
		{ID: "p4", Name: "Deepak", LastVisit: clinic.LastVisitNone},
		{ID: "p5", Name: "Esha", LastVisit: ""},
		{ID: "", Name: "Ghost", LastVisit: "2026-08-20"},
	}
	appts := []clinic.Appointment{
		{ID: "a1", PatientID: "p1", Date: today, Time: "10:30", Status: clinic.StatusConfirmed},
		{ID: "a2", PatientID: "p2", Date: today, Time: "09:00", Status: clinic.StatusCancelled},
	}

	classified := ClassifyPatients(patients, appts, today)
	if len(classified) != len(patients) {
		t.Fatalf("got %d classified patients, want %d", len(classified), len(patients))
	}

	byName := make(map[string]ClassifiedPatient, len(classified))
	for _, cp := range classified {
		byName[cp.Name] = cp
	}

	if cp := byName["Asha"]; cp.Category != CategoryVisitingToday || cp.SortTime != "10:30" {
		t.Errorf("Asha = %q at %q, want visitingToday at 10:30", cp.Category, cp.SortTime)
	}
	// A cancelled appointment today does not count as visiting.
	if cp := byName["Bharat"]; cp.Category != CategoryRecent || cp.SortDate != "2026-07-15" {
		t.Errorf("Bharat = %q sorted by %q, want recent by 2026-07-15", cp.Category, cp.SortDate)
	}
	if cp := byName["Chitra"]; cp.Category != CategoryNoVisit || cp.SortDate != "2025-11-01" {
		t.Errorf("Chitra = %q sorted by %q, want noVisit by 2025-11-01", cp.Category, cp.SortDate)
	}
	if cp := byName["Deepak"]; cp.Category != CategoryNoVisit || cp.SortDate != "0000-00-00" {
		t.Errorf("Deepak = %q sorted by %q, want noVisit with never-visited key", cp.Category, cp.SortDate)
	}
	if cp := byName["Esha"]; cp.Category != CategoryNoVisit || cp.SortDate != "0000-00-00" {
		t.Errorf("Esha = %q sorted by %q, want noVisit with never-visited key", cp.Category, cp.SortDate)
	}
	if cp := byName["Ghost"]; cp.Category != CategoryNoVisit {
		t.Errorf("zero-id patient = %q, want noVisit", cp.Category)
	}
}

func TestPartitionPatients(t *testing.T) {
	classified := []ClassifiedPatient{
		{Patient: clinic.Patient{ID: "p1", Name: "Late"}, Category: CategoryVisitingToday, SortTime: "15:00"},
		{Patient: clinic.Patient{ID: "p2", Name: "Early"}, Category: CategoryVisitingToday, SortTime: "09:00"},
		{Patient: clinic.Patient{ID: "p3", Name: "Older"}, Category: CategoryRecent, SortDate: "2026-07-01"},
		{Patient: clinic.Patient{ID: "p4", Name: "Newer"}, Category: CategoryRecent, SortDate: "2026-08-10"},
		{Patient: clinic.Patient{ID: "p5", Name: "Zed"}, Category: CategoryNoVisit},
		{Patient: clinic.Patient{ID: "p6", Name: "Amy"}, Category: CategoryNoVisit},
	}

	s := PartitionPatients(classified)

	if len(s.VisitingToday) != 2 || s.VisitingToday[0].Name != "Early" {
		t.Errorf("visitingToday must sort by time ascending, got %+v", s.VisitingToday)
	}
	if len(s.Recent) != 2 || s.Recent[0].Name != "Newer" {
		t.Errorf("recent must sort newest first, got %+v", s.Recent)
	}
	if len(s.NoVisit) != 2 || s.NoVisit[0].Name != "Amy" {
		t.Errorf("noVisit must sort by name, got %+v", s.NoVisit)
	}
}

func TestCountPatientStats(t *testing.T) {
	today := "2026-08-30"
	patients := []clinic.Patient{
		{ID: "p1", Type: clinic.PatientNew, LastVisit: "2026-08-01"},
		{ID: "p2", Type: clinic.PatientReturning, LastVisit: "2025-01-01"},
		{ID: "p3", Type: clinic.PatientReturning, LastVisit: clinic.LastVisitNone},
		{ID: "p4", Type: clinic.PatientNew, LastVisit: ""},
	}
	got := CountPatientStats(patients, today)
	want := PatientStats{Total: 4, New: 2, Returning: 2, NoVisit: 3}
	if got != want {
		t.Errorf("CountPatientStats = %+v, want %+v", got, want)
	}
}
