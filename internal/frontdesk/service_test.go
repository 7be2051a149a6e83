package frontdesk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/notify"
	"github.com/careopd/frontoffice/internal/remote"
	"github.com/careopd/frontoffice/internal/session"
	"github.com/careopd/frontoffice/internal/store"
)

const testToday = "2026-08-30"

// fakeUpstream records every call the service makes and plays back a canned
// JSON response per method+path.
type fakeUpstream struct {
	mu        sync.Mutex
	calls     []upstreamCall
	responses map[string]string
	status    int
}

type upstreamCall struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{responses: map[string]string{}, status: http.StatusOK}
}

func (f *fakeUpstream) respond(method, path, body string) {
	f.responses[method+" "+path] = body
}

func (f *fakeUpstream) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		call := upstreamCall{Method: r.Method, Path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			if err := json.Unmarshal(data, &call.Body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()

		body, ok := f.responses[r.Method+" "+r.URL.Path]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		w.Write([]byte(body))
	}
}

func (f *fakeUpstream) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeUpstream) lastCall(t *testing.T) upstreamCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no upstream calls recorded")
	}
	return f.calls[len(f.calls)-1]
}

func newTestService(t *testing.T, upstream *fakeUpstream) (*Service, *store.Store, *notify.Center) {
	t.Helper()
	srv := httptest.NewServer(upstream.handler(t))
	t.Cleanup(srv.Close)

	st := store.New()
	notes := notify.NewCenter()
	client := remote.NewClient(srv.URL, 5*time.Second, zerolog.Nop())
	svc := NewService(st, client, notes, zerolog.Nop())
	svc.today = func() string { return testToday }
	return svc, st, notes
}

func seedAppointments(st *store.Store, appts ...clinic.Appointment) {
	st.ReplaceAll(appts, nil, nil)
}

func TestBookCreatesAppointment(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.respond(http.MethodPost, "/api/appointments",
		`{"appointment":{"_id":"a9","patientId":"p1","doctorId":"d1","date":"2026-09-01","time":"10:00","type":"Consultation","status":"Pending"}}`)
	svc, st, notes := newTestService(t, upstream)

	result, err := svc.Book(context.Background(), BookingRequest{
		ClinicID:  "c1",
		PatientID: "p1",
		DoctorID:  "d1",
		Date:      "2026-09-01",
		Time:      "10:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if result.Updated {
		t.Error("a fresh booking must not be reported as an update")
	}
	if result.Appointment.ID != "a9" {
		t.Errorf("appointment id = %q, want a9", result.Appointment.ID)
	}

	call := upstream.lastCall(t)
	if call.Method != http.MethodPost || call.Path != "/api/appointments" {
		t.Errorf("upstream call = %s %s, want POST /api/appointments", call.Method, call.Path)
	}
	if call.Body["type"] != DefaultVisitType {
		t.Errorf("visit type = %v, want default %q", call.Body["type"], DefaultVisitType)
	}
	if call.Body["status"] != "Pending" {
		t.Errorf("status = %v, want Pending", call.Body["status"])
	}

	if _, ok := st.Appointment("a9"); !ok {
		t.Error("booked appointment missing from the snapshot")
	}
	history := notes.History()
	if len(history) != 1 || history[0].Message != "Appointment Booked" || history[0].Type != notify.Success {
		t.Errorf("notification feed = %+v", history)
	}
}

func TestBookConflictSkipsUpstream(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)
	seedAppointments(st, clinic.Appointment{
		ID: "a1", PatientID: "p1", DoctorID: "d1",
		Date: "2026-09-01", Time: "10:00", Status: clinic.StatusPending,
	})

	_, err := svc.Book(context.Background(), BookingRequest{
		ClinicID:  "c1",
		PatientID: "p1",
		DoctorID:  "d2",
		Date:      "2026-09-01",
		Time:      "10:00",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("conflicting booking must not reach upstream, got %d calls", n)
	}
}

func TestBookValidation(t *testing.T) {
	upstream := newFakeUpstream()
	svc, _, _ := newTestService(t, upstream)

	_, err := svc.Book(context.Background(), BookingRequest{
		ClinicID: "c1",
		Date:     "2026-9-1", // malformed
		Time:     "25:00",
	})
	v, ok := AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	want := map[string]bool{"patientId": true, "doctorId": true, "date": true, "time": true}
	if len(v.Fields) != len(want) {
		t.Fatalf("fields = %v, want %v", v.Fields, want)
	}
	for _, f := range v.Fields {
		if !want[f] {
			t.Errorf("unexpected field %q in %v", f, v.Fields)
		}
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("invalid booking must not reach upstream, got %d calls", n)
	}
}

func TestBookInlineNewPatient(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.respond(http.MethodPost, "/api/appointments",
		`{"appointment":{"_id":"a9","patientId":"p9","doctorId":"d1","date":"2026-09-01","time":"10:00","status":"Pending"},
		  "newPatient":{"_id":"p9","name":"Asha","phone":"9000000001","age":30,"address":"MG Road","type":"New","lastVisit":"-"}}`)
	svc, st, _ := newTestService(t, upstream)

	result, err := svc.Book(context.Background(), BookingRequest{
		ClinicID: "c1",
		NewPatient: &remote.NewPatientData{
			Name: "Asha", Phone: "9000000001", Age: 30, Address: "MG Road",
		},
		DoctorID: "d1",
		Date:     "2026-09-01",
		Time:     "10:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if result.NewPatient == nil || result.NewPatient.ID != "p9" {
		t.Fatalf("new patient = %+v, want id p9", result.NewPatient)
	}
	if _, ok := st.Patient("p9"); !ok {
		t.Error("inline-created patient missing from the snapshot")
	}
}

func TestBookRebookUpdatesInPlace(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.respond(http.MethodPut, "/api/appointments/a1",
		`{"_id":"a1","patientId":"p1","doctorId":"d1","date":"2026-09-02","time":"11:00","type":"Consultation","status":"Pending"}`)
	svc, st, _ := newTestService(t, upstream)
	seedAppointments(st, clinic.Appointment{
		ID: "a1", PatientID: "p1", DoctorID: "d1",
		Date: "2026-09-01", Time: "10:00", Status: clinic.StatusCancelled,
	})

	result, err := svc.Book(context.Background(), BookingRequest{
		ClinicID:  "c1",
		PatientID: "p1",
		DoctorID:  "d1",
		Date:      "2026-09-02",
		Time:      "11:00",
		RebookID:  "a1",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if !result.Updated {
		t.Error("in-place rebook must be reported as an update")
	}

	call := upstream.lastCall(t)
	if call.Method != http.MethodPut || call.Path != "/api/appointments/a1" {
		t.Errorf("upstream call = %s %s, want PUT /api/appointments/a1", call.Method, call.Path)
	}

	stored, _ := st.Appointment("a1")
	if stored.Date != "2026-09-02" || stored.Time != "11:00" {
		t.Errorf("stored appointment = %+v, want moved to 2026-09-02 11:00", stored)
	}
}

func TestCancel(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.respond(http.MethodPut, "/api/appointments/a1",
		`{"_id":"a1","patientId":"p1","doctorId":"d1","date":"2026-09-01","time":"10:00","status":"Cancelled"}`)
	svc, st, notes := newTestService(t, upstream)
	seedAppointments(st, clinic.Appointment{
		ID: "a1", PatientID: "p1", DoctorID: "d1",
		Date: "2026-09-01", Time: "10:00", Status: clinic.StatusConfirmed,
	})

	appt, err := svc.Cancel(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if appt.Status != clinic.StatusCancelled {
		t.Errorf("returned status = %q, want Cancelled", appt.Status)
	}

	call := upstream.lastCall(t)
	if call.Body["status"] != "Cancelled" {
		t.Errorf("upstream body = %v, want status Cancelled", call.Body)
	}
	if _, ok := call.Body["date"]; ok {
		t.Error("cancel must not send date, only the status transition")
	}

	stored, _ := st.Appointment("a1")
	if stored.Status != clinic.StatusCancelled {
		t.Errorf("stored status = %q, want Cancelled", stored.Status)
	}
	history := notes.History()
	if len(history) != 1 || history[0].Type != notify.Error {
		t.Errorf("cancellation must produce an error-toned notification, got %+v", history)
	}
}

func TestCancelResolvedSkipsUpstream(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)

	for _, status := range []clinic.AppointmentStatus{clinic.StatusCancelled, clinic.StatusCompleted} {
		seedAppointments(st, clinic.Appointment{
			ID: "a1", PatientID: "p1", DoctorID: "d1",
			Date: "2026-09-01", Time: "10:00", Status: status,
		})

		_, err := svc.Cancel(context.Background(), "a1")
		if !errors.Is(err, ErrAppointmentResolved) {
			t.Errorf("cancel of %s record: err = %v, want ErrAppointmentResolved", status, err)
		}
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("resolved records must not reach upstream, got %d calls", n)
	}
}

func TestCancelNotFound(t *testing.T) {
	upstream := newFakeUpstream()
	svc, _, _ := newTestService(t, upstream)

	_, err := svc.Cancel(context.Background(), "missing")
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound", err)
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("unknown id must not reach upstream, got %d calls", n)
	}
}

func TestRescheduleUnchangedSkipsUpstream(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)
	seedAppointments(st, clinic.Appointment{
		ID: "a1", PatientID: "p1", DoctorID: "d1",
		Date: "2026-09-01", Time: "10:00", Status: clinic.StatusPending,
	})

	_, err := svc.Reschedule(context.Background(), "a1", "2026-09-01", "10:00")
	if !errors.Is(err, ErrUnchanged) {
		t.Fatalf("err = %v, want ErrUnchanged", err)
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("unchanged reschedule must not reach upstream, got %d calls", n)
	}
}

func TestRescheduleRejectsNonLiveRecords(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)

	tests := []struct {
		name string
		appt clinic.Appointment
	}{
		{"cancelled", clinic.Appointment{ID: "a1", PatientID: "p1", DoctorID: "d1", Date: "2026-09-01", Time: "10:00", Status: clinic.StatusCancelled}},
		{"completed", clinic.Appointment{ID: "a1", PatientID: "p1", DoctorID: "d1", Date: "2026-08-01", Time: "10:00", Status: clinic.StatusCompleted}},
		{"past no-show", clinic.Appointment{ID: "a1", PatientID: "p1", DoctorID: "d1", Date: "2026-08-01", Time: "10:00", Status: clinic.StatusPending}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seedAppointments(st, tt.appt)

			_, err := svc.Reschedule(context.Background(), "a1", "2026-09-05", "11:00")
			if !errors.Is(err, ErrNotReschedulable) {
				t.Fatalf("err = %v, want ErrNotReschedulable", err)
			}
			if n := upstream.callCount(); n != 0 {
				t.Errorf("non-live record must not reach upstream, got %d calls", n)
			}
			stored, _ := st.Appointment("a1")
			if stored != tt.appt {
				t.Errorf("stored record changed: %+v", stored)
			}
		})
	}
}

func TestRescheduleConflict(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)
	seedAppointments(st,
		clinic.Appointment{ID: "a1", PatientID: "p1", DoctorID: "d1", Date: "2026-09-01", Time: "10:00", Status: clinic.StatusPending},
		clinic.Appointment{ID: "a2", PatientID: "p1", DoctorID: "d2", Date: "2026-09-02", Time: "11:00", Status: clinic.StatusConfirmed},
	)

	_, err := svc.Reschedule(context.Background(), "a1", "2026-09-02", "11:00")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("conflicting reschedule must not reach upstream, got %d calls", n)
	}
}

func TestReschedule(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.respond(http.MethodPut, "/api/appointments/a1",
		`{"_id":"a1","patientId":"p1","doctorId":"d1","date":"2026-09-03","time":"12:00","status":"Confirmed"}`)
	svc, st, notes := newTestService(t, upstream)
	seedAppointments(st, clinic.Appointment{
		ID: "a1", PatientID: "p1", DoctorID: "d1",
		Date: "2026-09-01", Time: "10:00", Status: clinic.StatusPending,
	})

	appt, err := svc.Reschedule(context.Background(), "a1", "2026-09-03", "12:00")
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if appt.Status != clinic.StatusConfirmed {
		t.Errorf("status = %q, want Confirmed", appt.Status)
	}

	call := upstream.lastCall(t)
	if call.Body["date"] != "2026-09-03" || call.Body["time"] != "12:00" || call.Body["status"] != "Confirmed" {
		t.Errorf("upstream body = %v", call.Body)
	}

	stored, _ := st.Appointment("a1")
	if stored.Date != "2026-09-03" || stored.Status != clinic.StatusConfirmed {
		t.Errorf("stored appointment = %+v", stored)
	}
	history := notes.History()
	if len(history) != 1 || history[0].Message != "Rescheduled Successfully" {
		t.Errorf("notification feed = %+v", history)
	}
}

func TestRebookPrefill(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)
	st.ReplaceAll(
		[]clinic.Appointment{
			{ID: "past", PatientID: "p1", DoctorID: "d1", Date: "2026-08-20", Time: "10:00", Status: clinic.StatusCancelled},
			{ID: "future", PatientID: "p2", DoctorID: "d1", Date: "2026-09-05", Time: "11:00", Status: clinic.StatusCancelled},
		},
		[]clinic.Doctor{{ID: "d1", Name: "Dr. Rao", Department: "Cardiology"}},
		nil,
	)

	past, err := svc.RebookPrefill("past")
	if err != nil {
		t.Fatalf("RebookPrefill(past): %v", err)
	}
	if !past.RebookID.IsZero() {
		t.Error("a past appointment must be cloned, not updated in place")
	}
	if past.Date != testToday {
		t.Errorf("prefill date = %q, want today", past.Date)
	}
	if past.Time != "" {
		t.Errorf("prefill time = %q, want cleared", past.Time)
	}
	if past.Department != "Cardiology" {
		t.Errorf("department = %q, want Cardiology", past.Department)
	}

	future, err := svc.RebookPrefill("future")
	if err != nil {
		t.Fatalf("RebookPrefill(future): %v", err)
	}
	if future.RebookID != "future" {
		t.Errorf("rebook id = %q, want the source record for an in-place update", future.RebookID)
	}
}

func TestRebookPrefillRejectsLiveRecords(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)
	seedAppointments(st,
		clinic.Appointment{ID: "pending", PatientID: "p1", DoctorID: "d1", Date: "2026-09-05", Time: "10:00", Status: clinic.StatusPending},
		clinic.Appointment{ID: "confirmed", PatientID: "p2", DoctorID: "d1", Date: testToday, Time: "11:00", Status: clinic.StatusConfirmed},
		clinic.Appointment{ID: "noshow", PatientID: "p3", DoctorID: "d1", Date: "2026-08-01", Time: "09:00", Status: clinic.StatusPending},
	)

	for _, id := range []clinic.ID{"pending", "confirmed"} {
		if _, err := svc.RebookPrefill(id); !errors.Is(err, ErrNotRebookable) {
			t.Errorf("RebookPrefill(%s): err = %v, want ErrNotRebookable", id, err)
		}
	}

	// A past no-show is rebookable, as a clone.
	prefill, err := svc.RebookPrefill("noshow")
	if err != nil {
		t.Fatalf("RebookPrefill(noshow): %v", err)
	}
	if !prefill.RebookID.IsZero() {
		t.Error("a no-show must be cloned, not updated in place")
	}
}

func TestBookRebookRejectsLiveTarget(t *testing.T) {
	upstream := newFakeUpstream()
	svc, st, _ := newTestService(t, upstream)
	seedAppointments(st, clinic.Appointment{
		ID: "a1", PatientID: "p1", DoctorID: "d1",
		Date: "2026-09-05", Time: "10:00", Status: clinic.StatusConfirmed,
	})

	_, err := svc.Book(context.Background(), BookingRequest{
		ClinicID:  "c1",
		PatientID: "p1",
		DoctorID:  "d1",
		Date:      "2026-09-06",
		Time:      "11:00",
		RebookID:  "a1",
	})
	if !errors.Is(err, ErrNotRebookable) {
		t.Fatalf("err = %v, want ErrNotRebookable", err)
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("a live rebook target must not reach upstream, got %d calls", n)
	}

	_, err = svc.Book(context.Background(), BookingRequest{
		ClinicID:  "c1",
		PatientID: "p1",
		DoctorID:  "d1",
		Date:      "2026-09-06",
		Time:      "11:00",
		RebookID:  "missing",
	})
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound for an unknown target", err)
	}
}

func TestRefreshRequiresClinic(t *testing.T) {
	upstream := newFakeUpstream()
	svc, _, _ := newTestService(t, upstream)

	err := svc.Refresh(context.Background(), "")
	if !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
	if n := upstream.callCount(); n != 0 {
		t.Errorf("zero clinic id must not reach upstream, got %d calls", n)
	}
}

func TestRefreshKeepsSnapshotOnPartialFailure(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.respond(http.MethodGet, "/api/appointments/c1", `[]`)
	upstream.respond(http.MethodGet, "/api/doctors/c1", `[]`)
	// /api/patients/c1 deliberately unregistered: the fake answers 404.
	svc, st, _ := newTestService(t, upstream)
	seedAppointments(st, clinic.Appointment{ID: "a1", PatientID: "p1", Date: "2026-09-01", Time: "10:00"})

	if err := svc.Refresh(context.Background(), "c1"); err == nil {
		t.Fatal("expected an error when one collection fetch fails")
	}
	if _, ok := st.Appointment("a1"); !ok {
		t.Error("a failed refresh must leave the previous snapshot intact")
	}
}
