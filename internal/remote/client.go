// Package remote is the JSON-over-HTTP client for the upstream persistence
// API, the source of truth for every clinic collection. The front office
// never owns storage: it calls these endpoints and reconciles their
// responses into the local snapshot.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/careopd/frontoffice/internal/clinic"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "remote").Logger(),
	}
}

// LoginRequest mirrors the upstream credential check. Password handling
// stays upstream; this client only forwards it.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginUser struct {
	ID       clinic.ID `json:"_id"`
	ClinicID clinic.ID `json:"clinicId"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

type LoginResponse struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListAppointments(ctx context.Context, clinicID clinic.ID) ([]clinic.Appointment, error) {
	var appts []clinic.Appointment
	if err := c.doJSON(ctx, http.MethodGet, "/api/appointments/"+url.PathEscape(clinicID.String()), nil, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// NewPatientData is the inline sub-form carried with a booking when the
// patient does not exist yet.
type NewPatientData struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Address string `json:"address"`
}

// AppointmentPayload is the create body, and also the full update body used
// when rebooking in place.
type AppointmentPayload struct {
	ClinicID       clinic.ID                `json:"clinicId"`
	PatientID      clinic.ID                `json:"patientId"`
	DoctorID       clinic.ID                `json:"doctorId"`
	Date           string                   `json:"date"`
	Time           string                   `json:"time"`
	Type           string                   `json:"type"`
	Status         clinic.AppointmentStatus `json:"status"`
	NewPatientData *NewPatientData          `json:"newPatientData,omitempty"`
}

// CreateAppointmentResult carries the stored appointment plus the patient
// record when the booking created one inline.
type CreateAppointmentResult struct {
	Appointment clinic.Appointment `json:"appointment"`
	NewPatient  *clinic.Patient    `json:"newPatient,omitempty"`
}

func (c *Client) CreateAppointment(ctx context.Context, payload AppointmentPayload) (*CreateAppointmentResult, error) {
	var result CreateAppointmentResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/appointments", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AppointmentUpdate is a partial update body; zero fields are omitted.
type AppointmentUpdate struct {
	Date   string                   `json:"date,omitempty"`
	Time   string                   `json:"time,omitempty"`
	Status clinic.AppointmentStatus `json:"status,omitempty"`
}

func (c *Client) UpdateAppointment(ctx context.Context, id clinic.ID, body any) (*clinic.Appointment, error) {
	var appt clinic.Appointment
	if err := c.doJSON(ctx, http.MethodPut, "/api/appointments/"+url.PathEscape(id.String()), body, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

func (c *Client) ListDoctors(ctx context.Context, clinicID clinic.ID) ([]clinic.Doctor, error) {
	var docs []clinic.Doctor
	if err := c.doJSON(ctx, http.MethodGet, "/api/doctors/"+url.PathEscape(clinicID.String()), nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DoctorPayload is the create/update body for a doctor profile.
type DoctorPayload struct {
	ClinicID     clinic.ID           `json:"clinicId,omitempty"`
	Name         string              `json:"name"`
	Department   string              `json:"department"`
	Status       clinic.DoctorStatus `json:"status"`
	Photo        string              `json:"photo,omitempty"`
	MorningStart string              `json:"morningStart"`
	MorningEnd   string              `json:"morningEnd"`
	EveningStart string              `json:"eveningStart"`
	EveningEnd   string              `json:"eveningEnd"`
}

func (c *Client) CreateDoctor(ctx context.Context, payload DoctorPayload) (*clinic.Doctor, error) {
	var doc clinic.Doctor
	if err := c.doJSON(ctx, http.MethodPost, "/api/doctors", payload, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) UpdateDoctor(ctx context.Context, id clinic.ID, body any) (*clinic.Doctor, error) {
	var doc clinic.Doctor
	if err := c.doJSON(ctx, http.MethodPut, "/api/doctors/"+url.PathEscape(id.String()), body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) ListPatients(ctx context.Context, clinicID clinic.ID) ([]clinic.Patient, error) {
	var pats []clinic.Patient
	if err := c.doJSON(ctx, http.MethodGet, "/api/patients/"+url.PathEscape(clinicID.String()), nil, &pats); err != nil {
		return nil, err
	}
	return pats, nil
}

// PatientPayload is the create/update body for a patient profile.
type PatientPayload struct {
	ClinicID clinic.ID          `json:"clinicId,omitempty"`
	Name     string             `json:"name"`
	Age      int                `json:"age"`
	Gender   string             `json:"gender"`
	Phone    string             `json:"phone"`
	Address  string             `json:"address"`
	Type     clinic.PatientType `json:"type"`
}

func (c *Client) CreatePatient(ctx context.Context, payload PatientPayload) (*clinic.Patient, error) {
	var pat clinic.Patient
	if err := c.doJSON(ctx, http.MethodPost, "/api/patients", payload, &pat); err != nil {
		return nil, err
	}
	return &pat, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id clinic.ID, body any) (*clinic.Patient, error) {
	var pat clinic.Patient
	if err := c.doJSON(ctx, http.MethodPut, "/api/patients/"+url.PathEscape(id.String()), body, &pat); err != nil {
		return nil, err
	}
	return &pat, nil
}

func (c *Client) GetClinic(ctx context.Context, clinicID clinic.ID) (*clinic.Clinic, error) {
	var cl clinic.Clinic
	if err := c.doJSON(ctx, http.MethodGet, "/api/clinics/"+url.PathEscape(clinicID.String()), nil, &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

func (c *Client) UpdateClinic(ctx context.Context, clinicID clinic.ID, body any) (*clinic.Clinic, error) {
	var cl clinic.Clinic
	if err := c.doJSON(ctx, http.MethodPut, "/api/clinics/"+url.PathEscape(clinicID.String()), body, &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// Ping probes upstream reachability for readiness checks. Any HTTP response
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("upstream call failed")
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrUnreachable, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("upstream call")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w: %v", method, path, ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return rejectionFromResponse(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
