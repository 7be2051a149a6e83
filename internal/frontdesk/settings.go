package frontdesk

import (
	"context"
	"fmt"

	"github.com/careopd/frontoffice/internal/clinic"
)

// Settings fetches the clinic settings document.
func (s *Service) Settings(ctx context.Context, clinicID clinic.ID) (*clinic.Clinic, error) {
	cl, err := s.remote.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("load clinic settings: %w", err)
	}
	return cl, nil
}

// SettingsForm is a clinic settings submission.
type SettingsForm struct {
	Name      string            `json:"name"`
	Address   string            `json:"address"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	Hours     string            `json:"hours"`
	Templates []clinic.Template `json:"templates,omitempty"`
}

// SaveSettings updates the clinic settings document upstream.
func (s *Service) SaveSettings(ctx context.Context, clinicID clinic.ID, form SettingsForm) (*clinic.Clinic, error) {
	if form.Name == "" {
		return nil, &ValidationError{Fields: []string{"name"}}
	}

	cl, err := s.remote.UpdateClinic(ctx, clinicID, form)
	if err != nil {
		return nil, fmt.Errorf("save clinic settings: %w", err)
	}

	s.log.Info().Str("clinic_id", clinicID.String()).Msg("clinic settings saved")
	return cl, nil
}
