package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/careopd/frontoffice/internal/clinic"
	"github.com/careopd/frontoffice/internal/remote"
)

// Seeds the upstream persistence API with fake doctors and patients for
// development. The front office itself never writes records this way; the
// tool just fills an empty upstream so the UI has something to show.
func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	logger.Info().Msg("seed starting")

	baseURL := strings.TrimRight(os.Getenv("UPSTREAM_BASE_URL"), "/")
	if baseURL == "" {
		logger.Fatal().Msg("UPSTREAM_BASE_URL is required")
	}
	clinicID := clinic.ID(os.Getenv("CLINIC_ID"))
	if clinicID.IsZero() {
		logger.Fatal().Msg("CLINIC_ID is required")
	}

	client := remote.NewClient(baseURL, 10*time.Second, logger)
	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seedDoctors(ctx, client, clinicID, 12); err != nil {
		logger.Fatal().Err(err).Msg("seed doctors")
	}
	if err := seedPatients(ctx, client, clinicID, 80); err != nil {
		logger.Fatal().Err(err).Msg("seed patients")
	}

	logger.Info().Msg("seed complete")
}

var departments = []string{
	"Dermatology",
	"Cardiology",
	"General Practice",
	"Orthopedics",
	"Endocrinology",
	"Neurology",
	"Pediatrics",
	"Psychiatry",
	"Ophthalmology",
	"ENT",
}

var shiftPresets = []remote.DoctorPayload{
	{MorningStart: "09:00", MorningEnd: "13:00", EveningStart: "17:00", EveningEnd: "21:00"},
	{MorningStart: "10:00", MorningEnd: "13:00", EveningStart: "17:00", EveningEnd: "20:00"},
	{MorningStart: "09:00", MorningEnd: "12:00", EveningStart: "16:00", EveningEnd: "19:00"},
}

func seedDoctors(ctx context.Context, client *remote.Client, clinicID clinic.ID, count int) error {
	for i := 0; i < count; i++ {
		preset := shiftPresets[gofakeit.Number(0, len(shiftPresets)-1)]
		person := gofakeit.Name()

		payload := remote.DoctorPayload{
			ClinicID:     clinicID,
			Name:         "Dr. " + person,
			Department:   departments[gofakeit.Number(0, len(departments)-1)],
			Status:       clinic.DoctorAvailable,
			Photo:        strings.ToUpper(person[:1]),
			MorningStart: preset.MorningStart,
			MorningEnd:   preset.MorningEnd,
			EveningStart: preset.EveningStart,
			EveningEnd:   preset.EveningEnd,
		}

		if _, err := client.CreateDoctor(ctx, payload); err != nil {
			return fmt.Errorf("create doctor %d: %w", i, err)
		}
	}
	return nil
}

func seedPatients(ctx context.Context, client *remote.Client, clinicID clinic.ID, count int) error {
	genders := []string{"M", "F", "O"}
	for i := 0; i < count; i++ {
		payload := remote.PatientPayload{
			ClinicID: clinicID,
			Name:     gofakeit.Name(),
			Age:      gofakeit.Number(1, 90),
			Gender:   genders[gofakeit.Number(0, len(genders)-1)],
			Phone:    gofakeit.Phone(),
			Address:  gofakeit.Street() + ", " + gofakeit.City(),
			Type:     clinic.PatientNew,
		}

		if _, err := client.CreatePatient(ctx, payload); err != nil {
			return fmt.Errorf("create patient %d: %w", i, err)
		}
	}
	return nil
}
