// Package session stores the identity marker a terminal acquires at login:
// which clinic and which user it is acting for. Every data-bearing
// operation reads this marker first; its absence means "not authenticated"
// and short-circuits the operation rather than failing it.
package session

import (
	"context"
	"errors"

	"github.com/careopd/frontoffice/internal/clinic"
)

var ErrNotAuthenticated = errors.New("no active session")

type Session struct {
	Token    string    `json:"token"`
	ClinicID clinic.ID `json:"clinicId"`
	UserID   clinic.ID `json:"userId"`
	UserName string    `json:"userName"`
}

type Store interface {
	Save(ctx context.Context, s Session) error
	// Get returns ErrNotAuthenticated when the token is unknown or expired.
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}
