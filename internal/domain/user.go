package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuthUser holds credentials from auth_users. The gamification engine keys
// everything by the user ID; credentials exist only so the API can issue
// tokens.
type AuthUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GuardResult is returned by request guards (rate limiter, idempotency).
type GuardResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Guard   string `json:"guard,omitempty"`
}
