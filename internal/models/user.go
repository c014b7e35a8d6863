package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal attached to a request. Identity comes
// straight from the OIDC token; nothing is stored server-side.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	ProviderID string    `json:"provider_id,omitempty"`
	SeenAt     time.Time `json:"seen_at"`
}
