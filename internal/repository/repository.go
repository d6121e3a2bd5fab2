// Package repository defines storage contracts for checkout session state.
package repository

import (
	"context"

	"github.com/screenhall/web/internal/domain"
)

// SessionStore persists in-progress checkout sessions. Sessions are
// short-lived: a store implementation is expected to expire abandoned
// sessions on its own rather than rely on explicit cleanup.
type SessionStore interface {
	// Get returns the session by id, or apperrors.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)

	// Save upserts the session, refreshing its expiry.
	Save(ctx context.Context, session *domain.CheckoutSession) error

	// Delete discards the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
