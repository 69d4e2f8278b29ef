package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
)

// QuotaStore defines the interface for quota window persistence.
// All operations are single statements; quota updates never need a
// caller-managed transaction.
type QuotaStore interface {
	// GetOrCreate returns the user's quota window, lazily creating a fresh
	// one on the user's first quota check.
	GetOrCreate(ctx context.Context, userID uuid.UUID, tier domain.Tier) (*domain.QuotaWindow, error)

	// Reset zeroes the usage counter and moves periodStart/lastReset to now.
	// The guard on lastReset makes a concurrent double-reset harmless: only
	// the first writer changes the row.
	Reset(ctx context.Context, userID uuid.UUID, lastReset, now time.Time) error

	// IncrementUsage adds one to the usage counter atomically at the
	// storage layer (usage = usage + 1), so concurrent requests from the
	// same user never lose updates.
	// Returns ErrQuotaWindowNotFound if no window exists for the user.
	IncrementUsage(ctx context.Context, userID uuid.UUID) error
}
