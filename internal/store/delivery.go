package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
)

// DeliveryStore defines the interface for delivery event persistence.
type DeliveryStore interface {
	// Create persists a new delivery record.
	Create(ctx context.Context, delivery *domain.Delivery) error

	// GetByID retrieves a delivery by its unique ID.
	// Returns ErrDeliveryNotFound if the delivery does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error)

	// RecordAction stamps the reported action on a delivery. The first
	// action also sets openedAt. Recording the same action again is a
	// no-op, keeping action reports idempotent.
	// Returns ErrDeliveryNotFound if the delivery does not exist.
	RecordAction(ctx context.Context, id uuid.UUID, action domain.DeliveryAction, now time.Time) error

	// WithTx returns a DeliveryStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeliveryStore
}
