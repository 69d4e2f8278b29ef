package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/store"
)

// DeliveryStore implements the store.DeliveryStore interface using a
// PostgreSQL database as the storage backend.
type DeliveryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDeliveryStore creates a new PostgreSQL implementation of the
// DeliveryStore interface. If logger is nil, a default logger will be used.
func NewDeliveryStore(db store.DBTX, logger *slog.Logger) *DeliveryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeliveryStore{
		db:     db,
		logger: logger.With(slog.String("component", "delivery_store")),
	}
}

// Ensure DeliveryStore implements store.DeliveryStore interface
var _ store.DeliveryStore = (*DeliveryStore)(nil)

// Create implements store.DeliveryStore.Create
func (s *DeliveryStore) Create(ctx context.Context, delivery *domain.Delivery) error {
	if err := delivery.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO deliveries (id, user_id, term_id, kind, delivered_at, opened_at, action)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		delivery.ID,
		delivery.UserID,
		delivery.TermID,
		delivery.Kind,
		delivery.DeliveredAt,
		nullableTime(delivery.OpenedAt),
		delivery.Action,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.DeliveryStore.GetByID
func (s *DeliveryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Delivery, error) {
	query := `
		SELECT id, user_id, term_id, kind, delivered_at, opened_at, action
		FROM deliveries
		WHERE id = $1`

	var delivery domain.Delivery
	var openedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&delivery.ID,
		&delivery.UserID,
		&delivery.TermID,
		&delivery.Kind,
		&delivery.DeliveredAt,
		&openedAt,
		&delivery.Action,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrDeliveryNotFound
		}
		return nil, MapError(err)
	}

	if openedAt.Valid {
		delivery.OpenedAt = openedAt.Time
	}

	return &delivery, nil
}

// RecordAction implements store.DeliveryStore.RecordAction. The COALESCE
// keeps the first openedAt stamp; repeating the same action leaves the row
// unchanged, so reports are idempotent.
func (s *DeliveryStore) RecordAction(ctx context.Context, id uuid.UUID, action domain.DeliveryAction, now time.Time) error {
	query := `
		UPDATE deliveries
		SET action = $2, opened_at = COALESCE(opened_at, $3)
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, action, now)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrDeliveryNotFound
	}

	return nil
}

// WithTx implements store.DeliveryStore.WithTx
func (s *DeliveryStore) WithTx(tx *sql.Tx) store.DeliveryStore {
	return &DeliveryStore{
		db:     tx,
		logger: s.logger,
	}
}
