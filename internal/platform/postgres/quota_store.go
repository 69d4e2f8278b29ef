package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/store"
)

// QuotaStore implements the store.QuotaStore interface using a PostgreSQL
// database as the storage backend. Usage mutations are single atomic
// statements so concurrent requests never need row locks at the service
// layer.
type QuotaStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewQuotaStore creates a new PostgreSQL implementation of the QuotaStore
// interface. If logger is nil, a default logger will be used.
func NewQuotaStore(db store.DBTX, logger *slog.Logger) *QuotaStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QuotaStore{
		db:     db,
		logger: logger.With(slog.String("component", "quota_store")),
	}
}

// Ensure QuotaStore implements store.QuotaStore interface
var _ store.QuotaStore = (*QuotaStore)(nil)

// GetOrCreate implements store.QuotaStore.GetOrCreate. The insert races
// benignly: ON CONFLICT DO NOTHING lets the loser fall through to reading
// the winner's row.
func (s *QuotaStore) GetOrCreate(ctx context.Context, userID uuid.UUID, tier domain.Tier) (*domain.QuotaWindow, error) {
	window, err := domain.NewQuotaWindow(userID, tier)
	if err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO quota_windows (user_id, tier, current_usage, period_start, last_reset, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING`

	_, err = s.db.ExecContext(ctx, insert,
		window.UserID,
		window.Tier,
		window.CurrentUsage,
		window.PeriodStart,
		window.LastReset,
		window.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}

	query := `
		SELECT user_id, tier, current_usage, period_start, last_reset, updated_at
		FROM quota_windows
		WHERE user_id = $1`

	var result domain.QuotaWindow
	err = s.db.QueryRowContext(ctx, query, userID).Scan(
		&result.UserID,
		&result.Tier,
		&result.CurrentUsage,
		&result.PeriodStart,
		&result.LastReset,
		&result.UpdatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrQuotaWindowNotFound
		}
		return nil, MapError(err)
	}

	return &result, nil
}

// Reset implements store.QuotaStore.Reset. The last_reset guard makes the
// update conditional on the state the caller observed: when two requests
// race to reset the same window, only the first one's write lands and the
// second is a harmless no-op.
func (s *QuotaStore) Reset(ctx context.Context, userID uuid.UUID, lastReset, now time.Time) error {
	query := `
		UPDATE quota_windows
		SET current_usage = 0, period_start = $3, last_reset = $3, updated_at = $3
		WHERE user_id = $1 AND last_reset = $2`

	if _, err := s.db.ExecContext(ctx, query, userID, lastReset, now); err != nil {
		return MapError(err)
	}

	return nil
}

// IncrementUsage implements store.QuotaStore.IncrementUsage. The increment
// happens inside the database so concurrent requests from the same user
// never lose updates.
func (s *QuotaStore) IncrementUsage(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE quota_windows
		SET current_usage = current_usage + 1, updated_at = NOW()
		WHERE user_id = $1`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrQuotaWindowNotFound
	}

	return nil
}
