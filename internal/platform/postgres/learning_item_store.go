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

// LearningItemStore implements the store.LearningItemStore interface using
// a PostgreSQL database as the storage backend.
type LearningItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewLearningItemStore creates a new PostgreSQL implementation of the
// LearningItemStore interface. If logger is nil, a default logger will be
// used.
func NewLearningItemStore(db store.DBTX, logger *slog.Logger) *LearningItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LearningItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "learning_item_store")),
	}
}

// Ensure LearningItemStore implements store.LearningItemStore interface
var _ store.LearningItemStore = (*LearningItemStore)(nil)

const learningItemColumns = `
	user_id, term_id, status, bucket, review_count, ease_factor, streak,
	favorited, last_reviewed_at, next_review_at, created_at, updated_at`

// Get implements store.LearningItemStore.Get
func (s *LearningItemStore) Get(ctx context.Context, userID, termID uuid.UUID) (*domain.LearningItem, error) {
	query := `SELECT` + learningItemColumns + `
		FROM learning_items
		WHERE user_id = $1 AND term_id = $2`

	return s.scanItem(s.db.QueryRowContext(ctx, query, userID, termID))
}

// Create implements store.LearningItemStore.Create
func (s *LearningItemStore) Create(ctx context.Context, item *domain.LearningItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO learning_items (` + learningItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.db.ExecContext(ctx, query,
		item.UserID,
		item.TermID,
		item.Status,
		item.Bucket,
		item.ReviewCount,
		item.EaseFactor,
		item.Streak,
		item.Favorited,
		nullableTime(item.LastReviewedAt),
		item.NextReviewAt,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrLearningItemExists
		}
		return MapError(err)
	}

	return nil
}

// Update implements store.LearningItemStore.Update. The review_count guard
// ensures the write applies exactly one engine transition on top of the
// state that transition read; a concurrent report that advanced the item
// first makes this update miss, surfacing as ErrUpdateFailed.
func (s *LearningItemStore) Update(ctx context.Context, item *domain.LearningItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE learning_items
		SET status = $3, bucket = $4, review_count = $5, ease_factor = $6,
		    streak = $7, favorited = $8, last_reviewed_at = $9,
		    next_review_at = $10, updated_at = $11
		WHERE user_id = $1 AND term_id = $2 AND review_count = $5 - 1`

	result, err := s.db.ExecContext(ctx, query,
		item.UserID,
		item.TermID,
		item.Status,
		item.Bucket,
		item.ReviewCount,
		item.EaseFactor,
		item.Streak,
		item.Favorited,
		nullableTime(item.LastReviewedAt),
		item.NextReviewAt,
		item.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		exists, existsErr := s.exists(ctx, item.UserID, item.TermID)
		if existsErr != nil {
			return existsErr
		}
		if !exists {
			return store.ErrLearningItemNotFound
		}
		return store.ErrUpdateFailed
	}

	return nil
}

// FindNextDue implements store.LearningItemStore.FindNextDue
func (s *LearningItemStore) FindNextDue(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.LearningItem, error) {
	query := `SELECT` + learningItemColumns + `
		FROM learning_items
		WHERE user_id = $1 AND status <> $2 AND next_review_at <= $3
		ORDER BY next_review_at ASC, term_id ASC
		LIMIT 1`

	return s.scanItem(s.db.QueryRowContext(ctx, query, userID, domain.ItemStatusArchived, now))
}

// WithTx implements store.LearningItemStore.WithTx
func (s *LearningItemStore) WithTx(tx *sql.Tx) store.LearningItemStore {
	return &LearningItemStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *LearningItemStore) exists(ctx context.Context, userID, termID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM learning_items WHERE user_id = $1 AND term_id = $2)`,
		userID, termID,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

func (s *LearningItemStore) scanItem(row rowScanner) (*domain.LearningItem, error) {
	var item domain.LearningItem
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&item.UserID,
		&item.TermID,
		&item.Status,
		&item.Bucket,
		&item.ReviewCount,
		&item.EaseFactor,
		&item.Streak,
		&item.Favorited,
		&lastReviewedAt,
		&item.NextReviewAt,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrLearningItemNotFound
		}
		return nil, MapError(err)
	}

	if lastReviewedAt.Valid {
		item.LastReviewedAt = lastReviewedAt.Time
	}

	return &item, nil
}

// nullableTime converts a zero time to NULL for storage.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
