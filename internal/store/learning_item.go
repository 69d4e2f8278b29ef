package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
)

// LearningItemStore defines the interface for learning item persistence.
type LearningItemStore interface {
	// Get retrieves the learning item for the (user, term) pair.
	// Returns ErrLearningItemNotFound if no item exists.
	Get(ctx context.Context, userID, termID uuid.UUID) (*domain.LearningItem, error)

	// Create persists a new learning item. The (user, term) pair is unique;
	// a concurrent insert for the same pair surfaces as
	// ErrLearningItemExists, which callers recover from by re-reading the
	// winning record rather than treating it as a failure.
	Create(ctx context.Context, item *domain.LearningItem) error

	// Update replaces the scheduling state of an existing item with the
	// engine's output. The review counter advances by exactly one relative
	// to the state the engine read, so a concurrent transition cannot
	// silently double-apply. Returns ErrLearningItemNotFound if the item
	// does not exist.
	Update(ctx context.Context, item *domain.LearningItem) error

	// FindNextDue returns the earliest-due non-archived item for the user:
	// nextReviewAt <= now, ordered by nextReviewAt ascending with termID
	// ascending as the deterministic tie-break.
	// Returns ErrLearningItemNotFound if nothing is due.
	FindNextDue(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.LearningItem, error)

	// WithTx returns a LearningItemStore bound to the given transaction.
	WithTx(tx *sql.Tx) LearningItemStore
}
