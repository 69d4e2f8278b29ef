package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
)

// TermStore defines the interface for the term catalog.
type TermStore interface {
	// Create persists a new catalog term. Returns ErrTermExists if a term
	// with the same text (case-insensitive) already exists for the subject.
	Create(ctx context.Context, term *domain.Term) error

	// GetByID retrieves a term by its unique ID.
	// Returns ErrTermNotFound if the term does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)

	// ExistsBySubjectAndText reports whether a term with the given text
	// already exists for the subject. The comparison is case-insensitive
	// and exact (no fuzzy matching).
	ExistsBySubjectAndText(ctx context.Context, subjectID uuid.UUID, text string) (bool, error)
}

// SubjectStore defines the interface for subject lookups.
type SubjectStore interface {
	// GetByID retrieves a subject by its unique ID.
	// Returns ErrSubjectNotFound if the subject does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error)

	// ListForUser returns the subjects the user studies, with their
	// selection weights. The result is empty (not an error) for users with
	// no configured subjects.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.UserSubject, error)
}
