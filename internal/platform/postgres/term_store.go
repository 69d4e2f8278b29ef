package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/store"
)

// TermStore implements the store.TermStore interface using a PostgreSQL
// database as the storage backend.
type TermStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTermStore creates a new PostgreSQL implementation of the TermStore
// interface. If logger is nil, a default logger will be used.
func NewTermStore(db store.DBTX, logger *slog.Logger) *TermStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TermStore{
		db:     db,
		logger: logger.With(slog.String("component", "term_store")),
	}
}

// Ensure TermStore implements store.TermStore interface
var _ store.TermStore = (*TermStore)(nil)

// Create implements store.TermStore.Create. The unique index on
// (subject_id, lower(text)) backs the case-insensitive duplicate check.
func (s *TermStore) Create(ctx context.Context, term *domain.Term) error {
	if err := term.Validate(); err != nil {
		return err
	}

	examples, err := json.Marshal(term.Examples)
	if err != nil {
		return fmt.Errorf("failed to serialize term examples: %w", err)
	}

	query := `
		INSERT INTO terms (id, subject_id, text, definition, examples, provenance, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query,
		term.ID,
		term.SubjectID,
		term.Text,
		term.Definition,
		examples,
		term.Provenance,
		term.Confidence,
		term.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrTermExists
		}
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TermStore.GetByID
func (s *TermStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	query := `
		SELECT id, subject_id, text, definition, examples, provenance, confidence, created_at
		FROM terms
		WHERE id = $1`

	var term domain.Term
	var examples []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&term.ID,
		&term.SubjectID,
		&term.Text,
		&term.Definition,
		&examples,
		&term.Provenance,
		&term.Confidence,
		&term.CreatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTermNotFound
		}
		return nil, MapError(err)
	}

	if len(examples) > 0 {
		if err := json.Unmarshal(examples, &term.Examples); err != nil {
			return nil, fmt.Errorf("failed to deserialize term examples: %w", err)
		}
	}

	return &term, nil
}

// ExistsBySubjectAndText implements store.TermStore.ExistsBySubjectAndText
func (s *TermStore) ExistsBySubjectAndText(ctx context.Context, subjectID uuid.UUID, text string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM terms
			WHERE subject_id = $1 AND LOWER(text) = LOWER($2)
		)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, subjectID, strings.TrimSpace(text)).Scan(&exists); err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// SubjectStore implements the store.SubjectStore interface using a
// PostgreSQL database as the storage backend.
type SubjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewSubjectStore creates a new PostgreSQL implementation of the
// SubjectStore interface. If logger is nil, a default logger will be used.
func NewSubjectStore(db store.DBTX, logger *slog.Logger) *SubjectStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SubjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "subject_store")),
	}
}

// Ensure SubjectStore implements store.SubjectStore interface
var _ store.SubjectStore = (*SubjectStore)(nil)

// GetByID implements store.SubjectStore.GetByID
func (s *SubjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Subject, error) {
	query := `SELECT id, name, created_at FROM subjects WHERE id = $1`

	var subject domain.Subject
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&subject.ID,
		&subject.Name,
		&subject.CreatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrSubjectNotFound
		}
		return nil, MapError(err)
	}

	return &subject, nil
}

// ListForUser implements store.SubjectStore.ListForUser
func (s *SubjectStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.UserSubject, error) {
	query := `
		SELECT user_id, subject_id, weight
		FROM user_subjects
		WHERE user_id = $1
		ORDER BY subject_id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var subjects []*domain.UserSubject
	for rows.Next() {
		var us domain.UserSubject
		if err := rows.Scan(&us.UserID, &us.SubjectID, &us.Weight); err != nil {
			return nil, MapError(err)
		}
		subjects = append(subjects, &us)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return subjects, nil
}
