package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
)

// TermCatalog is the slice of the term store the generation package needs.
type TermCatalog interface {
	// ExistsBySubjectAndText reports whether a term with the given text
	// already exists for the subject, compared case-insensitively.
	ExistsBySubjectAndText(ctx context.Context, subjectID uuid.UUID, text string) (bool, error)

	// Create persists a new catalog term.
	Create(ctx context.Context, term *domain.Term) error
}

// DedupGuard checks generation candidates against the existing term catalog
// before they are persisted. Matching is a case-insensitive exact
// comparison scoped to the candidate's subject; the same text under a
// different subject is not a duplicate.
type DedupGuard struct {
	catalog TermCatalog
}

// NewDedupGuard creates a new DedupGuard over the given catalog.
func NewDedupGuard(catalog TermCatalog) *DedupGuard {
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	return &DedupGuard{catalog: catalog}
}

// IsDuplicate reports whether the candidate's text already exists in the
// catalog under the candidate's subject.
func (g *DedupGuard) IsDuplicate(ctx context.Context, candidate domain.GeneratedTerm) (bool, error) {
	exists, err := g.catalog.ExistsBySubjectAndText(
		ctx,
		candidate.SubjectID,
		normalizeTermText(candidate.Text),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing term: %w", err)
	}
	return exists, nil
}

// normalizeTermText prepares term text for comparison. Storage performs the
// case-insensitive match itself; trimming here keeps stray whitespace from
// defeating it.
func normalizeTermText(text string) string {
	return strings.TrimSpace(text)
}
