package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Term and GeneratedTerm.
var (
	ErrEmptyTermID        = errors.New("term ID cannot be empty")
	ErrEmptyTermSubjectID = errors.New("term subject ID cannot be empty")
	ErrEmptyTermText      = errors.New("term text cannot be empty")
	ErrEmptyDefinition    = errors.New("term definition cannot be empty")
	ErrInvalidConfidence  = errors.New("confidence must be between 0 and 1")
)

// Term is a permanent catalog entry: a vocabulary item belonging to a
// subject, available for delivery to any user studying that subject.
type Term struct {
	ID         uuid.UUID `json:"id"`
	SubjectID  uuid.UUID `json:"subject_id"`
	Text       string    `json:"text"`
	Definition string    `json:"definition"`
	Examples   []string  `json:"examples,omitempty"`
	Provenance string    `json:"provenance"` // Which pipeline/source produced it
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// GeneratedTerm is a transient candidate produced by a generation pipeline.
// It becomes a permanent Term only after passing deduplication and the
// confidence filter.
type GeneratedTerm struct {
	SubjectID  uuid.UUID `json:"subject_id"`
	Text       string    `json:"text"`
	Definition string    `json:"definition"`
	Examples   []string  `json:"examples,omitempty"`
	Provenance string    `json:"provenance"`
	Confidence float64   `json:"confidence"`
}

// NewTerm promotes a generated candidate into a permanent catalog entry.
// It generates a new UUID for the term ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewTerm(candidate GeneratedTerm) (*Term, error) {
	term := &Term{
		ID:         uuid.New(),
		SubjectID:  candidate.SubjectID,
		Text:       candidate.Text,
		Definition: candidate.Definition,
		Examples:   candidate.Examples,
		Provenance: candidate.Provenance,
		Confidence: candidate.Confidence,
		CreatedAt:  time.Now().UTC(),
	}

	if err := term.Validate(); err != nil {
		return nil, err
	}

	return term, nil
}

// Validate checks if the Term has valid data.
// Returns an error if any field fails validation.
func (t *Term) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTermID
	}

	if t.SubjectID == uuid.Nil {
		return ErrEmptyTermSubjectID
	}

	if t.Text == "" {
		return ErrEmptyTermText
	}

	if t.Definition == "" {
		return ErrEmptyDefinition
	}

	if t.Confidence < 0 || t.Confidence > 1 {
		return ErrInvalidConfidence
	}

	return nil
}

// Validate checks if the GeneratedTerm candidate has valid data.
func (g *GeneratedTerm) Validate() error {
	if g.SubjectID == uuid.Nil {
		return ErrEmptyTermSubjectID
	}

	if g.Text == "" {
		return ErrEmptyTermText
	}

	if g.Definition == "" {
		return ErrEmptyDefinition
	}

	if g.Confidence < 0 || g.Confidence > 1 {
		return ErrInvalidConfidence
	}

	return nil
}
