package domain

import (
	"testing"

	"github.com/google/uuid"
)

func validCandidate() GeneratedTerm {
	return GeneratedTerm{
		SubjectID:  uuid.New(),
		Text:       "photosynthesis",
		Definition: "the process by which green plants convert light into chemical energy",
		Examples:   []string{"Photosynthesis occurs mainly in the leaves."},
		Provenance: "model:gemini",
		Confidence: 0.92,
	}
}

func TestNewTermFromCandidate(t *testing.T) {
	t.Parallel()

	candidate := validCandidate()
	term, err := NewTerm(candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if term.ID == uuid.Nil {
		t.Error("expected a generated term ID")
	}
	if term.SubjectID != candidate.SubjectID {
		t.Error("expected subject ID to carry over")
	}
	if term.Text != candidate.Text || term.Definition != candidate.Definition {
		t.Error("expected text and definition to carry over")
	}
	if term.CreatedAt.IsZero() {
		t.Error("expected created timestamp to be stamped")
	}
}

func TestGeneratedTermValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*GeneratedTerm)
		wantErr error
	}{
		{
			name:    "missing subject",
			mutate:  func(g *GeneratedTerm) { g.SubjectID = uuid.Nil },
			wantErr: ErrEmptyTermSubjectID,
		},
		{
			name:    "empty text",
			mutate:  func(g *GeneratedTerm) { g.Text = "" },
			wantErr: ErrEmptyTermText,
		},
		{
			name:    "empty definition",
			mutate:  func(g *GeneratedTerm) { g.Definition = "" },
			wantErr: ErrEmptyDefinition,
		},
		{
			name:    "confidence above 1",
			mutate:  func(g *GeneratedTerm) { g.Confidence = 1.2 },
			wantErr: ErrInvalidConfidence,
		},
		{
			name:    "negative confidence",
			mutate:  func(g *GeneratedTerm) { g.Confidence = -0.1 },
			wantErr: ErrInvalidConfidence,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			candidate := validCandidate()
			tc.mutate(&candidate)
			if err := candidate.Validate(); err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
