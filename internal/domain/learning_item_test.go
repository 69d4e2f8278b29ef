package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewLearningItemDefaults(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	termID := uuid.New()

	item, err := NewLearningItem(userID, termID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.Status != ItemStatusLearning {
		t.Errorf("expected status learning, got %s", item.Status)
	}
	if item.Bucket != 0 {
		t.Errorf("expected bucket 0, got %d", item.Bucket)
	}
	if item.EaseFactor != 2.5 {
		t.Errorf("expected ease factor 2.5, got %f", item.EaseFactor)
	}
	if !item.LastReviewedAt.IsZero() {
		t.Error("expected zero last reviewed time for a new item")
	}
	if item.NextReviewAt.IsZero() {
		t.Error("expected a new item to be immediately due")
	}
}

func TestLearningItemValidate(t *testing.T) {
	t.Parallel()

	valid, err := NewLearningItem(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testCases := []struct {
		name    string
		mutate  func(*LearningItem)
		wantErr error
	}{
		{
			name:    "missing user ID",
			mutate:  func(i *LearningItem) { i.UserID = uuid.Nil },
			wantErr: ErrEmptyItemUserID,
		},
		{
			name:    "missing term ID",
			mutate:  func(i *LearningItem) { i.TermID = uuid.Nil },
			wantErr: ErrEmptyItemTermID,
		},
		{
			name:    "negative bucket",
			mutate:  func(i *LearningItem) { i.Bucket = -1 },
			wantErr: ErrNegativeBucket,
		},
		{
			name:    "unknown status",
			mutate:  func(i *LearningItem) { i.Status = "dreaming" },
			wantErr: ErrInvalidItemStatus,
		},
		{
			name:    "ease factor too low",
			mutate:  func(i *LearningItem) { i.EaseFactor = 1.0 },
			wantErr: ErrInvalidEaseFactor,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			item := *valid
			tc.mutate(&item)
			if err := item.Validate(); err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestIsKnownAction(t *testing.T) {
	t.Parallel()

	known := []ReportedAction{
		ActionOpened, ActionFavorited, ActionLearnAgain, ActionMastered, ActionReviewed,
	}
	for _, a := range known {
		if !IsKnownAction(a) {
			t.Errorf("expected %s to be a known action", a)
		}
	}

	if IsKnownAction(ReportedAction("skipped")) {
		t.Error("expected unrecognized action to be unknown")
	}
	if IsKnownAction(ReportedAction("")) {
		t.Error("expected empty action to be unknown")
	}
}
