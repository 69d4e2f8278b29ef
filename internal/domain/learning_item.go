package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ItemStatus represents where a learning item sits in its lifecycle.
type ItemStatus string

// Possible learning item statuses.
const (
	ItemStatusLearning  ItemStatus = "learning"
	ItemStatusReviewing ItemStatus = "reviewing"
	ItemStatusMastered  ItemStatus = "mastered"
	ItemStatusArchived  ItemStatus = "archived"
)

// ReportedAction represents the action a user reported against a delivery.
// It drives the scheduling transition for the underlying learning item.
type ReportedAction string

// Possible reported actions. ActionReviewed is the default "saw it, move on"
// action; anything the boundary does not recognize is rejected before it
// reaches the scheduling engine.
const (
	ActionOpened     ReportedAction = "opened"
	ActionFavorited  ReportedAction = "favorited"
	ActionLearnAgain ReportedAction = "learn_again"
	ActionMastered   ReportedAction = "mastered"
	ActionReviewed   ReportedAction = "reviewed"
)

// Common validation errors for LearningItem.
var (
	ErrEmptyItemUserID   = errors.New("learning item user ID cannot be empty")
	ErrEmptyItemTermID   = errors.New("learning item term ID cannot be empty")
	ErrNegativeBucket    = errors.New("bucket must be greater than or equal to 0")
	ErrInvalidItemStatus = errors.New("invalid learning item status")
	ErrInvalidEaseFactor = errors.New("ease factor must be greater than 1.0")
	ErrZeroNextReviewAt  = errors.New("next review time must be set")
)

// LearningItem is the per-user, per-term spaced repetition state (the
// wordbank entry). It is created the first time a term is delivered to a
// user and from then on is mutated only by the scheduling engine; items are
// never deleted, only transitioned to ItemStatusArchived.
type LearningItem struct {
	UserID         uuid.UUID  `json:"user_id"`
	TermID         uuid.UUID  `json:"term_id"`
	Status         ItemStatus `json:"status"`
	Bucket         int        `json:"bucket"`      // Index into the status's interval table
	ReviewCount    int        `json:"review_count"`
	EaseFactor     float64    `json:"ease_factor"`
	Streak         int        `json:"streak"`
	Favorited      bool       `json:"favorited"`
	LastReviewedAt time.Time  `json:"last_reviewed_at"` // Zero if never reviewed
	NextReviewAt   time.Time  `json:"next_review_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewLearningItem creates the initial learning state for a user and term.
// New items start in the learning status at bucket 0 and are due
// immediately, so a freshly generated term can be delivered right away.
func NewLearningItem(userID, termID uuid.UUID) (*LearningItem, error) {
	now := time.Now().UTC()
	item := &LearningItem{
		UserID:       userID,
		TermID:       termID,
		Status:       ItemStatusLearning,
		Bucket:       0,
		ReviewCount:  0,
		EaseFactor:   2.5, // Default ease factor
		Streak:       0,
		Favorited:    false,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the LearningItem has valid data.
// Returns an error if any field fails validation.
func (i *LearningItem) Validate() error {
	if i.UserID == uuid.Nil {
		return ErrEmptyItemUserID
	}

	if i.TermID == uuid.Nil {
		return ErrEmptyItemTermID
	}

	if i.Bucket < 0 {
		return ErrNegativeBucket
	}

	if !i.Status.IsValid() {
		return ErrInvalidItemStatus
	}

	if i.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	if i.NextReviewAt.IsZero() {
		return ErrZeroNextReviewAt
	}

	return nil
}

// IsValid reports whether the status is one of the known item statuses.
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusLearning, ItemStatusReviewing, ItemStatusMastered, ItemStatusArchived:
		return true
	default:
		return false
	}
}

// IsKnownAction reports whether the action is part of the recognized action
// set. The boundary uses this to reject unknown actions before they reach
// the scheduling engine.
func IsKnownAction(a ReportedAction) bool {
	switch a {
	case ActionOpened, ActionFavorited, ActionLearnAgain, ActionMastered, ActionReviewed:
		return true
	default:
		return false
	}
}
