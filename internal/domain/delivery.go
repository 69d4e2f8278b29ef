package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// DeliveryKind distinguishes a delivery of an already-known item from one
// created for freshly generated content.
type DeliveryKind string

// Possible delivery kinds.
const (
	DeliveryKindReview DeliveryKind = "review"
	DeliveryKindNew    DeliveryKind = "new"
)

// DeliveryAction is the action recorded against a delivery. It mirrors
// ReportedAction plus the initial "none" state.
type DeliveryAction string

// Possible delivery actions.
const (
	DeliveryActionNone       DeliveryAction = "none"
	DeliveryActionOpened     DeliveryAction = "opened"
	DeliveryActionFavorited  DeliveryAction = "favorited"
	DeliveryActionLearnAgain DeliveryAction = "learn_again"
	DeliveryActionMastered   DeliveryAction = "mastered"
	DeliveryActionReviewed   DeliveryAction = "reviewed"
)

// Common validation errors for Delivery.
var (
	ErrEmptyDeliveryID      = errors.New("delivery ID cannot be empty")
	ErrEmptyDeliveryUserID  = errors.New("delivery user ID cannot be empty")
	ErrEmptyDeliveryTermID  = errors.New("delivery term ID cannot be empty")
	ErrInvalidDeliveryKind  = errors.New("invalid delivery kind")
	ErrInvalidDeliveryAction = errors.New("invalid delivery action")
)

// Delivery is a single presentation event of one term to one user. A
// delivery is created exactly once per presentation and its action is set
// at most once per reported action; a learning item accumulates many
// deliveries over time as its history.
type Delivery struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	TermID      uuid.UUID      `json:"term_id"`
	Kind        DeliveryKind   `json:"kind"`
	DeliveredAt time.Time      `json:"delivered_at"`
	OpenedAt    time.Time      `json:"opened_at"` // Zero until first opened
	Action      DeliveryAction `json:"action"`
}

// NewDelivery creates a new Delivery for the given user and term.
// It generates a new UUID for the delivery ID and stamps the delivery time.
// Returns an error if validation fails.
func NewDelivery(userID, termID uuid.UUID, kind DeliveryKind) (*Delivery, error) {
	delivery := &Delivery{
		ID:          uuid.New(),
		UserID:      userID,
		TermID:      termID,
		Kind:        kind,
		DeliveredAt: time.Now().UTC(),
		Action:      DeliveryActionNone,
	}

	if err := delivery.Validate(); err != nil {
		return nil, err
	}

	return delivery, nil
}

// Validate checks if the Delivery has valid data.
// Returns an error if any field fails validation.
func (d *Delivery) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDeliveryID
	}

	if d.UserID == uuid.Nil {
		return ErrEmptyDeliveryUserID
	}

	if d.TermID == uuid.Nil {
		return ErrEmptyDeliveryTermID
	}

	if d.Kind != DeliveryKindReview && d.Kind != DeliveryKindNew {
		return ErrInvalidDeliveryKind
	}

	if !d.Action.IsValid() {
		return ErrInvalidDeliveryAction
	}

	return nil
}

// IsValid reports whether the action is one of the known delivery actions.
func (a DeliveryAction) IsValid() bool {
	switch a {
	case DeliveryActionNone,
		DeliveryActionOpened,
		DeliveryActionFavorited,
		DeliveryActionLearnAgain,
		DeliveryActionMastered,
		DeliveryActionReviewed:
		return true
	default:
		return false
	}
}
