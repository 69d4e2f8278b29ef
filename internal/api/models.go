package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/service/delivery"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ActionRequest defines the payload for reporting an action against a
// delivery.
type ActionRequest struct {
	Action string `json:"action" validate:"required"`
}

// TermResponse is the term content rendered inside a delivery.
type TermResponse struct {
	ID         uuid.UUID `json:"id"`
	SubjectID  uuid.UUID `json:"subject_id"`
	Text       string    `json:"text"`
	Definition string    `json:"definition"`
	Examples   []string  `json:"examples,omitempty"`
}

// DeliveryResponse defines the response for the next-delivery endpoint.
type DeliveryResponse struct {
	DeliveryID  uuid.UUID           `json:"delivery_id"`
	Kind        domain.DeliveryKind `json:"kind"`
	DeliveredAt time.Time           `json:"delivered_at"`
	Term        TermResponse        `json:"term"`
}

// ItemResponse defines the schedule state returned after an action report.
type ItemResponse struct {
	TermID       uuid.UUID         `json:"term_id"`
	Status       domain.ItemStatus `json:"status"`
	Bucket       int               `json:"bucket"`
	ReviewCount  int               `json:"review_count"`
	Streak       int               `json:"streak"`
	Favorited    bool              `json:"favorited"`
	NextReviewAt time.Time         `json:"next_review_at"`
}

// QuotaResponse defines the response for the quota status endpoint.
type QuotaResponse struct {
	Tier        domain.Tier        `json:"tier"`
	Usage       int                `json:"usage"`
	Limit       int                `json:"limit"`
	Allowed     bool               `json:"allowed"`
	ResetPeriod domain.ResetPeriod `json:"reset_period"`
	NextReset   *time.Time         `json:"next_reset,omitempty"`
}

func newDeliveryResponse(next *delivery.NextDelivery) DeliveryResponse {
	return DeliveryResponse{
		DeliveryID:  next.Delivery.ID,
		Kind:        next.Delivery.Kind,
		DeliveredAt: next.Delivery.DeliveredAt,
		Term: TermResponse{
			ID:         next.Term.ID,
			SubjectID:  next.Term.SubjectID,
			Text:       next.Term.Text,
			Definition: next.Term.Definition,
			Examples:   next.Term.Examples,
		},
	}
}

func newItemResponse(item *domain.LearningItem) ItemResponse {
	return ItemResponse{
		TermID:       item.TermID,
		Status:       item.Status,
		Bucket:       item.Bucket,
		ReviewCount:  item.ReviewCount,
		Streak:       item.Streak,
		Favorited:    item.Favorited,
		NextReviewAt: item.NextReviewAt,
	}
}
