package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/api/middleware"
	"github.com/wordflow/wordflow-api/internal/api/shared"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/service/delivery"
)

// DeliveryService is the slice of the delivery selector the handler needs.
type DeliveryService interface {
	Next(ctx context.Context, userID uuid.UUID) (*delivery.NextDelivery, error)
	ReportAction(
		ctx context.Context,
		userID, deliveryID uuid.UUID,
		action domain.ReportedAction,
	) (*domain.LearningItem, error)
}

// DeliveryHandler handles the delivery endpoints: fetching the next
// delivery and reporting actions against one.
type DeliveryHandler struct {
	selector DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(selector DeliveryService) *DeliveryHandler {
	if selector == nil {
		panic("selector cannot be nil")
	}
	return &DeliveryHandler{selector: selector}
}

// Next handles GET /deliveries/next.
func (h *DeliveryHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	next, err := h.selector.Next(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newDeliveryResponse(next))
}

// ReportAction handles POST /deliveries/{id}/action.
func (h *DeliveryHandler) ReportAction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deliveryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid delivery ID")
		return
	}

	var req ActionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	item, err := h.selector.ReportAction(
		r.Context(), userID, deliveryID, domain.ReportedAction(req.Action))
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newItemResponse(item))
}
