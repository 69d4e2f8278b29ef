package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/api/middleware"
	"github.com/wordflow/wordflow-api/internal/api/shared"
	"github.com/wordflow/wordflow-api/internal/service/quota"
)

// QuotaChecker is the slice of the quota guard the handler needs.
type QuotaChecker interface {
	Check(ctx context.Context, userID uuid.UUID) (*quota.Status, error)
}

// QuotaHandler handles the quota status endpoint.
type QuotaHandler struct {
	guard QuotaChecker
}

// NewQuotaHandler creates a new QuotaHandler.
func NewQuotaHandler(guard QuotaChecker) *QuotaHandler {
	if guard == nil {
		panic("quota guard cannot be nil")
	}
	return &QuotaHandler{guard: guard}
}

// Status handles GET /quota. Reading quota status never consumes quota.
func (h *QuotaHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	status, err := h.guard.Check(r.Context(), userID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	resp := QuotaResponse{
		Tier:        status.Tier,
		Usage:       status.Usage,
		Limit:       status.Limit,
		Allowed:     status.Allowed,
		ResetPeriod: status.ResetPeriod,
	}
	if !status.NextReset.IsZero() {
		nextReset := status.NextReset
		resp.NextReset = &nextReset
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
