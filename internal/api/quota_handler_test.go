package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordflow/wordflow-api/internal/api/shared"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/service/quota"
	"github.com/wordflow/wordflow-api/internal/store"
)

// mockQuotaChecker is a mock implementation of the QuotaChecker interface.
type mockQuotaChecker struct {
	checkFn func(ctx context.Context, userID uuid.UUID) (*quota.Status, error)
}

func (m *mockQuotaChecker) Check(
	ctx context.Context,
	userID uuid.UUID,
) (*quota.Status, error) {
	return m.checkFn(ctx, userID)
}

func TestQuotaStatus(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	nextReset := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userIDInCtx    uuid.UUID
		serviceResult  *quota.Status
		serviceError   error
		expectedStatus int
		wantNextReset  bool
	}{
		{
			name:        "within limit",
			userIDInCtx: userID,
			serviceResult: &quota.Status{
				Allowed:     true,
				Tier:        domain.TierFree,
				Usage:       2,
				Limit:       5,
				ResetPeriod: domain.ResetPeriodDaily,
				NextReset:   nextReset,
			},
			expectedStatus: http.StatusOK,
			wantNextReset:  true,
		},
		{
			name:        "at limit",
			userIDInCtx: userID,
			serviceResult: &quota.Status{
				Allowed:     false,
				Tier:        domain.TierFree,
				Usage:       5,
				Limit:       5,
				ResetPeriod: domain.ResetPeriodDaily,
				NextReset:   nextReset,
			},
			expectedStatus: http.StatusOK,
			wantNextReset:  true,
		},
		{
			name:        "unlimited tier omits next reset",
			userIDInCtx: userID,
			serviceResult: &quota.Status{
				Allowed:     true,
				Tier:        domain.TierUnlimited,
				Usage:       120,
				Limit:       1 << 30,
				ResetPeriod: domain.ResetPeriodNever,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			userIDInCtx:    userID,
			serviceError:   store.ErrUserNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing user ID",
			userIDInCtx:    uuid.Nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGuard := &mockQuotaChecker{
				checkFn: func(ctx context.Context, userID uuid.UUID) (*quota.Status, error) {
					return tc.serviceResult, tc.serviceError
				},
			}
			handler := NewQuotaHandler(mockGuard)

			req := httptest.NewRequest(http.MethodGet, "/quota", nil)
			if tc.userIDInCtx != uuid.Nil {
				ctx := context.WithValue(req.Context(), shared.UserIDContextKey, tc.userIDInCtx)
				req = req.WithContext(ctx)
			}

			rr := httptest.NewRecorder()
			handler.Status(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusOK {
				var resp QuotaResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
				assert.Equal(t, tc.serviceResult.Tier, resp.Tier)
				assert.Equal(t, tc.serviceResult.Usage, resp.Usage)
				assert.Equal(t, tc.serviceResult.Allowed, resp.Allowed)
				if tc.wantNextReset {
					require.NotNil(t, resp.NextReset)
					assert.Equal(t, nextReset, *resp.NextReset)
				} else {
					assert.Nil(t, resp.NextReset)
				}
			}
		})
	}
}
