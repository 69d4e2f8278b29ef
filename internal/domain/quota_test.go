package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewQuotaWindow(t *testing.T) {
	t.Parallel()

	window, err := NewQuotaWindow(uuid.New(), TierFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if window.CurrentUsage != 0 {
		t.Errorf("expected zero usage, got %d", window.CurrentUsage)
	}
	if window.PeriodStart.IsZero() || window.LastReset.IsZero() {
		t.Error("expected period start and last reset to be stamped")
	}
}

func TestQuotaWindowValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*QuotaWindow)
		wantErr error
	}{
		{
			name:    "missing user ID",
			mutate:  func(w *QuotaWindow) { w.UserID = uuid.Nil },
			wantErr: ErrEmptyQuotaUserID,
		},
		{
			name:    "negative usage",
			mutate:  func(w *QuotaWindow) { w.CurrentUsage = -1 },
			wantErr: ErrNegativeUsage,
		},
		{
			name:    "unknown tier",
			mutate:  func(w *QuotaWindow) { w.Tier = "platinum" },
			wantErr: ErrUnknownTier,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			window, err := NewQuotaWindow(uuid.New(), TierPlus)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.mutate(window)
			if err := window.Validate(); err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestQuotaWindowUsageMayExceedLimit(t *testing.T) {
	t.Parallel()

	// Exceeding the tier limit is a valid stored state; enforcement happens
	// in the quota service, not in the entity.
	window, err := NewQuotaWindow(uuid.New(), TierFree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	window.CurrentUsage = DefaultTierConfig()[TierFree].MaxRequestsPerPeriod + 3

	if err := window.Validate(); err != nil {
		t.Errorf("expected over-limit usage to validate, got %v", err)
	}
}

func TestDefaultTierConfigCoversAllTiers(t *testing.T) {
	t.Parallel()

	cfg := DefaultTierConfig()
	for _, tier := range []Tier{TierFree, TierPlus, TierPro, TierUnlimited} {
		limits, ok := cfg[tier]
		if !ok {
			t.Errorf("missing limits for tier %s", tier)
			continue
		}
		if limits.MaxRequestsPerPeriod <= 0 {
			t.Errorf("tier %s has non-positive limit", tier)
		}
	}

	if cfg[TierUnlimited].ResetPeriod != ResetPeriodNever {
		t.Error("expected unlimited tier to never reset")
	}
}
