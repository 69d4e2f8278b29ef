package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Tier identifies a user's subscription tier. Tiers are assigned externally;
// the quota service only reads them.
type Tier string

// Known subscription tiers.
const (
	TierFree      Tier = "free"
	TierPlus      Tier = "plus"
	TierPro       Tier = "pro"
	TierUnlimited Tier = "unlimited"
)

// ResetPeriod is the cadence at which a quota window's usage counter resets.
type ResetPeriod string

// Possible reset periods.
const (
	ResetPeriodDaily   ResetPeriod = "daily"
	ResetPeriodWeekly  ResetPeriod = "weekly"
	ResetPeriodMonthly ResetPeriod = "monthly"
	ResetPeriodNever   ResetPeriod = "never"
)

// TierLimits describes the quota configuration for a single tier.
type TierLimits struct {
	MaxRequestsPerPeriod int         `json:"max_requests_per_period"`
	ResetPeriod          ResetPeriod `json:"reset_period"`
}

// TierConfig maps each tier to its limits. It is static configuration and
// is never mutated at runtime.
type TierConfig map[Tier]TierLimits

// DefaultTierConfig returns the built-in tier configuration.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		TierFree:      {MaxRequestsPerPeriod: 5, ResetPeriod: ResetPeriodDaily},
		TierPlus:      {MaxRequestsPerPeriod: 50, ResetPeriod: ResetPeriodDaily},
		TierPro:       {MaxRequestsPerPeriod: 500, ResetPeriod: ResetPeriodWeekly},
		TierUnlimited: {MaxRequestsPerPeriod: 1 << 30, ResetPeriod: ResetPeriodNever},
	}
}

// Common validation errors for QuotaWindow.
var (
	ErrEmptyQuotaUserID = errors.New("quota window user ID cannot be empty")
	ErrNegativeUsage    = errors.New("quota usage must be greater than or equal to 0")
	ErrUnknownTier      = errors.New("unknown tier")
)

// QuotaWindow tracks how many quota-gated actions a user has taken within
// the current period. Usage is allowed to exceed the tier limit in storage;
// the quota service detects the overage and blocks further actions rather
// than clamping the counter.
type QuotaWindow struct {
	UserID       uuid.UUID `json:"user_id"`
	Tier         Tier      `json:"tier"`
	CurrentUsage int       `json:"current_usage"`
	PeriodStart  time.Time `json:"period_start"`
	LastReset    time.Time `json:"last_reset"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewQuotaWindow creates a fresh quota window for a user. Windows are
// created lazily on the first quota check.
func NewQuotaWindow(userID uuid.UUID, tier Tier) (*QuotaWindow, error) {
	now := time.Now().UTC()
	window := &QuotaWindow{
		UserID:       userID,
		Tier:         tier,
		CurrentUsage: 0,
		PeriodStart:  now,
		LastReset:    now,
		UpdatedAt:    now,
	}

	if err := window.Validate(); err != nil {
		return nil, err
	}

	return window, nil
}

// Validate checks if the QuotaWindow has valid data.
// Returns an error if any field fails validation.
func (w *QuotaWindow) Validate() error {
	if w.UserID == uuid.Nil {
		return ErrEmptyQuotaUserID
	}

	if w.CurrentUsage < 0 {
		return ErrNegativeUsage
	}

	if !w.Tier.IsValid() {
		return ErrUnknownTier
	}

	return nil
}

// IsValid reports whether the tier is one of the known tiers.
func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierPlus, TierPro, TierUnlimited:
		return true
	default:
		return false
	}
}
