// Package quota enforces per-tier generation quotas over rolling reset
// windows. Enforcement is soft: the check and the usage increment are
// separate steps, so a burst of concurrent requests may briefly push usage
// past the limit, after which every further request is blocked until the
// window resets. Usage counters are never clamped.
package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/platform/logger"
	"github.com/wordflow/wordflow-api/internal/store"
)

// ErrQuotaExceeded is the sentinel wrapped by ExceededError. Callers match
// it with errors.Is.
var ErrQuotaExceeded = errors.New("generation quota exceeded")

// ExceededError reports a blocked request along with when the caller can
// try again.
type ExceededError struct {
	Usage     int
	Limit     int
	NextReset time.Time
}

func (e *ExceededError) Error() string {
	if e.NextReset.IsZero() {
		return fmt.Sprintf("generation quota exceeded: %d of %d used", e.Usage, e.Limit)
	}
	return fmt.Sprintf("generation quota exceeded: %d of %d used, resets at %s",
		e.Usage, e.Limit, e.NextReset.UTC().Format(time.RFC3339))
}

// Unwrap makes errors.Is(err, ErrQuotaExceeded) work.
func (e *ExceededError) Unwrap() error { return ErrQuotaExceeded }

// Status is the outcome of one quota check.
type Status struct {
	Allowed     bool               `json:"allowed"`
	Tier        domain.Tier        `json:"tier"`
	Usage       int                `json:"usage"`
	Limit       int                `json:"limit"`
	ResetPeriod domain.ResetPeriod `json:"reset_period"`

	// NextReset is the UTC instant the window next resets. Zero for tiers
	// that never reset.
	NextReset time.Time `json:"next_reset"`
}

// Guard performs quota checks and usage accounting for a user.
type Guard struct {
	quotas store.QuotaStore
	users  store.UserStore
	tiers  domain.TierConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewGuard creates a Guard. A nil tiers map falls back to the built-in
// tier configuration.
func NewGuard(
	quotas store.QuotaStore,
	users store.UserStore,
	tiers domain.TierConfig,
	log *slog.Logger,
) *Guard {
	if quotas == nil {
		panic("quota store cannot be nil")
	}
	if users == nil {
		panic("user store cannot be nil")
	}
	if tiers == nil {
		tiers = domain.DefaultTierConfig()
	}
	if log == nil {
		log = slog.Default()
	}

	return &Guard{
		quotas: quotas,
		users:  users,
		tiers:  tiers,
		logger: log.With(slog.String("component", "quota_guard")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Check evaluates the user's quota window, lazily resetting it when its
// period has elapsed. It reports the outcome without consuming quota;
// callers that go on to perform the gated action must call Increment.
func (g *Guard) Check(ctx context.Context, userID uuid.UUID) (*Status, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)
	now := g.now()

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for quota check: %w", err)
	}

	limits, ok := g.tiers[user.Tier]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTier, user.Tier)
	}

	window, err := g.quotas.GetOrCreate(ctx, userID, user.Tier)
	if err != nil {
		return nil, fmt.Errorf("failed to load quota window: %w", err)
	}

	if shouldReset(limits.ResetPeriod, window.LastReset, now) {
		// The store guards the reset on the lastReset value we read, so a
		// concurrent check resetting the same window is harmless.
		if err := g.quotas.Reset(ctx, userID, window.LastReset, now); err != nil {
			return nil, fmt.Errorf("failed to reset quota window: %w", err)
		}
		window, err = g.quotas.GetOrCreate(ctx, userID, user.Tier)
		if err != nil {
			return nil, fmt.Errorf("failed to reload quota window after reset: %w", err)
		}

		log.Info("quota window reset",
			slog.String("user_id", userID.String()),
			slog.String("tier", string(user.Tier)),
			slog.String("reset_period", string(limits.ResetPeriod)))
	}

	return &Status{
		Allowed:     window.CurrentUsage < limits.MaxRequestsPerPeriod,
		Tier:        user.Tier,
		Usage:       window.CurrentUsage,
		Limit:       limits.MaxRequestsPerPeriod,
		ResetPeriod: limits.ResetPeriod,
		NextReset:   nextResetAt(limits.ResetPeriod, window.LastReset, now),
	}, nil
}

// Enforce is Check plus the blocking decision: it returns an
// ExceededError when the user is out of quota.
func (g *Guard) Enforce(ctx context.Context, userID uuid.UUID) (*Status, error) {
	status, err := g.Check(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !status.Allowed {
		return status, &ExceededError{
			Usage:     status.Usage,
			Limit:     status.Limit,
			NextReset: status.NextReset,
		}
	}
	return status, nil
}

// Increment records one quota-gated action. It is called after the action
// is known to proceed; the increment is atomic at the storage layer.
func (g *Guard) Increment(ctx context.Context, userID uuid.UUID) error {
	if err := g.quotas.IncrementUsage(ctx, userID); err != nil {
		return fmt.Errorf("failed to record quota usage: %w", err)
	}
	return nil
}

// shouldReset reports whether a window whose last reset was at lastReset
// has crossed its period boundary by now. All comparisons are in UTC.
func shouldReset(period domain.ResetPeriod, lastReset, now time.Time) bool {
	lastReset = lastReset.UTC()
	now = now.UTC()

	if !now.After(lastReset) {
		return false
	}

	switch period {
	case domain.ResetPeriodDaily:
		ly, lm, ld := lastReset.Date()
		ny, nm, nd := now.Date()
		return ly != ny || lm != nm || ld != nd
	case domain.ResetPeriodWeekly:
		return now.Sub(lastReset) >= 7*24*time.Hour
	case domain.ResetPeriodMonthly:
		ly, lm, _ := lastReset.Date()
		ny, nm, _ := now.Date()
		return ly != ny || lm != nm
	case domain.ResetPeriodNever:
		return false
	default:
		return false
	}
}

// nextResetAt computes the UTC instant the window next resets. Daily and
// monthly windows reset on calendar boundaries; weekly windows reset a
// fixed seven days after the last reset.
func nextResetAt(period domain.ResetPeriod, lastReset, now time.Time) time.Time {
	now = now.UTC()

	switch period {
	case domain.ResetPeriodDaily:
		y, m, d := now.Date()
		return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
	case domain.ResetPeriodWeekly:
		return lastReset.UTC().Add(7 * 24 * time.Hour)
	case domain.ResetPeriodMonthly:
		y, m, _ := now.Date()
		return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC)
	case domain.ResetPeriodNever:
		return time.Time{}
	default:
		return time.Time{}
	}
}
