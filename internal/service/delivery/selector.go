// Package delivery decides what a user sees next. Due reviews always win;
// only when nothing is due does the selector spend quota on generating new
// content. It also applies reported actions back onto the schedule.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/domain/schedule"
	"github.com/wordflow/wordflow-api/internal/generation"
	"github.com/wordflow/wordflow-api/internal/platform/logger"
	"github.com/wordflow/wordflow-api/internal/service/quota"
	"github.com/wordflow/wordflow-api/internal/store"
)

// QuotaGuard is the slice of the quota service the selector needs.
type QuotaGuard interface {
	// Enforce checks the user's quota and fails with a quota error when
	// the user is blocked.
	Enforce(ctx context.Context, userID uuid.UUID) (*quota.Status, error)

	// Increment records one quota-gated action.
	Increment(ctx context.Context, userID uuid.UUID) error
}

// ContentGenerator is the slice of the generation orchestrator the selector
// needs.
type ContentGenerator interface {
	Generate(
		ctx context.Context,
		subject *domain.Subject,
		desired int,
		strategy generation.Strategy,
	) ([]*domain.Term, generation.Stats, error)
}

// NextDelivery is what the selector hands the API layer: the delivery
// record plus the term content to render.
type NextDelivery struct {
	Delivery *domain.Delivery `json:"delivery"`
	Term     *domain.Term     `json:"term"`
}

// Selector chooses the next delivery for a user and applies reported
// actions.
type Selector struct {
	items      store.LearningItemStore
	deliveries store.DeliveryStore
	terms      store.TermStore
	subjects   store.SubjectStore
	tx         Transactor
	quota      QuotaGuard
	generator  ContentGenerator
	scheduler  schedule.Service
	logger     *slog.Logger

	// generationTimeout bounds one generation call end to end; the request
	// context is narrowed, never widened.
	generationTimeout time.Duration

	// defaultStrategy is used when the caller expresses no preference.
	defaultStrategy generation.Strategy

	now  func() time.Time
	intn func(n int) int
}

// SelectorConfig carries the selector's tunables.
type SelectorConfig struct {
	GenerationTimeout time.Duration
	DefaultStrategy   generation.Strategy
}

// NewSelector creates a Selector.
func NewSelector(
	items store.LearningItemStore,
	deliveries store.DeliveryStore,
	terms store.TermStore,
	subjects store.SubjectStore,
	tx Transactor,
	quotaGuard QuotaGuard,
	generator ContentGenerator,
	scheduler schedule.Service,
	cfg SelectorConfig,
	log *slog.Logger,
) *Selector {
	if items == nil {
		panic("learning item store cannot be nil")
	}
	if deliveries == nil {
		panic("delivery store cannot be nil")
	}
	if terms == nil {
		panic("term store cannot be nil")
	}
	if subjects == nil {
		panic("subject store cannot be nil")
	}
	if tx == nil {
		panic("transactor cannot be nil")
	}
	if quotaGuard == nil {
		panic("quota guard cannot be nil")
	}
	if generator == nil {
		panic("content generator cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = 30 * time.Second
	}
	if !cfg.DefaultStrategy.IsValid() {
		cfg.DefaultStrategy = generation.StrategySourceFirst
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &Selector{
		items:             items,
		deliveries:        deliveries,
		terms:             terms,
		subjects:          subjects,
		tx:                tx,
		quota:             quotaGuard,
		generator:         generator,
		scheduler:         scheduler,
		logger:            log.With(slog.String("component", "delivery_selector")),
		generationTimeout: cfg.GenerationTimeout,
		defaultStrategy:   cfg.DefaultStrategy,
		now:               func() time.Time { return time.Now().UTC() },
		intn:              rng.Intn,
	}
}

// Next returns the user's next delivery. A due review item always takes
// priority; new content is generated only when the review queue is empty,
// and only within quota.
func (s *Selector) Next(ctx context.Context, userID uuid.UUID) (*NextDelivery, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	item, err := s.items.FindNextDue(ctx, userID, now)
	switch {
	case err == nil:
		return s.deliverReview(ctx, item)
	case errors.Is(err, store.ErrLearningItemNotFound):
		// Review queue is empty; fall through to generation.
	default:
		return nil, fmt.Errorf("failed to find next due item: %w", err)
	}

	log.Debug("review queue empty, generating new content",
		slog.String("user_id", userID.String()))

	return s.deliverNew(ctx, userID)
}

// deliverReview wraps an already-scheduled item in a review delivery.
func (s *Selector) deliverReview(ctx context.Context, item *domain.LearningItem) (*NextDelivery, error) {
	term, err := s.terms.GetByID(ctx, item.TermID)
	if err != nil {
		return nil, fmt.Errorf("failed to load term for due item: %w", err)
	}

	delivery, err := domain.NewDelivery(item.UserID, item.TermID, domain.DeliveryKindReview)
	if err != nil {
		return nil, fmt.Errorf("failed to build review delivery: %w", err)
	}
	if err := s.deliveries.Create(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to persist review delivery: %w", err)
	}

	return &NextDelivery{Delivery: delivery, Term: term}, nil
}

// deliverNew produces a fresh term within the user's quota and schedules it
// as a new learning item.
func (s *Selector) deliverNew(ctx context.Context, userID uuid.UUID) (*NextDelivery, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.quota.Enforce(ctx, userID); err != nil {
		return nil, err
	}

	subject, err := s.pickSubject(ctx, userID)
	if err != nil {
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	terms, stats, err := s.generator.Generate(genCtx, subject, 1, s.defaultStrategy)
	if err != nil {
		// Pipeline errors and timeouts surface to the caller the same way
		// an empty batch does: no content right now.
		log.Warn("content generation failed",
			slog.String("user_id", userID.String()),
			slog.String("subject", subject.Name),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrNoContentAvailable, err)
	}
	if len(terms) == 0 {
		// Generation succeeded but everything was filtered out. There is
		// nothing to show the user right now.
		log.Info("generation produced no usable terms",
			slog.String("user_id", userID.String()),
			slog.String("subject", subject.Name),
			slog.Int("duplicates_dropped", stats.DuplicatesDropped),
			slog.Int("low_confidence_dropped", stats.LowConfidenceDropped))
		return nil, ErrNoContentAvailable
	}

	if err := s.quota.Increment(ctx, userID); err != nil {
		return nil, err
	}

	term := terms[0]

	item, err := domain.NewLearningItem(userID, term.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build learning item: %w", err)
	}
	delivery, err := domain.NewDelivery(userID, term.ID, domain.DeliveryKindNew)
	if err != nil {
		return nil, fmt.Errorf("failed to build new-content delivery: %w", err)
	}

	err = s.tx.InTransaction(ctx, func(
		ctx context.Context,
		items store.LearningItemStore,
		deliveries store.DeliveryStore,
	) error {
		if err := items.Create(ctx, item); err != nil {
			return err
		}
		return deliveries.Create(ctx, delivery)
	})
	if errors.Is(err, store.ErrLearningItemExists) {
		// A concurrent request created the item first; the insert above was
		// rolled back. The winner's record is authoritative, this request
		// just delivers it.
		if item, err = s.items.Get(ctx, userID, term.ID); err != nil {
			return nil, fmt.Errorf("failed to re-read learning item after lost insert race: %w", err)
		}
		err = s.deliveries.Create(ctx, delivery)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist new-content delivery: %w", err)
	}

	return &NextDelivery{Delivery: delivery, Term: term}, nil
}

// pickSubject selects one of the user's subjects by weighted random draw.
func (s *Selector) pickSubject(ctx context.Context, userID uuid.UUID) (*domain.Subject, error) {
	userSubjects, err := s.subjects.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user subjects: %w", err)
	}
	if len(userSubjects) == 0 {
		return nil, ErrNoSubjects
	}

	total := 0
	for _, us := range userSubjects {
		if us.Weight > 0 {
			total += us.Weight
		}
	}

	var chosen *domain.UserSubject
	if total == 0 {
		// No positive weights; every listed subject is equally likely.
		chosen = userSubjects[s.intn(len(userSubjects))]
	} else {
		pick := s.intn(total)
		for _, us := range userSubjects {
			if us.Weight <= 0 {
				continue
			}
			if pick < us.Weight {
				chosen = us
				break
			}
			pick -= us.Weight
		}
	}

	subject, err := s.subjects.GetByID(ctx, chosen.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chosen subject: %w", err)
	}
	return subject, nil
}

// ReportAction records an action against a delivery and advances the
// underlying learning item's schedule. Reports are idempotent at the
// delivery level; the schedule transition applies once per report.
func (s *Selector) ReportAction(
	ctx context.Context,
	userID, deliveryID uuid.UUID,
	action domain.ReportedAction,
) (*domain.LearningItem, error) {
	if !domain.IsKnownAction(action) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	record, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	// Deliveries of other users are indistinguishable from missing ones.
	if record.UserID != userID {
		return nil, store.ErrDeliveryNotFound
	}

	// The delivery already carries this action: the report is a duplicate
	// and the schedule must not advance again.
	if record.Action == domain.DeliveryAction(action) {
		item, err := s.items.Get(ctx, userID, record.TermID)
		if err != nil {
			return nil, fmt.Errorf("failed to load learning item for duplicate report: %w", err)
		}
		return item, nil
	}

	now := s.now()

	var advanced *domain.LearningItem
	err = s.tx.InTransaction(ctx, func(
		ctx context.Context,
		items store.LearningItemStore,
		deliveries store.DeliveryStore,
	) error {
		if err := deliveries.RecordAction(ctx, deliveryID, domain.DeliveryAction(action), now); err != nil {
			return fmt.Errorf("failed to record delivery action: %w", err)
		}

		item, err := items.Get(ctx, userID, record.TermID)
		if err != nil {
			return fmt.Errorf("failed to load learning item for action: %w", err)
		}

		advanced, err = s.scheduler.Advance(item, action, now)
		if err != nil {
			return fmt.Errorf("failed to advance schedule: %w", err)
		}

		return items.Update(ctx, advanced)
	})
	if err != nil {
		return nil, err
	}

	return advanced, nil
}
