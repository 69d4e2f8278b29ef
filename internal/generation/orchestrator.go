package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/platform/logger"
	"github.com/wordflow/wordflow-api/internal/store"
)

// OrchestratorConfig holds the filtering and capping knobs of the
// orchestrator.
type OrchestratorConfig struct {
	// MinConfidence is the threshold below which candidates are dropped.
	MinConfidence float64

	// SourceFirstCap and ModelFirstCap bound how many terms one call may
	// request per strategy.
	SourceFirstCap int
	ModelFirstCap  int
}

// Orchestrator runs one of the two content pipelines per the caller's
// strategy, filters the candidates through the dedup guard and the
// confidence threshold, and persists the survivors to the term catalog.
//
// Returning zero terms is a valid success: the orchestrator reports what
// happened through Stats and leaves the "no content" decision to the
// caller.
type Orchestrator struct {
	source  Pipeline
	model   Pipeline
	dedup   *DedupGuard
	catalog TermCatalog
	cfg     OrchestratorConfig
	logger  *slog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	source Pipeline,
	model Pipeline,
	catalog TermCatalog,
	cfg OrchestratorConfig,
	log *slog.Logger,
) *Orchestrator {
	if source == nil {
		panic("source pipeline cannot be nil")
	}
	if model == nil {
		panic("model pipeline cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	if cfg.SourceFirstCap <= 0 {
		cfg.SourceFirstCap = 25
	}
	if cfg.ModelFirstCap <= 0 {
		cfg.ModelFirstCap = 5
	}

	return &Orchestrator{
		source:  source,
		model:   model,
		dedup:   NewDedupGuard(catalog),
		catalog: catalog,
		cfg:     cfg,
		logger:  log.With(slog.String("component", "generation_orchestrator")),
	}
}

// Generate produces, filters, and persists candidate terms for the subject.
// The primary pipeline is chosen by the strategy; the other pipeline is
// consulted only when the primary errors or yields fewer candidates than
// desired. When both pipelines fail outright the error is explicit, never
// an empty success.
func (o *Orchestrator) Generate(
	ctx context.Context,
	subject *domain.Subject,
	desired int,
	strategy Strategy,
) ([]*domain.Term, Stats, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)

	stats := Stats{Strategy: strategy, Requested: desired}

	if subject == nil {
		return nil, stats, fmt.Errorf("%w: subject cannot be nil", ErrInvalidConfig)
	}
	if !strategy.IsValid() {
		return nil, stats, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, strategy)
	}
	if desired <= 0 {
		desired = 1
		stats.Requested = desired
	}

	primary, secondary := o.model, o.source
	callCap := o.cfg.ModelFirstCap
	if strategy == StrategySourceFirst {
		primary, secondary = o.source, o.model
		callCap = o.cfg.SourceFirstCap
	}
	if desired > callCap {
		desired = callCap
		stats.Requested = desired
	}

	candidates, primaryErr := primary.GenerateTerms(ctx, subject, desired)
	if primaryErr != nil {
		log.Warn("primary pipeline failed, falling back",
			slog.String("strategy", string(strategy)),
			slog.String("subject", subject.Name),
			slog.String("error", primaryErr.Error()))
		candidates = nil
	}

	if len(candidates) < desired {
		stats.UsedFallback = true
		remainder := desired - len(candidates)

		more, secondaryErr := secondary.GenerateTerms(ctx, subject, remainder)
		if secondaryErr != nil {
			if primaryErr != nil {
				// Both pipelines exhausted; surface an explicit failure.
				return nil, stats, fmt.Errorf(
					"%w: primary: %v; fallback: %v",
					ErrGenerationFailed, primaryErr, secondaryErr,
				)
			}
			log.Warn("fallback pipeline failed, continuing with primary results",
				slog.String("subject", subject.Name),
				slog.String("error", secondaryErr.Error()))
		}
		candidates = append(candidates, more...)
	}

	stats.Produced = len(candidates)

	terms, err := o.filterAndPersist(ctx, subject, candidates, &stats)
	if err != nil {
		return nil, stats, err
	}

	log.Debug("generation batch complete",
		slog.String("subject", subject.Name),
		slog.String("strategy", string(strategy)),
		slog.Int("produced", stats.Produced),
		slog.Int("duplicates_dropped", stats.DuplicatesDropped),
		slog.Int("low_confidence_dropped", stats.LowConfidenceDropped),
		slog.Int("persisted", stats.Persisted))

	return terms, stats, nil
}

// filterAndPersist applies the confidence and duplicate filters, then
// promotes survivors into permanent catalog entries. Duplicates are
// counted, never an error; a lost insert race counts as a duplicate too.
func (o *Orchestrator) filterAndPersist(
	ctx context.Context,
	subject *domain.Subject,
	candidates []domain.GeneratedTerm,
	stats *Stats,
) ([]*domain.Term, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)

	terms := make([]*domain.Term, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))

	for _, candidate := range candidates {
		candidate.SubjectID = subject.ID

		if err := candidate.Validate(); err != nil {
			log.Debug("dropping malformed candidate",
				slog.String("subject", subject.Name),
				slog.String("error", err.Error()))
			continue
		}

		if candidate.Confidence < o.cfg.MinConfidence {
			stats.LowConfidenceDropped++
			continue
		}

		// Dedupe within the batch before asking the catalog.
		key := strings.ToLower(normalizeTermText(candidate.Text))
		if seen[key] {
			stats.DuplicatesDropped++
			continue
		}
		seen[key] = true

		duplicate, err := o.dedup.IsDuplicate(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if duplicate {
			stats.DuplicatesDropped++
			continue
		}

		term, err := domain.NewTerm(candidate)
		if err != nil {
			log.Debug("dropping candidate that failed promotion",
				slog.String("subject", subject.Name),
				slog.String("error", err.Error()))
			continue
		}

		if err := o.catalog.Create(ctx, term); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// A concurrent batch persisted the same text first.
				stats.DuplicatesDropped++
				continue
			}
			return nil, fmt.Errorf("failed to persist generated term: %w", err)
		}

		stats.Persisted++
		terms = append(terms, term)
	}

	return terms, nil
}
