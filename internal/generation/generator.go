package generation

import (
	"context"

	"github.com/wordflow/wordflow-api/internal/domain"
)

// Strategy selects the ordering of the two content pipelines. The choice
// is supplied by the caller (user preference or per-user default), never
// decided by the orchestrator itself.
type Strategy string

// Possible strategies.
const (
	// StrategySourceFirst queries external knowledge sources first and
	// falls back to the model only when sources come up short. Optimized
	// for volume and cost; supports a higher per-call term cap.
	StrategySourceFirst Strategy = "source_first"

	// StrategyModelFirst asks the generative model directly. Optimized for
	// coverage of novel or niche subjects; carries a smaller per-call cap.
	StrategyModelFirst Strategy = "model_first"
)

// IsValid reports whether the strategy is one of the known strategies.
func (s Strategy) IsValid() bool {
	return s == StrategySourceFirst || s == StrategyModelFirst
}

// Pipeline is the interface implemented by content producers. It serves as
// a boundary between the application core and external AI/knowledge-source
// services.
type Pipeline interface {
	// GenerateTerms produces up to desired candidate terms for the subject.
	// Implementations handle their own transport-level retries; the caller
	// bounds the overall operation with the context deadline.
	GenerateTerms(
		ctx context.Context,
		subject *domain.Subject,
		desired int,
	) ([]domain.GeneratedTerm, error)
}

// Stats describes what happened to one generation batch.
type Stats struct {
	Strategy             Strategy `json:"strategy"`
	Requested            int      `json:"requested"`
	Produced             int      `json:"produced"`              // Raw candidates from pipelines
	DuplicatesDropped    int      `json:"duplicates_dropped"`
	LowConfidenceDropped int      `json:"low_confidence_dropped"`
	Persisted            int      `json:"persisted"`
	UsedFallback         bool     `json:"used_fallback"` // Secondary pipeline was consulted
}
