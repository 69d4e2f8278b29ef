package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/store"
)

// fakePipeline returns canned candidates or a canned error.
type fakePipeline struct {
	candidates []domain.GeneratedTerm
	err        error
	calls      int
}

func (f *fakePipeline) GenerateTerms(
	_ context.Context,
	_ *domain.Subject,
	desired int,
) ([]domain.GeneratedTerm, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.candidates) > desired {
		return f.candidates[:desired], nil
	}
	return f.candidates, nil
}

// fakeCatalog is an in-memory TermCatalog keyed by (subject, lower(text)).
type fakeCatalog struct {
	mu    sync.Mutex
	terms map[string]*domain.Term
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{terms: make(map[string]*domain.Term)}
}

func catalogKey(subjectID uuid.UUID, text string) string {
	return subjectID.String() + "|" + strings.ToLower(strings.TrimSpace(text))
}

func (c *fakeCatalog) ExistsBySubjectAndText(
	_ context.Context,
	subjectID uuid.UUID,
	text string,
) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.terms[catalogKey(subjectID, text)]
	return ok, nil
}

func (c *fakeCatalog) Create(_ context.Context, term *domain.Term) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := catalogKey(term.SubjectID, term.Text)
	if _, ok := c.terms[key]; ok {
		return store.ErrTermExists
	}
	c.terms[key] = term
	return nil
}

func candidate(text string, confidence float64) domain.GeneratedTerm {
	return domain.GeneratedTerm{
		Text:       text,
		Definition: "a definition of " + text,
		Provenance: "test",
		Confidence: confidence,
	}
}

func testSubject(t *testing.T) *domain.Subject {
	t.Helper()
	subject, err := domain.NewSubject("biology")
	require.NoError(t, err)
	return subject
}

func TestGeneratePersistsSurvivors(t *testing.T) {
	t.Parallel()

	source := &fakePipeline{candidates: []domain.GeneratedTerm{
		candidate("osmosis", 0.9),
		candidate("mitosis", 0.8),
	}}
	model := &fakePipeline{}
	catalog := newFakeCatalog()

	orch := NewOrchestrator(source, model, catalog,
		OrchestratorConfig{MinConfidence: 0.5}, nil)

	terms, stats, err := orch.Generate(
		context.Background(), testSubject(t), 2, StrategySourceFirst)

	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, 2, stats.Persisted)
	assert.Equal(t, 0, stats.DuplicatesDropped)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 0, model.calls, "model should not be consulted when sources satisfy the request")
}

func TestGenerateCaseInsensitiveDedup(t *testing.T) {
	t.Parallel()

	subject := testSubject(t)
	otherSubject, err := domain.NewSubject("chemistry")
	require.NoError(t, err)

	catalog := newFakeCatalog()
	existing, err := domain.NewTerm(domain.GeneratedTerm{
		SubjectID:  subject.ID,
		Text:       "Photosynthesis",
		Definition: "light to sugar",
		Provenance: "seed",
		Confidence: 1,
	})
	require.NoError(t, err)
	require.NoError(t, catalog.Create(context.Background(), existing))

	source := &fakePipeline{candidates: []domain.GeneratedTerm{
		candidate("photosynthesis", 0.9), // Case-different duplicate
	}}

	orch := NewOrchestrator(source, &fakePipeline{}, catalog,
		OrchestratorConfig{MinConfidence: 0.5}, nil)

	// Same subject: dropped as duplicate.
	terms, stats, err := orch.Generate(
		context.Background(), subject, 1, StrategySourceFirst)
	require.NoError(t, err)
	assert.Empty(t, terms)
	assert.Equal(t, 1, stats.DuplicatesDropped)
	assert.Equal(t, 0, stats.Persisted)

	// Different subject: same text is not a duplicate.
	source.candidates = []domain.GeneratedTerm{candidate("photosynthesis", 0.9)}
	terms, stats, err = orch.Generate(
		context.Background(), otherSubject, 1, StrategySourceFirst)
	require.NoError(t, err)
	assert.Len(t, terms, 1)
	assert.Equal(t, 0, stats.DuplicatesDropped)
}

func TestGenerateDropsLowConfidence(t *testing.T) {
	t.Parallel()

	source := &fakePipeline{candidates: []domain.GeneratedTerm{
		candidate("entropy", 0.2),
		candidate("enthalpy", 0.8),
	}}

	orch := NewOrchestrator(source, &fakePipeline{}, newFakeCatalog(),
		OrchestratorConfig{MinConfidence: 0.5}, nil)

	terms, stats, err := orch.Generate(
		context.Background(), testSubject(t), 2, StrategySourceFirst)

	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "enthalpy", terms[0].Text)
	assert.Equal(t, 1, stats.LowConfidenceDropped)
	assert.Equal(t, 0, stats.DuplicatesDropped, "low-confidence drops are not duplicates")
}

func TestGenerateSourceFirstFallsBackToModel(t *testing.T) {
	t.Parallel()

	source := &fakePipeline{err: errors.New("upstream 503")}
	model := &fakePipeline{candidates: []domain.GeneratedTerm{
		candidate("ribosome", 0.9),
	}}

	orch := NewOrchestrator(source, model, newFakeCatalog(),
		OrchestratorConfig{MinConfidence: 0.5}, nil)

	terms, stats, err := orch.Generate(
		context.Background(), testSubject(t), 1, StrategySourceFirst)

	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.True(t, stats.UsedFallback)
	assert.Equal(t, 1, model.calls)
}

func TestGenerateBothPipelinesExhausted(t *testing.T) {
	t.Parallel()

	source := &fakePipeline{err: errors.New("upstream 503")}
	model := &fakePipeline{err: errors.New("model unavailable")}

	orch := NewOrchestrator(source, model, newFakeCatalog(),
		OrchestratorConfig{MinConfidence: 0.5}, nil)

	_, _, err := orch.Generate(
		context.Background(), testSubject(t), 1, StrategySourceFirst)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateZeroSurvivorsIsNotAnError(t *testing.T) {
	t.Parallel()

	source := &fakePipeline{candidates: []domain.GeneratedTerm{
		candidate("quark", 0.1), // Below threshold
	}}

	orch := NewOrchestrator(source, &fakePipeline{}, newFakeCatalog(),
		OrchestratorConfig{MinConfidence: 0.5}, nil)

	terms, stats, err := orch.Generate(
		context.Background(), testSubject(t), 1, StrategySourceFirst)

	require.NoError(t, err, "zero survivors is a valid outcome, not a crash")
	assert.Empty(t, terms)
	assert.Equal(t, 1, stats.LowConfidenceDropped)
}

func TestGenerateClampsToStrategyCap(t *testing.T) {
	t.Parallel()

	many := make([]domain.GeneratedTerm, 0, 10)
	for _, text := range []string{
		"alpha", "beta", "gamma", "delta", "epsilon",
		"zeta", "eta", "theta", "iota", "kappa",
	} {
		many = append(many, candidate(text, 0.9))
	}
	model := &fakePipeline{candidates: many}

	orch := NewOrchestrator(&fakePipeline{}, model, newFakeCatalog(),
		OrchestratorConfig{MinConfidence: 0.5, ModelFirstCap: 3}, nil)

	terms, stats, err := orch.Generate(
		context.Background(), testSubject(t), 10, StrategyModelFirst)

	require.NoError(t, err)
	assert.Len(t, terms, 3)
	assert.Equal(t, 3, stats.Requested)
}

func TestGenerateRejectsUnknownStrategy(t *testing.T) {
	t.Parallel()

	orch := NewOrchestrator(&fakePipeline{}, &fakePipeline{}, newFakeCatalog(),
		OrchestratorConfig{}, nil)

	_, _, err := orch.Generate(
		context.Background(), testSubject(t), 1, Strategy("vibes"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGenerateDedupesWithinBatch(t *testing.T) {
	t.Parallel()

	source := &fakePipeline{candidates: []domain.GeneratedTerm{
		candidate("Meiosis", 0.9),
		candidate("meiosis", 0.8),
	}}

	orch := NewOrchestrator(source, &fakePipeline{}, newFakeCatalog(),
		OrchestratorConfig{MinConfidence: 0.5}, nil)

	terms, stats, err := orch.Generate(
		context.Background(), testSubject(t), 2, StrategySourceFirst)

	require.NoError(t, err)
	assert.Len(t, terms, 1)
	assert.Equal(t, 1, stats.DuplicatesDropped)
}
