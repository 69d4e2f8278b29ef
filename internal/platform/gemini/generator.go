package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"text/template"
	"time"

	"github.com/wordflow/wordflow-api/internal/config"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/generation"
	"google.golang.org/genai"
)

// defaultPromptTemplate asks the model for structured JSON so responses can
// be parsed without scraping prose.
const defaultPromptTemplate = `You are a vocabulary curator for a language-learning app.

Produce exactly {{.Count}} vocabulary terms for the subject "{{.SubjectName}}".
Each term must be genuinely useful to a learner of this subject: no filler,
no near-synonym padding, no proper nouns unless the subject demands them.

Respond ONLY with a JSON object of the form:

{
  "terms": [
    {
      "text": "the term",
      "definition": "a one or two sentence learner-oriented definition",
      "examples": ["an example sentence using the term"],
      "confidence": 0.9
    }
  ]
}

"confidence" is your own estimate, between 0 and 1, of how well the term
fits the subject. Be honest: mark tangential terms low.`

// Static check that Generator implements the pipeline interface.
var _ generation.Pipeline = (*Generator)(nil)

// Generator implements generation.Pipeline using Google's Gemini API.
type Generator struct {
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	promptTemplate *template.Template

	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// NewGenerator creates a Generator with the provided dependencies. It
// validates the configuration and establishes the Gemini API client.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("terms").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateTerms produces up to desired candidate terms for the subject by
// prompting the Gemini model and parsing its structured response.
func (g *Generator) GenerateTerms(
	ctx context.Context,
	subject *domain.Subject,
	desired int,
) ([]domain.GeneratedTerm, error) {
	if subject == nil {
		return nil, fmt.Errorf("%w: subject cannot be nil", generation.ErrInvalidConfig)
	}
	if desired <= 0 {
		desired = 1
	}

	prompt, err := g.createPrompt(subject.Name, desired)
	if err != nil {
		return nil, err
	}

	response, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response, subject, desired)
}

// createPrompt generates a prompt string from the template.
func (g *Generator) createPrompt(subjectName string, count int) (string, error) {
	if subjectName == "" {
		return "", ErrEmptySubject
	}

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, promptData{
		SubjectName: subjectName,
		Count:       count,
	}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callGeminiWithRetry makes a call to the Gemini API with exponential
// backoff retry logic. Transient transport failures are retried up to
// config.MaxRetries times; permanent errors (safety blocks, unparseable
// responses) are returned immediately.
func (g *Generator) callGeminiWithRetry(ctx context.Context, prompt string) (*ResponseSchema, error) {
	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1
		g.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		response, transient, err := g.callGeminiOnce(ctx, prompt, genConfig)
		if err == nil {
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}

// callGeminiOnce performs a single API call and classifies its failure as
// transient or permanent.
func (g *Generator) callGeminiOnce(
	ctx context.Context,
	prompt string,
	genConfig *genai.GenerateContentConfig,
) (*ResponseSchema, bool, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
	if err != nil {
		// Transport and server errors are worth retrying.
		return nil, true, fmt.Errorf("gemini API call error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, false, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, false, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var text string
	for _, part := range candidate.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}

	var parsed ResponseSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	return &parsed, false, nil
}

// parseResponse converts a ResponseSchema into candidate terms. Entries
// missing required fields are skipped rather than failing the batch; the
// orchestrator's filters make the final call on the rest.
func (g *Generator) parseResponse(
	ctx context.Context,
	response *ResponseSchema,
	subject *domain.Subject,
	desired int,
) ([]domain.GeneratedTerm, error) {
	if response == nil || len(response.Terms) == 0 {
		return nil, fmt.Errorf("%w: response contained no terms", generation.ErrInvalidResponse)
	}

	candidates := make([]domain.GeneratedTerm, 0, len(response.Terms))
	for _, entry := range response.Terms {
		if entry.Text == "" || entry.Definition == "" {
			g.logger.DebugContext(ctx, "skipping incomplete term entry",
				"subject", subject.Name)
			continue
		}

		candidates = append(candidates, domain.GeneratedTerm{
			SubjectID:  subject.ID,
			Text:       entry.Text,
			Definition: entry.Definition,
			Examples:   entry.Examples,
			Provenance: "gemini:" + g.model,
			Confidence: entry.Confidence,
		})

		if len(candidates) == desired {
			break
		}
	}

	return candidates, nil
}
