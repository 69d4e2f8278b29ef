// Package lexicon implements the generation.Pipeline interface over an
// external dictionary source exposed as an HTTP API. It is the volume
// half of the content supply: cheap, high-throughput lookups that the
// model-backed pipeline backfills when the source comes up short.
package lexicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/generation"
)

// maxResponseBytes bounds how much of an upstream response body is read.
const maxResponseBytes = 1 << 20

// Doer is the slice of *http.Client the lexicon client needs. Tests
// substitute a stub transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Static check that Client implements the pipeline interface.
var _ generation.Pipeline = (*Client)(nil)

// entrySchema is one dictionary entry as the source API returns it.
type entrySchema struct {
	Text       string   `json:"text"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples,omitempty"`

	// Score is the source's relevance ranking for the subject, between
	// 0 and 1. It maps directly onto candidate confidence.
	Score float64 `json:"score"`
}

// Client queries an external dictionary source for candidate terms.
type Client struct {
	httpClient Doer
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a lexicon Client for the source at baseURL. A nil
// httpClient falls back to http.DefaultClient; the caller's context
// deadline bounds each request.
func NewClient(baseURL string, httpClient Doer, logger *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: source URL cannot be empty", generation.ErrInvalidConfig)
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid source URL: %v", generation.ErrInvalidConfig, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger.With(slog.String("component", "lexicon_client")),
	}, nil
}

// GenerateTerms fetches up to desired candidate terms for the subject from
// the dictionary source.
func (c *Client) GenerateTerms(
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

	reqURL := c.baseURL + "/v1/subjects/" + url.PathEscape(subject.Name) +
		"/terms?limit=" + strconv.Itoa(desired)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lexicon request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: lexicon request failed: %v",
			generation.ErrTransientFailure, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "failed to close lexicon response body",
				"error", closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decoding.
	case resp.StatusCode == http.StatusNotFound:
		// The source simply has nothing for this subject.
		return nil, nil
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: lexicon source returned %d",
			generation.ErrTransientFailure, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: lexicon source returned %d",
			generation.ErrInvalidResponse, resp.StatusCode)
	}

	var entries []entrySchema
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode lexicon response: %v",
			generation.ErrInvalidResponse, err)
	}

	candidates := make([]domain.GeneratedTerm, 0, len(entries))
	for _, entry := range entries {
		if entry.Text == "" || entry.Definition == "" {
			continue
		}

		candidates = append(candidates, domain.GeneratedTerm{
			SubjectID:  subject.ID,
			Text:       entry.Text,
			Definition: entry.Definition,
			Examples:   entry.Examples,
			Provenance: "lexicon",
			Confidence: entry.Score,
		})

		if len(candidates) == desired {
			break
		}
	}

	c.logger.DebugContext(ctx, "lexicon lookup complete",
		"subject", subject.Name,
		"requested", desired,
		"returned", len(candidates))

	return candidates, nil
}

// IsTransient reports whether the error is worth retrying against the
// source, as opposed to a malformed-response failure.
func IsTransient(err error) bool {
	return errors.Is(err, generation.ErrTransientFailure)
}
