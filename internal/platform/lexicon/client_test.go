package lexicon

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflow/wordflow-api/internal/domain"
	"github.com/wordflow/wordflow-api/internal/generation"
)

// stubDoer returns a canned response or error and records the request URL.
type stubDoer struct {
	status  int
	body    string
	err     error
	lastURL string
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.lastURL = req.URL.String()
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
	}, nil
}

func newTestClient(t *testing.T, doer *stubDoer) *Client {
	t.Helper()
	client, err := NewClient("https://lexicon.test", doer, nil)
	require.NoError(t, err)
	return client
}

func lexiconSubject(t *testing.T) *domain.Subject {
	t.Helper()
	subject, err := domain.NewSubject("sailing")
	require.NoError(t, err)
	return subject
}

func TestGenerateTermsMapsEntries(t *testing.T) {
	t.Parallel()

	doer := &stubDoer{
		status: http.StatusOK,
		body: `[
			{"text":"halyard","definition":"a line that hoists a sail","score":0.92},
			{"text":"","definition":"missing text is skipped","score":0.9},
			{"text":"leeward","definition":"the side sheltered from the wind","examples":["They anchored on the leeward side."],"score":0.77}
		]`,
	}
	client := newTestClient(t, doer)

	candidates, err := client.GenerateTerms(context.Background(), lexiconSubject(t), 5)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "halyard", candidates[0].Text)
	assert.InDelta(t, 0.92, candidates[0].Confidence, 1e-9)
	assert.Equal(t, "lexicon", candidates[0].Provenance)
	assert.Equal(t, []string{"They anchored on the leeward side."}, candidates[1].Examples)
	assert.Contains(t, doer.lastURL, "/v1/subjects/sailing/terms?limit=5")
}

func TestGenerateTermsTruncatesToDesired(t *testing.T) {
	t.Parallel()

	doer := &stubDoer{
		status: http.StatusOK,
		body: `[
			{"text":"bow","definition":"the front of a boat","score":0.9},
			{"text":"stern","definition":"the back of a boat","score":0.9},
			{"text":"keel","definition":"the central structural spine","score":0.9}
		]`,
	}
	client := newTestClient(t, doer)

	candidates, err := client.GenerateTerms(context.Background(), lexiconSubject(t), 2)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestGenerateTermsStatusHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantErr   error
		wantEmpty bool
	}{
		{name: "server error is transient", status: http.StatusBadGateway, wantErr: generation.ErrTransientFailure},
		{name: "client error is permanent", status: http.StatusForbidden, wantErr: generation.ErrInvalidResponse},
		{name: "not found means no content", status: http.StatusNotFound, wantEmpty: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, &stubDoer{status: tc.status, body: "{}"})
			candidates, err := client.GenerateTerms(context.Background(), lexiconSubject(t), 3)

			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, candidates)
		})
	}
}

func TestGenerateTermsMalformedBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, &stubDoer{status: http.StatusOK, body: "not json"})

	_, err := client.GenerateTerms(context.Background(), lexiconSubject(t), 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	assert.False(t, IsTransient(err))
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	_, err := NewClient("", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateTermsEscapesSubjectName(t *testing.T) {
	t.Parallel()

	doer := &stubDoer{status: http.StatusOK, body: "[]"}
	client := newTestClient(t, doer)

	subject, err := domain.NewSubject("celestial navigation")
	require.NoError(t, err)

	_, err = client.GenerateTerms(context.Background(), subject, 1)
	require.NoError(t, err)
	assert.Contains(t, doer.lastURL, "celestial%20navigation")
}
