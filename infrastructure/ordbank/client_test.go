package ordbank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordbanken/altmorph/domain/alternatives"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts alternatives.Options, clientOpts ...ClientOption) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", opts, clientOpts...), srv
}

func TestClient_Generate(t *testing.T) {
	var gotBody generateRequest
	var gotKey string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/alternatives", r.URL.Path)
		gotKey = r.Header.Get("X-API-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(generateResponse{Alt: "Hun går til skolen|Hun gikk til skolen"})
	}, alternatives.NewOptions(
		alternatives.WithLanguage(alternatives.LanguageNynorsk),
		alternatives.WithMaxWorkers(2),
		alternatives.WithImperatives(true),
	))

	alt, err := c.Generate(context.Background(), "Hun går til skolen")
	require.NoError(t, err)
	assert.Equal(t, "Hun går til skolen|Hun gikk til skolen", alt)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Hun går til skolen", gotBody.Text)
	assert.Equal(t, "nno", gotBody.Lang)
	assert.Equal(t, 2, gotBody.MaxWorkers)
	assert.True(t, gotBody.IncludeImperatives)
	assert.False(t, gotBody.IncludeDeterminatives)
	assert.InDelta(t, alternatives.DefaultLogitThreshold, gotBody.LogitThreshold, 0.0001)
	assert.Equal(t, alternatives.DefaultLemmaThreshold, gotBody.LemmaThreshold)
}

func TestClient_GenerateAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "invalid api key"})
	}, alternatives.NewOptions())

	_, err := c.Generate(context.Background(), "hei")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid api key", apiErr.Message)
}

func TestClient_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(generateResponse{Alt: "ok"})
	}, alternatives.NewOptions(),
		WithMaxRetries(2),
		WithInitialDelay(time.Millisecond),
	)

	alt, err := c.Generate(context.Background(), "hei")
	require.NoError(t, err)
	assert.Equal(t, "ok", alt)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "empty text"})
	}, alternatives.NewOptions(),
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond),
	)

	_, err := c.Generate(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TimeoutPerAttempt(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(generateResponse{Alt: "too late"})
	}, alternatives.NewOptions(alternatives.WithTimeout(20*time.Millisecond)),
		WithMaxRetries(0),
	)

	_, err := c.Generate(context.Background(), "hei")
	require.Error(t, err)
}

func TestClient_CancelledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Alt: "ok"})
	}, alternatives.NewOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "hei")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, isRetryable(&APIError{StatusCode: http.StatusInternalServerError}))
	assert.True(t, isRetryable(context.DeadlineExceeded))
	assert.False(t, isRetryable(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.False(t, isRetryable(&APIError{StatusCode: http.StatusBadRequest}))
}
