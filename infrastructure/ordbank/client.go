// Package ordbank is the HTTP client for the Ordbank
// morphological-alternatives service.
package ordbank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/ordbanken/altmorph/domain/alternatives"
)

// Retry defaults.
const (
	DefaultMaxRetries    = 2
	DefaultInitialDelay  = 500 * time.Millisecond
	DefaultBackoffFactor = 2.0
)

// Client generates alternatives by calling the Ordbank HTTP API. One
// request is made per text; the per-call timeout from the generation
// options bounds each attempt, not the whole retry sequence.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	opts          alternatives.Options
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// ClientOption is a functional option for Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Useful for
// injecting a caching transport or a test server client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) ClientOption {
	return func(cl *Client) {
		if n >= 0 {
			cl.maxRetries = n
		}
	}
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.initialDelay = d
		}
	}
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) ClientOption {
	return func(cl *Client) {
		if f > 1 {
			cl.backoffFactor = f
		}
	}
}

// NewClient creates a client for the service at baseURL. The API key is
// sent on every request; opts carries the generation knobs forwarded in
// each request body.
func NewClient(baseURL, apiKey string, opts alternatives.Options, clientOpts ...ClientOption) *Client {
	c := &Client{
		httpClient:    &http.Client{},
		baseURL:       baseURL,
		apiKey:        apiKey,
		opts:          opts,
		maxRetries:    DefaultMaxRetries,
		initialDelay:  DefaultInitialDelay,
		backoffFactor: DefaultBackoffFactor,
	}
	for _, opt := range clientOpts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Text                   string  `json:"text"`
	Lang                   string  `json:"lang"`
	MaxWorkers             int     `json:"max_workers"`
	Verbosity              int     `json:"verbosity"`
	LogitThreshold         float64 `json:"logit_threshold"`
	LemmaThreshold         int     `json:"lemma_threshold"`
	IncludeImperatives     bool    `json:"include_imperatives"`
	IncludeDeterminatives  bool    `json:"include_determinatives"`
	IncludeGenderAdj       bool    `json:"include_gender_adj"`
	IncludeNumberAmbiguous bool    `json:"include_number_ambiguous"`
}

type generateResponse struct {
	Alt string `json:"alt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Generate sends one text to the service and returns the pipe-joined
// alternatives string.
func (c *Client) Generate(ctx context.Context, text string) (string, error) {
	body, err := c.encodeRequest(text)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	var alt string
	err = c.withRetry(ctx, func() error {
		alt, err = c.doGenerate(ctx, body)
		return err
	})
	if err != nil {
		return "", err
	}
	return alt, nil
}

// encodeRequest marshals the request body without HTML escaping, so the
// Norwegian text goes over the wire verbatim.
func (c *Client) encodeRequest(text string) ([]byte, error) {
	req := generateRequest{
		Text:                   text,
		Lang:                   string(c.opts.Language()),
		MaxWorkers:             c.opts.MaxWorkers(),
		Verbosity:              c.opts.Verbosity(),
		LogitThreshold:         c.opts.LogitThreshold(),
		LemmaThreshold:         c.opts.LemmaThreshold(),
		IncludeImperatives:     c.opts.IncludeImperatives(),
		IncludeDeterminatives:  c.opts.IncludeDeterminatives(),
		IncludeGenderAdj:       c.opts.IncludeGenderAdj(),
		IncludeNumberAmbiguous: c.opts.IncludeNumberAmbiguous(),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Client) doGenerate(ctx context.Context, body []byte) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/alternatives", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", newAPIError(resp.StatusCode, respBody)
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Alt, nil
}

// withRetry executes the function with exponential backoff retry.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	delay := c.initialDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		// A per-attempt timeout is retryable, a cancelled parent is not.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * c.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// Ensure Client implements the generator contract.
var _ alternatives.Generator = (*Client)(nil)
