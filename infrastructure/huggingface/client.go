// Package huggingface implements the dataset catalog against the
// Hugging Face datasets-server REST API.
package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ordbanken/altmorph/domain/dataset"
	"github.com/ordbanken/altmorph/domain/record"
)

// DefaultBaseURL is the public datasets-server endpoint.
const DefaultBaseURL = "https://datasets-server.huggingface.co"

// Client queries the datasets-server API. Requests are unauthenticated
// unless a token is set; gated datasets need one.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option is a functional option for Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a datasets-server client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type splitsResponse struct {
	Splits []struct {
		Dataset string `json:"dataset"`
		Config  string `json:"config"`
		Split   string `json:"split"`
	} `json:"splits"`
}

type infoResponse struct {
	DatasetInfo struct {
		Features map[string]json.RawMessage `json:"features"`
		Splits   map[string]struct {
			NumExamples int64 `json:"num_examples"`
		} `json:"splits"`
	} `json:"dataset_info"`
}

type firstRowsResponse struct {
	Features []struct {
		Name string          `json:"name"`
		Type json.RawMessage `json:"type"`
	} `json:"features"`
	Rows []struct {
		RowIdx int             `json:"row_idx"`
		Row    json.RawMessage `json:"row"`
	} `json:"rows"`
}

// Describe assembles the dataset description from the /splits and /info
// endpoints, fetched concurrently.
func (c *Client) Describe(ctx context.Context, name, config string) (dataset.Description, error) {
	var splitsResp splitsResponse
	var infoResp infoResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := url.Values{"dataset": {name}}
		return c.getJSON(gctx, "/splits", q, &splitsResp)
	})
	g.Go(func() error {
		q := url.Values{"dataset": {name}}
		if config != "" {
			q.Set("config", config)
		}
		return c.getJSON(gctx, "/info", q, &infoResp)
	})
	if err := g.Wait(); err != nil {
		return dataset.Description{}, err
	}

	exampleCounts := map[string]int64{}
	for split, info := range infoResp.DatasetInfo.Splits {
		exampleCounts[split] = info.NumExamples
	}

	var configs []string
	seen := map[string]bool{}
	var splits []dataset.Split
	for _, s := range splitsResp.Splits {
		if !seen[s.Config] {
			seen[s.Config] = true
			configs = append(configs, s.Config)
		}
		splits = append(splits, dataset.NewSplit(s.Config, s.Split, exampleCounts[s.Split]))
	}

	// The features map carries no ordering, so sort by name for a
	// stable report.
	names := make([]string, 0, len(infoResp.DatasetInfo.Features))
	for n := range infoResp.DatasetInfo.Features {
		names = append(names, n)
	}
	sort.Strings(names)

	features := make([]dataset.Feature, 0, len(names))
	for _, n := range names {
		features = append(features, dataset.NewFeature(n, infoResp.DatasetInfo.Features[n]))
	}

	return dataset.NewDescription(name, configs, splits, features), nil
}

// SampleRows fetches up to limit rows of a split from /first-rows. Cell
// order follows the row objects as served.
func (c *Client) SampleRows(ctx context.Context, name, config, split string, limit int) ([]dataset.Row, error) {
	if limit < 0 {
		limit = 0
	}
	q := url.Values{
		"dataset": {name},
		"config":  {config},
		"split":   {split},
	}

	var resp firstRowsResponse
	if err := c.getJSON(ctx, "/first-rows", q, &resp); err != nil {
		return nil, err
	}

	rows := make([]dataset.Row, 0, limit)
	for _, r := range resp.Rows {
		if len(rows) >= limit {
			break
		}
		rec, err := record.Decode(r.Row)
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", r.RowIdx, err)
		}
		cells := make([]dataset.Cell, 0, len(rec.Keys()))
		for _, key := range rec.Keys() {
			value, _ := rec.Value(key)
			cells = append(cells, dataset.NewCell(key, value))
		}
		rows = append(rows, dataset.NewRow(r.RowIdx, cells))
	}
	return rows, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call datasets server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("datasets server: %s returned status %d: %s",
			path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Ensure Client implements the catalog contract.
var _ dataset.Catalog = (*Client)(nil)
