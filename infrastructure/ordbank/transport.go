package ordbank

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// CachingTransport is an http.RoundTripper that caches request/response
// pairs on disk, keyed by the SHA-256 of method + URL + request body.
// Repeated runs over the same corpus then hit the service only for
// unseen texts. Only 2xx responses are cached; cache read and write
// errors silently fall through to the inner transport.
type CachingTransport struct {
	inner http.RoundTripper
	dir   string
}

// NewCachingTransport creates a CachingTransport that stores cache files
// under dir. If inner is nil, http.DefaultTransport is used.
func NewCachingTransport(dir string, inner http.RoundTripper) (*CachingTransport, error) {
	if inner == nil {
		inner = http.DefaultTransport
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &CachingTransport{inner: inner, dir: dir}, nil
}

type cachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}

// RoundTrip implements http.RoundTripper.
func (t *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	key := cacheKey(req.Method, req.URL.String(), body)
	path := filepath.Join(t.dir, key+".json")

	if resp, ok := t.readCache(path, req); ok {
		return resp, nil
	}

	resp, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()

	t.writeCache(path, resp.StatusCode, resp.Header.Get("Content-Type"), respBody)

	resp.Body = io.NopCloser(bytes.NewReader(respBody))
	return resp, nil
}

func cacheKey(method, url string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte("\n"))
	h.Write([]byte(url))
	h.Write([]byte("\n"))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func (t *CachingTransport) readCache(path string, req *http.Request) (*http.Response, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	header := http.Header{}
	if cached.ContentType != "" {
		header.Set("Content-Type", cached.ContentType)
	}

	return &http.Response{
		StatusCode: cached.StatusCode,
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(cached.Body))),
		Request:    req,
	}, true
}

// writeCache persists one response atomically so a crashed run never
// leaves a truncated cache file behind.
func (t *CachingTransport) writeCache(path string, statusCode int, contentType string, body []byte) {
	cached := cachedResponse{
		StatusCode:  statusCode,
		ContentType: contentType,
		Body:        string(body),
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return
	}

	tmp, err := os.CreateTemp(t.dir, "cache-*.tmp")
	if err != nil {
		return
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return
	}
	_ = os.Rename(tmp.Name(), path)
}
