package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL))
}

func TestDescribe(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "npsc", r.URL.Query().Get("dataset"))
		switch r.URL.Path {
		case "/splits":
			_, _ = w.Write([]byte(`{"splits":[
				{"dataset":"npsc","config":"default","split":"train"},
				{"dataset":"npsc","config":"default","split":"test"}
			]}`))
		case "/info":
			_, _ = w.Write([]byte(`{"dataset_info":{
				"features":{
					"text":{"_type":"Value","dtype":"string"},
					"id":{"_type":"Value","dtype":"int64"}
				},
				"splits":{"train":{"num_examples":100},"test":{"num_examples":10}}
			}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	desc, err := c.Describe(context.Background(), "npsc", "")
	require.NoError(t, err)

	assert.Equal(t, "npsc", desc.Name())
	assert.Equal(t, []string{"default"}, desc.Configs())

	splits := desc.Splits()
	require.Len(t, splits, 2)
	assert.Equal(t, "train", splits[0].Name())
	assert.Equal(t, int64(100), splits[0].NumExamples())
	assert.Equal(t, "test", splits[1].Name())
	assert.Equal(t, int64(10), splits[1].NumExamples())

	features := desc.Features()
	require.Len(t, features, 2)
	assert.Equal(t, "id", features[0].Name(), "features sorted by name")
	assert.Equal(t, "text", features[1].Name())
	assert.True(t, features[1].IsStringValue())
	assert.False(t, features[0].IsStringValue())
}

func TestDescribe_SplitsError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/splits" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"dataset not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"dataset_info":{}}`))
	})

	_, err := c.Describe(context.Background(), "missing", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestDescribe_PassesConfig(t *testing.T) {
	var infoConfig string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/info" {
			infoConfig = r.URL.Query().Get("config")
		}
		_, _ = w.Write([]byte(`{"splits":[],"dataset_info":{}}`))
	})

	_, err := c.Describe(context.Background(), "npsc", "clean")
	require.NoError(t, err)
	assert.Equal(t, "clean", infoConfig)
}

func TestSampleRows(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/first-rows", r.URL.Path)
		assert.Equal(t, "train", r.URL.Query().Get("split"))
		_, _ = w.Write([]byte(`{"features":[],"rows":[
			{"row_idx":0,"row":{"id":"u1","text":"Hun går til skolen"}},
			{"row_idx":1,"row":{"id":"u2","text":"Vi kom hjem"}},
			{"row_idx":2,"row":{"id":"u3","text":"ikke med"}}
		]}`))
	})

	rows, err := c.SampleRows(context.Background(), "npsc", "default", "train", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2, "limit caps the rows returned")

	cells := rows[0].Cells()
	require.Len(t, cells, 2)
	assert.Equal(t, "id", cells[0].Name(), "cell order follows the row object")
	assert.Equal(t, "text", cells[1].Name())
	assert.Equal(t, `"Hun går til skolen"`, string(cells[1].Value()))
	assert.Equal(t, 1, rows[1].Index())
}

func TestClient_SendsToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"splits":[],"dataset_info":{}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithToken("hf_secret"))
	_, err := c.Describe(context.Background(), "gated", "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer hf_secret", auth)
}
