package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirecrawlClient_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns markdown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))

			var req scrapeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://example.com/book", req.URL)
			assert.True(t, req.PageOptions.OnlyMainContent)

			w.Write([]byte(`{"success": true, "data": {"markdown": "# Book\nRated 4.5"}}`))
		}))
		defer server.Close()

		c := NewFirecrawlClient(FirecrawlConfig{APIKey: "fc-key", BaseURL: server.URL})
		assert.Equal(t, "# Book\nRated 4.5", c.Fetch(ctx, " https://example.com/book "))
	})

	t.Run("falls back to content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": true, "data": {"content": "plain"}}`))
		}))
		defer server.Close()

		c := NewFirecrawlClient(FirecrawlConfig{BaseURL: server.URL})
		assert.Equal(t, "plain", c.Fetch(ctx, "https://example.com"))
	})

	t.Run("error status yields empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer server.Close()

		c := NewFirecrawlClient(FirecrawlConfig{BaseURL: server.URL})
		assert.Equal(t, "", c.Fetch(ctx, "https://example.com"))
	})

	t.Run("timeout yields empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		c := NewFirecrawlClient(FirecrawlConfig{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
		assert.Equal(t, "", c.Fetch(ctx, "https://example.com"))
	})

	t.Run("blank url skips the request", func(t *testing.T) {
		c := NewFirecrawlClient(FirecrawlConfig{BaseURL: "http://127.0.0.1:1"})
		assert.Equal(t, "", c.Fetch(ctx, "  "))
	})
}

func TestNopFetcher(t *testing.T) {
	assert.Equal(t, "", NopFetcher{}.Fetch(context.Background(), "https://example.com"))
}
