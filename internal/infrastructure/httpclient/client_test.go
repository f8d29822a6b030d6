package httpclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garrywilliams/cake/internal/infrastructure/httpclient"
)

func newTestClient() *httpclient.Client {
	return httpclient.NewClient(2*time.Second, zap.NewNop())
}

func TestClient_Call(t *testing.T) {
	t.Run("normalizes a JSON response into an envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("X-Request-Id", "abc123")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 7, "name": "Victoria Sponge"})
		}))
		defer server.Close()

		envelope, err := newTestClient().Call(context.Background(), http.MethodGet, server.URL, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, envelope.StatusCode)
		assert.Equal(t, "abc123", envelope.Headers["X-Request-Id"])

		content, ok := envelope.Content.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(7), content["id"])
		assert.Equal(t, "Victoria Sponge", content["name"])
	})

	t.Run("keeps non-JSON bodies as raw strings", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			io.WriteString(w, "pong")
		}))
		defer server.Close()

		envelope, err := newTestClient().Call(context.Background(), http.MethodGet, server.URL, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "pong", envelope.Content)
	})

	t.Run("sends the body as JSON with query parameters", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "0", r.URL.Query().Get("skip"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Victoria Sponge", body["name"])

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, `{}`)
		}))
		defer server.Close()

		query := map[string]string{"skip": "0", "limit": "10"}
		body := map[string]interface{}{"name": "Victoria Sponge"}

		envelope, err := newTestClient().Call(context.Background(), http.MethodPost, server.URL, body, query)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, envelope.StatusCode)
	})

	t.Run("error statuses still produce an envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"detail":"Not found."}`)
		}))
		defer server.Close()

		envelope, err := newTestClient().Call(context.Background(), http.MethodGet, server.URL, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, envelope.StatusCode)

		content, ok := envelope.Content.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Not found.", content["detail"])
	})

	t.Run("an empty JSON body yields nil content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		envelope, err := newTestClient().Call(context.Background(), http.MethodDelete, server.URL, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, envelope.StatusCode)
		assert.Nil(t, envelope.Content)
	})

	t.Run("a body declared JSON but undecodable is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"broken":`)
		}))
		defer server.Close()

		_, err := newTestClient().Call(context.Background(), http.MethodGet, server.URL, nil, nil)

		assert.Error(t, err)
	})

	t.Run("transport failures are errors", func(t *testing.T) {
		_, err := newTestClient().Call(context.Background(), http.MethodGet, "http://localhost:1/cakes/", nil, nil)

		assert.Error(t, err)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		started := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-started
			cancel()
		}()

		_, err := newTestClient().Call(ctx, http.MethodGet, server.URL, nil, nil)

		assert.Error(t, err)
	})
}
