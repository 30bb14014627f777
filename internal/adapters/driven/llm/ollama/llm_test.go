package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

func TestNewOracle_Defaults(t *testing.T) {
	o := NewOracle(Config{})

	assert.Equal(t, DefaultBaseURL, o.baseURL)
	assert.Equal(t, DefaultModel, o.ModelName())
	assert.NoError(t, o.Close())
}

func TestOracle_Label(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Biology"},"done":true}`))
	}))
	defer srv.Close()

	o := NewOracle(Config{BaseURL: srv.URL, Temperature: 0.6})

	answer, err := o.Label(context.Background(), "tag this")
	require.NoError(t, err)

	assert.Equal(t, "Biology", answer)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, domain.DefaultTagSystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "tag this", got.Messages[1].Content)
	require.NotNil(t, got.Options)
	assert.Equal(t, DefaultMaxTokens, got.Options.NumPredict)
	assert.InDelta(t, 0.6, got.Options.Temperature, 1e-9)
}

func TestOracle_LabelServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOracle(Config{BaseURL: srv.URL}).Label(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestOracle_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	assert.NoError(t, NewOracle(Config{BaseURL: srv.URL}).Ping(context.Background()))
	assert.Error(t, NewOracle(Config{BaseURL: "http://127.0.0.1:1"}).Ping(context.Background()))
}
