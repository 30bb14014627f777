package anthropic

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

func TestNewOracle(t *testing.T) {
	_, err := NewOracle(Config{})
	assert.Error(t, err)

	o, err := NewOracle(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, o.ModelName())
}

func TestOracle_Label(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Neural"},{"type":"text","text":"Network"}]}`))
	}))
	defer srv.Close()

	o, err := NewOracle(Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	answer, err := o.Label(context.Background(), "tag this")
	require.NoError(t, err)

	assert.Equal(t, "NeuralNetwork", answer)
	assert.Equal(t, domain.DefaultTagSystemPrompt, got.System)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, []messagesMessage{{Role: "user", Content: "tag this"}}, got.Messages)
}

func TestOracle_LabelErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"api error", http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"too long"}}`, "too long"},
		{"no text", http.StatusOK, `{"content":[]}`, "no text content"},
		{"plain status", http.StatusServiceUnavailable, `overloaded`, "status 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			o, err := NewOracle(Config{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = o.Label(context.Background(), "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
