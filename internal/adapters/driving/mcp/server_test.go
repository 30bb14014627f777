package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing tagging service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Links: &mockLinkService{}})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingTaggingService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Tagging: &mockTaggingService{},
			Links:   &mockLinkService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports", func(t *testing.T) {
		assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingTaggingService)
	})

	t.Run("missing link service", func(t *testing.T) {
		ports := &Ports{Tagging: &mockTaggingService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingLinkService)
	})

	t.Run("index is optional", func(t *testing.T) {
		ports := &Ports{Tagging: &mockTaggingService{}, Links: &mockLinkService{}}
		assert.NoError(t, ports.Validate())

		ports.Index = &mockIndexService{}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_ServeHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Tagging: &mockTaggingService{}, Links: &mockLinkService{}})
	require.NoError(t, err)
	assert.NotNil(t, server.Handler())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ServeHTTP(ctx, ln) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunHTTPBadAddr(t *testing.T) {
	server, err := NewServer(&Ports{Tagging: &mockTaggingService{}, Links: &mockLinkService{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "256.0.0.1:bad")
	assert.ErrorContains(t, err, "listen on 256.0.0.1:bad")
}
