package palaceservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GharsallahDev/memory-palace/internal/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.HTTPPort = 5055

	srv := newHTTPServer(context.Background(), cfg, nil)
	assert.Equal(t, "127.0.0.1:5055", srv.Addr)
	assert.Zero(t, srv.WriteTimeout, "model calls must not be cut off by a write deadline")
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)

	cfg.HTTPWriteTimeoutSeconds = 90
	srv = newHTTPServer(context.Background(), cfg, nil)
	assert.Equal(t, 90*time.Second, srv.WriteTimeout)
}

func TestNewSpeechClient(t *testing.T) {
	assert.NotNil(t, newSpeechClient(config.NewForTesting()))
}
