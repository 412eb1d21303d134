// Package transport defines the byte-channel abstraction the server core
// runs on, plus the two in-tree implementations: line-delimited JSON over
// an arbitrary reader/writer pair (stdio) and an in-memory loopback for
// tests.
//
// The core treats a Transport as an opaque ordered channel of framed
// messages; it makes no assumption about the carrier.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/joeshaw/envdecode"
)

// Transport is the contract consumed by the server core: receive the next
// framed message or an end-of-stream signal, and send one framed message.
// Receive and Send may be called from different goroutines; Send must be
// safe for concurrent use. Receive returns io.EOF when the peer closes the
// stream.
type Transport interface {
	// Receive blocks until the next framed message is available, the
	// context is canceled, or the stream ends.
	Receive(ctx context.Context) ([]byte, error)

	// Send writes one framed message. Writes are atomic per message.
	Send(data []byte) error

	// Close tears down the transport. Subsequent Receive calls return
	// io.EOF and Send calls fail with ErrClosed.
	Close() error
}

// ErrClosed is returned by Send after the transport has been closed.
var ErrClosed = errors.New("transport is closed")

// Config carries transport tuning knobs. Fields are env-decodable so a
// deployment can override them without code changes.
type Config struct {
	// MaxMessageSize bounds a single framed message in bytes.
	MaxMessageSize int `env:"MCP_MAX_MESSAGE_SIZE,default=4194304"`

	// WriteTimeout bounds a single Send on transports that support it.
	WriteTimeout time.Duration `env:"MCP_WRITE_TIMEOUT,default=30s"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxMessageSize: 4 << 20,
		WriteTimeout:   30 * time.Second,
	}
}

// ConfigFromEnv populates a Config from the environment, falling back to
// the struct tag defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
