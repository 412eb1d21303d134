// Package server implements the protocol engine: session lifecycle,
// request dispatch, and the registries behind the tools, resources, and
// prompts categories. A Server is configured once, has handlers
// registered against it, and then serves a single connection over a
// Transport.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/joeshaw/envdecode"

	mcperrors "github.com/ajitpratap0/mcp-server-go/pkg/errors"
	"github.com/ajitpratap0/mcp-server-go/pkg/logging"
	"github.com/ajitpratap0/mcp-server-go/pkg/observability"
	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-server-go/pkg/transport"
)

// Config carries the runtime knobs of the server engine.
type Config struct {
	// ShutdownGracePeriod bounds how long in-flight handlers may run
	// after the session starts shutting down.
	ShutdownGracePeriod time.Duration `env:"MCP_SHUTDOWN_GRACE,default=5s"`

	// OutboundQueueSize is the buffer between request goroutines and
	// the writer.
	OutboundQueueSize int `env:"MCP_OUTBOUND_QUEUE,default=64"`

	// LogLevel is the minimum severity for the server's own logging.
	LogLevel string `env:"MCP_LOG_LEVEL,default=info"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		ShutdownGracePeriod: 5 * time.Second,
		OutboundQueueSize:   64,
		LogLevel:            "info",
	}
}

// ConfigFromEnv populates a Config from the environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Server is the protocol engine for one MCP server identity. It is safe
// to register handlers from multiple goroutines, including while a
// session is being served.
type Server struct {
	name         string
	version      string
	description  string
	instructions string

	logger  logging.Logger
	config  Config
	metrics *observability.Metrics
	tracing *observability.TracingProvider

	registry    *registry
	capOverride *protocol.ServerCapabilities

	mu   sync.RWMutex
	disp *dispatcher
}

// Option configures a Server at construction time.
type Option func(*Server)

// WithDescription sets a human-readable server description.
func WithDescription(desc string) Option {
	return func(s *Server) { s.description = desc }
}

// WithInstructions sets the usage instructions returned to the client at
// initialize time.
func WithInstructions(instructions string) Option {
	return func(s *Server) { s.instructions = instructions }
}

// WithLogger replaces the default stderr logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig replaces the default engine configuration.
func WithConfig(cfg Config) Option {
	return func(s *Server) { s.config = cfg }
}

// WithMetrics attaches a Prometheus metrics provider.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithTracing attaches an OpenTelemetry tracing provider.
func WithTracing(tp *observability.TracingProvider) Option {
	return func(s *Server) { s.tracing = tp }
}

// WithCapabilities overrides the derived capability set. Without this
// option the server advertises exactly the categories that have
// registrations when serving starts.
func WithCapabilities(caps protocol.ServerCapabilities) Option {
	return func(s *Server) { s.capOverride = &caps }
}

// New creates a server with the given identity.
func New(name, version string, opts ...Option) *Server {
	s := &Server{
		name:     name,
		version:  version,
		logger:   logging.New(nil, nil),
		config:   DefaultConfig(),
		registry: newRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.SetLevel(logging.ParseLevel(s.config.LogLevel))
	return s
}

// Name returns the server identity name.
func (s *Server) Name() string { return s.name }

// Version returns the server identity version.
func (s *Server) Version() string { return s.version }

// Description returns the optional server description.
func (s *Server) Description() string { return s.description }

// RegisterTool registers a tool and its handler. Registering a name twice
// replaces the earlier entry and logs a warning.
func (s *Server) RegisterTool(def protocol.Tool, handler ToolHandler) error {
	if def.Name == "" {
		return mcperrors.InvalidRequestf("tool name must not be empty")
	}
	if handler == nil {
		return mcperrors.InvalidRequestf("tool %s has no handler", def.Name)
	}

	if replaced := s.registry.upsertTool(def, handler); replaced {
		s.logger.Warn("replacing existing tool registration",
			logging.String("tool", def.Name))
	}
	s.notifyListChanged(protocol.MethodToolsListChanged)
	return nil
}

// RegisterResource registers a resource descriptor. Reads are served by
// the handler installed with SetResourceHandler.
func (s *Server) RegisterResource(def protocol.Resource) error {
	if def.URI == "" {
		return mcperrors.InvalidRequestf("resource uri must not be empty")
	}

	if replaced := s.registry.upsertResource(def); replaced {
		s.logger.Warn("replacing existing resource registration",
			logging.String("uri", def.URI))
	}
	s.notifyListChanged(protocol.MethodResourcesListChanged)
	return nil
}

// SetResourceHandler installs the handler that serves resources/read for
// all registered resources.
func (s *Server) SetResourceHandler(handler ResourceHandler) {
	s.registry.setResourceHandler(handler)
}

// RegisterPrompt registers a prompt and its handler.
func (s *Server) RegisterPrompt(def protocol.Prompt, handler PromptHandler) error {
	if def.Name == "" {
		return mcperrors.InvalidRequestf("prompt name must not be empty")
	}
	if handler == nil {
		return mcperrors.InvalidRequestf("prompt %s has no handler", def.Name)
	}

	if replaced := s.registry.upsertPrompt(def, handler); replaced {
		s.logger.Warn("replacing existing prompt registration",
			logging.String("prompt", def.Name))
	}
	s.notifyListChanged(protocol.MethodPromptsListChanged)
	return nil
}

// capabilities derives the advertised capability set from the current
// registrations, unless an override was supplied.
func (s *Server) capabilities() protocol.ServerCapabilities {
	if s.capOverride != nil {
		return *s.capOverride
	}

	var caps protocol.ServerCapabilities
	tools, resources, prompts := s.registry.counts()
	if tools > 0 {
		caps.Tools = &protocol.ToolsCapability{ListChanged: true}
	}
	if resources > 0 {
		caps.Resources = &protocol.ResourcesCapability{ListChanged: true}
	}
	if prompts > 0 {
		caps.Prompts = &protocol.PromptsCapability{ListChanged: true}
	}
	caps.Logging = &protocol.LoggingCapability{}
	return caps
}

// Serve runs one session over the given transport and blocks until the
// session ends. The capability set advertised to the client is frozen at
// this point.
func (s *Server) Serve(ctx context.Context, tr transport.Transport) error {
	d := newDispatcher(s, tr, s.capabilities())

	s.mu.Lock()
	if s.disp != nil {
		s.mu.Unlock()
		return mcperrors.InvalidRequestf("server is already serving a session")
	}
	s.disp = d
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.disp = nil
		s.mu.Unlock()
	}()

	s.logger.Info("serving session",
		logging.String("server_name", s.name),
		logging.String("server_version", s.version),
		logging.String("session_id", d.sess.id))

	return d.run(ctx)
}

// Shutdown closes the active session's transport and waits for the
// dispatcher to finish draining, or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	d := s.dispatcher()
	if d == nil {
		return nil
	}

	d.sess.beginShutdown()
	if err := d.tr.Close(); err != nil {
		s.logger.WithError(err).Warn("transport close failed during shutdown")
	}

	select {
	case <-d.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendLog emits a notifications/message to the client, subject to the
// level filter set via logging/setLevel. Logs are silently dropped when
// no session is ready or the level is below the client's threshold.
func (s *Server) SendLog(level protocol.LogLevel, loggerName string, data interface{}) error {
	if !level.Valid() {
		return mcperrors.InvalidRequestf("unknown log level %q", level)
	}

	d := s.dispatcher()
	if d == nil {
		return nil
	}
	if !d.sess.shouldEmitLog(level) {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return mcperrors.Internal("marshal log payload", err)
	}

	return d.sendNotification(protocol.MethodLogMessage, &protocol.LogMessageParams{
		Level:  level,
		Logger: loggerName,
		Data:   payload,
	})
}

// notifyListChanged emits a list_changed notification when a category's
// contents change while a session is ready and the frozen capability
// snapshot advertises change notifications for it.
func (s *Server) notifyListChanged(method string) {
	d := s.dispatcher()
	if d == nil || d.sess.State() != StateReady {
		return
	}

	advertised := false
	switch method {
	case protocol.MethodToolsListChanged:
		advertised = d.caps.Tools != nil && d.caps.Tools.ListChanged
	case protocol.MethodResourcesListChanged:
		advertised = d.caps.Resources != nil && d.caps.Resources.ListChanged
	case protocol.MethodPromptsListChanged:
		advertised = d.caps.Prompts != nil && d.caps.Prompts.ListChanged
	}
	if !advertised {
		return
	}

	if err := d.sendNotification(method, nil); err != nil {
		s.logger.WithError(err).Warn("failed to send list change notification",
			logging.String("method", method))
	}
}

// dispatcher returns the active session dispatcher, nil when idle.
func (s *Server) dispatcher() *dispatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disp
}

// String describes the server identity for diagnostics.
func (s *Server) String() string {
	return fmt.Sprintf("%s/%s", s.name, s.version)
}
