package server

import (
	"sync"

	"github.com/google/uuid"

	mcperrors "github.com/ajitpratap0/mcp-server-go/pkg/errors"
	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

// SessionState is the lifecycle phase of one client connection.
type SessionState int32

const (
	// StateUninitialized is the state before the initialize request.
	StateUninitialized SessionState = iota

	// StateInitializing means initialize succeeded and the server is
	// waiting for the initialized notification.
	StateInitializing

	// StateReady means the handshake is complete and operational
	// requests are accepted.
	StateReady

	// StateShuttingDown means no new requests are accepted while
	// in-flight handlers drain.
	StateShuttingDown

	// StateClosed is terminal.
	StateClosed
)

// String returns the lower-case state name used in logs and error data.
func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// session tracks the handshake state and negotiated parameters of one
// connection. All transitions are serialized by the mutex; the dispatcher
// consults the state on every inbound message.
type session struct {
	id string

	mu              sync.Mutex
	state           SessionState
	protocolVersion string
	clientInfo      protocol.Implementation
	clientCaps      protocol.ClientCapabilities

	// minLogLevel filters outbound log notifications; set by
	// logging/setLevel.
	minLogLevel protocol.LogLevel
}

func newSession() *session {
	return &session{
		id:          uuid.NewString(),
		state:       StateUninitialized,
		minLogLevel: protocol.LogLevelInfo,
	}
}

// State returns the current lifecycle state.
func (s *session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// beginInitialize validates that an initialize request is legal in the
// current state and, on success, records the negotiated parameters and
// moves to Initializing. The state is unchanged on any failure.
func (s *session) beginInitialize(params *protocol.InitializeParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateUninitialized:
	case StateInitializing, StateReady:
		return mcperrors.AlreadyInitialized()
	default:
		return mcperrors.ShuttingDown(protocol.MethodInitialize)
	}

	if !protocol.IsSupportedProtocolVersion(params.ProtocolVersion) {
		return mcperrors.VersionMismatch(params.ProtocolVersion, protocol.SupportedProtocolVersions)
	}

	s.state = StateInitializing
	s.protocolVersion = params.ProtocolVersion
	s.clientInfo = params.ClientInfo
	s.clientCaps = params.Capabilities
	return nil
}

// markReady moves Initializing to Ready on receipt of the initialized
// notification. Any other starting state is a sequencing violation.
func (s *session) markReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInitializing {
		return mcperrors.NewErrorf(mcperrors.CodeInvalidSequence,
			mcperrors.CategorySequencing, mcperrors.SeverityWarning,
			"initialized notification in state %s", s.state).
			WithData(&mcperrors.SequenceErrorData{
				Method: protocol.MethodInitialized,
				State:  s.state.String(),
			})
	}
	s.state = StateReady
	return nil
}

// beginShutdown moves any live state to ShuttingDown. Safe to call more
// than once.
func (s *session) beginShutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateClosed {
		s.state = StateShuttingDown
	}
}

// markClosed makes the session terminal.
func (s *session) markClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateClosed
}

// ClientInfo returns the client identity recorded at initialize time.
func (s *session) ClientInfo() protocol.Implementation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientInfo
}

// ProtocolVersion returns the negotiated revision, empty before
// initialize.
func (s *session) ProtocolVersion() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.protocolVersion
}

// setLogLevel records the minimum severity for outbound log
// notifications.
func (s *session) setLogLevel(level protocol.LogLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minLogLevel = level
}

// shouldEmitLog reports whether a log notification at the given level
// passes the client's filter. Only a Ready session receives logs.
func (s *session) shouldEmitLog(level protocol.LogLevel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady && level.AtLeast(s.minLogLevel)
}
