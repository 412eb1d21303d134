package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcperrors "github.com/ajitpratap0/mcp-server-go/pkg/errors"
	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

func initParams(version string) *protocol.InitializeParams {
	return &protocol.InitializeParams{
		ProtocolVersion: version,
		ClientInfo:      protocol.Implementation{Name: "test-client", Version: "0.1.0"},
	}
}

func TestSessionHappyPath(t *testing.T) {
	s := newSession()
	assert.Equal(t, StateUninitialized, s.State())
	assert.NotEmpty(t, s.id)

	require.NoError(t, s.beginInitialize(initParams(protocol.ProtocolRevision)))
	assert.Equal(t, StateInitializing, s.State())
	assert.Equal(t, "test-client", s.ClientInfo().Name)
	assert.Equal(t, protocol.ProtocolRevision, s.ProtocolVersion())

	require.NoError(t, s.markReady())
	assert.Equal(t, StateReady, s.State())

	s.beginShutdown()
	assert.Equal(t, StateShuttingDown, s.State())

	s.markClosed()
	assert.Equal(t, StateClosed, s.State())
}

func TestSessionDuplicateInitialize(t *testing.T) {
	s := newSession()
	require.NoError(t, s.beginInitialize(initParams(protocol.ProtocolRevision)))

	err := s.beginInitialize(initParams(protocol.ProtocolRevision))
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeAlreadyInitialized))
	// The first negotiation stands.
	assert.Equal(t, StateInitializing, s.State())

	require.NoError(t, s.markReady())
	err = s.beginInitialize(initParams(protocol.ProtocolRevision))
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeAlreadyInitialized))
}

func TestSessionVersionMismatchLeavesStateUntouched(t *testing.T) {
	s := newSession()

	err := s.beginInitialize(initParams("1066-10-14"))
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeVersionMismatch))
	assert.Equal(t, StateUninitialized, s.State())
	assert.Empty(t, s.ProtocolVersion())
}

func TestSessionInitializeAfterShutdown(t *testing.T) {
	s := newSession()
	s.beginShutdown()

	err := s.beginInitialize(initParams(protocol.ProtocolRevision))
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeServerShuttingDown))
}

func TestSessionMarkReadyRequiresInitializing(t *testing.T) {
	s := newSession()

	err := s.markReady()
	require.Error(t, err)
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidSequence))

	require.NoError(t, s.beginInitialize(initParams(protocol.ProtocolRevision)))
	require.NoError(t, s.markReady())

	// A second initialized notification is also out of sequence.
	err = s.markReady()
	assert.True(t, mcperrors.IsCode(err, mcperrors.CodeInvalidSequence))
}

func TestSessionLogLevelFilter(t *testing.T) {
	s := newSession()

	// Not ready yet, nothing is emitted.
	assert.False(t, s.shouldEmitLog(protocol.LogLevelError))

	require.NoError(t, s.beginInitialize(initParams(protocol.ProtocolRevision)))
	require.NoError(t, s.markReady())

	// Default threshold is info.
	assert.False(t, s.shouldEmitLog(protocol.LogLevelDebug))
	assert.True(t, s.shouldEmitLog(protocol.LogLevelInfo))
	assert.True(t, s.shouldEmitLog(protocol.LogLevelError))

	s.setLogLevel(protocol.LogLevelError)
	assert.False(t, s.shouldEmitLog(protocol.LogLevelWarning))
	assert.True(t, s.shouldEmitLog(protocol.LogLevelError))
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "shutting_down", StateShuttingDown.String())
	assert.Equal(t, "unknown", SessionState(99).String())
}
