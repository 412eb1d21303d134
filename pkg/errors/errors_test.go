package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

func TestConstructorsCarryCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      MCPError
		code     int
		category Category
	}{
		{"method not found", MethodNotFound("nope"), CodeMethodNotFound, CategoryRouting},
		{"invalid params", InvalidParams("tools/call", "name is required"), CodeInvalidParams, CategoryValidation},
		{"tool not found", ToolNotFound("calc"), CodeToolNotFound, CategoryNotFound},
		{"resource not found", ResourceNotFound("file:///x"), CodeResourceNotFound, CategoryNotFound},
		{"prompt not found", PromptNotFound("greet"), CodePromptNotFound, CategoryNotFound},
		{"not initialized", NotInitialized("ping", "uninitialized"), CodeServerNotInitialized, CategorySequencing},
		{"shutting down", ShuttingDown("ping"), CodeServerShuttingDown, CategorySequencing},
		{"already initialized", AlreadyInitialized(), CodeAlreadyInitialized, CategorySequencing},
		{"version mismatch", VersionMismatch("1.0", []string{"2025-03-26"}), CodeVersionMismatch, CategoryProtocol},
		{"transport", TransportError("read", stderrors.New("broken pipe")), CodeTransportError, CategoryTransport},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code())
			assert.Equal(t, tc.category, tc.err.Category())
			assert.NotEmpty(t, tc.err.Message())
		})
	}
}

func TestLookupErrorsNameTheIdentifier(t *testing.T) {
	err := ToolNotFound("calculator")
	assert.Contains(t, err.Error(), "calculator")

	data, ok := err.Data().(*LookupErrorData)
	require.True(t, ok)
	assert.Equal(t, "tool", data.Kind)
	assert.Equal(t, "calculator", data.Identifier)
}

func TestWithDetailAccumulates(t *testing.T) {
	base := Internal("dispatch", stderrors.New("boom"))
	detailed := base.WithDetail("first").WithDetail("second")

	assert.Contains(t, detailed.Detail(), "first")
	assert.Contains(t, detailed.Detail(), "second")
	// The original is untouched.
	assert.Empty(t, base.Detail())
}

func TestHandlerErrorPassesThroughMCPErrors(t *testing.T) {
	domain := ApplicationError(-1500, "quota exceeded")
	wrapped := HandlerError("tools/call", domain)
	assert.Equal(t, -1500, wrapped.Code())

	plain := HandlerError("tools/call", stderrors.New("boom"))
	assert.Equal(t, CodeInternalError, plain.Code())
	assert.Equal(t, CategoryHandler, plain.Category())
}

func TestApplicationErrorClampsOutOfRangeCodes(t *testing.T) {
	inRange := ApplicationError(-1000, "top of range")
	assert.Equal(t, -1000, inRange.Code())

	outOfRange := ApplicationError(-32601, "trying to spoof a protocol code")
	assert.Equal(t, CodeInternalError, outOfRange.Code())

	positive := ApplicationError(42, "wrong side of zero")
	assert.Equal(t, CodeInternalError, positive.Code())
}

func TestHandlerPanicCarriesRecoveredValue(t *testing.T) {
	err := HandlerPanic("tools/call", "index out of range")
	assert.Equal(t, CodeInternalError, err.Code())
	assert.Equal(t, SeverityCritical, err.Severity())
	assert.Contains(t, err.Detail(), "index out of range")
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := TransportError("write", cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestIsApplicationCode(t *testing.T) {
	assert.True(t, IsApplicationCode(-1000))
	assert.True(t, IsApplicationCode(-1999))
	assert.False(t, IsApplicationCode(-999))
	assert.False(t, IsApplicationCode(-2000))
}

func TestIsStandardJSONRPCCode(t *testing.T) {
	assert.True(t, IsStandardJSONRPCCode(CodeParseError))
	assert.True(t, IsStandardJSONRPCCode(CodeServerNotInitialized))
	assert.False(t, IsStandardJSONRPCCode(-1500))
	assert.False(t, IsStandardJSONRPCCode(0))
}

func TestErrorCodeRegistry(t *testing.T) {
	info, ok := GetErrorCodeInfo(CodeToolNotFound)
	require.True(t, ok)
	assert.Equal(t, "ToolNotFound", info.Name)
	assert.Equal(t, CategoryNotFound, info.Category)

	_, ok = GetErrorCodeInfo(-1500)
	assert.False(t, ok)

	assert.Equal(t, "VersionMismatch", GetErrorCodeName(CodeVersionMismatch))
	assert.Equal(t, "UnknownError", GetErrorCodeName(-1500))
}

func TestToWireMCPError(t *testing.T) {
	wire := ToWire(ToolNotFound("calc"))
	require.NotNil(t, wire)
	assert.Equal(t, protocol.ErrorCode(CodeToolNotFound), wire.Code)
	assert.Contains(t, wire.Message, "calc")
	assert.NotNil(t, wire.Data)
}

func TestToWireInvalidMessage(t *testing.T) {
	_, decodeErr := protocol.Decode([]byte(`{"jsonrpc":"2.0","id":1}`))
	require.Error(t, decodeErr)

	wire := ToWire(decodeErr)
	require.NotNil(t, wire)
	assert.Equal(t, protocol.InvalidRequest, wire.Code)
}

func TestToWirePlainError(t *testing.T) {
	wire := ToWire(stderrors.New("something odd"))
	require.NotNil(t, wire)
	assert.Equal(t, protocol.InternalError, wire.Code)

	assert.Nil(t, ToWire(nil))
}
