package errors

import (
	stderrors "errors"

	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

// wireData is the structured payload attached to wire errors. Detail is
// surfaced so clients can log something actionable without the server
// leaking its internal error chain.
type wireData struct {
	Detail string      `json:"detail,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// ToWire normalizes any error into the JSON-RPC wire error shape. MCPError
// values keep their code, message, and structured data; invalid-message
// errors from the codec keep their classification; anything else becomes an
// opaque internal error.
func ToWire(err error) *protocol.Error {
	if err == nil {
		return nil
	}

	var invalid *protocol.InvalidMessageError
	if stderrors.As(err, &invalid) {
		return &protocol.Error{
			Code:    invalid.Code,
			Message: invalid.Reason,
		}
	}

	if mcpErr, ok := AsMCPError(err); ok {
		wire := &protocol.Error{
			Code:    protocol.ErrorCode(mcpErr.Code()),
			Message: mcpErr.Message(),
		}
		if mcpErr.Detail() != "" || mcpErr.Data() != nil {
			wire.Data = &wireData{Detail: mcpErr.Detail(), Data: mcpErr.Data()}
		}
		return wire
	}

	return &protocol.Error{
		Code:    protocol.InternalError,
		Message: err.Error(),
	}
}
