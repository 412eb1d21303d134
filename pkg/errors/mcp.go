package errors

import (
	"fmt"
	"strings"
)

// LookupErrorData contains structured data for lookup failures so callers
// can recover the missing identifier programmatically.
type LookupErrorData struct {
	Kind       string `json:"kind"`
	Identifier string `json:"identifier"`
}

// SequenceErrorData contains structured data for protocol-sequencing errors
type SequenceErrorData struct {
	Method string `json:"method,omitempty"`
	State  string `json:"state,omitempty"`
}

// VersionErrorData contains structured data for version negotiation errors
type VersionErrorData struct {
	Requested string   `json:"requested"`
	Supported []string `json:"supported"`
}

// MethodNotFound creates an error for an unknown method name
func MethodNotFound(method string) MCPError {
	return NewErrorf(CodeMethodNotFound, CategoryRouting, SeverityError,
		"method not found: %s", method)
}

// InvalidParams creates an error for malformed or missing parameters
func InvalidParams(method, reason string) MCPError {
	return NewErrorf(CodeInvalidParams, CategoryValidation, SeverityError,
		"invalid params for %s: %s", method, reason)
}

// InvalidRequestf creates an invalid-request error with a formatted message
func InvalidRequestf(format string, args ...interface{}) MCPError {
	return NewErrorf(CodeInvalidRequest, CategoryProtocol, SeverityError, format, args...)
}

// ParseErrorf creates a parse error wrapping the decode failure
func ParseErrorf(cause error) MCPError {
	return WrapError(cause, CodeParseError, "parse error", CategoryProtocol, SeverityError)
}

// ToolNotFound creates an error naming the missing tool identifier
func ToolNotFound(name string) MCPError {
	return NewErrorf(CodeToolNotFound, CategoryNotFound, SeverityError,
		"tool not found: %s", name).
		WithData(&LookupErrorData{Kind: "tool", Identifier: name})
}

// ResourceNotFound creates an error naming the missing resource uri
func ResourceNotFound(uri string) MCPError {
	return NewErrorf(CodeResourceNotFound, CategoryNotFound, SeverityError,
		"resource not found: %s", uri).
		WithData(&LookupErrorData{Kind: "resource", Identifier: uri})
}

// PromptNotFound creates an error naming the missing prompt identifier
func PromptNotFound(name string) MCPError {
	return NewErrorf(CodePromptNotFound, CategoryNotFound, SeverityError,
		"prompt not found: %s", name).
		WithData(&LookupErrorData{Kind: "prompt", Identifier: name})
}

// NotInitialized creates an error for a method that arrived before the
// session reached Ready. It only describes the rejection; the session
// state does not change.
func NotInitialized(method, state string) MCPError {
	return NewErrorf(CodeServerNotInitialized, CategorySequencing, SeverityError,
		"method %s requires an initialized session", method).
		WithData(&SequenceErrorData{Method: method, State: state})
}

// ShuttingDown creates an error for a request that arrived after shutdown began
func ShuttingDown(method string) MCPError {
	return NewErrorf(CodeServerShuttingDown, CategorySequencing, SeverityWarning,
		"server is shutting down, rejecting %s", method).
		WithData(&SequenceErrorData{Method: method})
}

// AlreadyInitialized creates an error for a duplicate initialize request
func AlreadyInitialized() MCPError {
	return NewError(CodeAlreadyInitialized,
		"session already initialized; renegotiation is not permitted",
		CategorySequencing, SeverityError)
}

// VersionMismatch creates an error for an unsupported protocol revision
func VersionMismatch(requested string, supported []string) MCPError {
	return NewErrorf(CodeVersionMismatch, CategoryProtocol, SeverityCritical,
		"unsupported protocol version %q (supported: %s)", requested, strings.Join(supported, ", ")).
		WithData(&VersionErrorData{Requested: requested, Supported: supported})
}

// HandlerError wraps a failure raised by an application handler. Codes in
// the application range pass through untouched; everything else is
// normalized to an internal error for this request.
func HandlerError(method string, cause error) MCPError {
	if mcpErr, ok := AsMCPError(cause); ok {
		return mcpErr
	}
	return WrapError(cause, CodeInternalError,
		fmt.Sprintf("handler for %s failed", method),
		CategoryHandler, SeverityError)
}

// HandlerPanic converts a recovered panic value into an internal error
// scoped to the one request whose handler faulted.
func HandlerPanic(method string, recovered interface{}) MCPError {
	return NewErrorf(CodeInternalError, CategoryHandler, SeverityCritical,
		"handler for %s panicked", method).
		WithDetail(fmt.Sprintf("%v", recovered))
}

// TransportError wraps an I/O failure on the byte channel. Transport
// failures are fatal to the session.
func TransportError(operation string, cause error) MCPError {
	return WrapError(cause, CodeTransportError,
		fmt.Sprintf("transport %s failed", operation),
		CategoryTransport, SeverityCritical)
}

// Internal creates an internal error for a failure inside the runtime itself
func Internal(operation string, cause error) MCPError {
	return WrapError(cause, CodeInternalError,
		fmt.Sprintf("internal error during %s", operation),
		CategoryInternal, SeverityError)
}

// ApplicationError creates a handler-defined domain error. The code must
// fall inside the application range; out-of-range codes are clamped to
// CodeInternalError so malformed handlers cannot collide with protocol
// codes.
func ApplicationError(code int, message string) MCPError {
	if !IsApplicationCode(code) {
		code = CodeInternalError
	}
	return NewError(code, message, CategoryHandler, SeverityError)
}
