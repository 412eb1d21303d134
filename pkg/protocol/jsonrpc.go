package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// JSONRPCVersion is the supported JSON-RPC version
	JSONRPCVersion = "2.0"
)

// ErrorCode represents standard JSON-RPC 2.0 error codes
type ErrorCode int

// Standard error codes as per JSON-RPC 2.0 specification
const (
	ParseError     ErrorCode = -32700
	InvalidRequest ErrorCode = -32600
	MethodNotFound ErrorCode = -32601
	InvalidParams  ErrorCode = -32602
	InternalError  ErrorCode = -32603
)

// JSONRPCMessage represents a JSON-RPC 2.0 message envelope
type JSONRPCMessage struct {
	JSONRPC string `json:"jsonrpc"`
}

// Message is a decoded inbound JSON-RPC envelope: either *Request or
// *Notification. Responses are never decoded on the server side.
type Message interface {
	isMessage()
}

func (*Request) isMessage()      {}
func (*Notification) isMessage() {}

// Request represents a JSON-RPC 2.0 request. ID is always present; it is
// either a string or a number as delivered by the peer.
type Request struct {
	JSONRPCMessage
	ID     interface{}     `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// NewRequest creates a new JSON-RPC 2.0 request
func NewRequest(id interface{}, method string, params interface{}) (*Request, error) {
	paramsJSON, err := marshalOptional(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	return &Request{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: JSONRPCVersion},
		ID:             id,
		Method:         method,
		Params:         paramsJSON,
	}, nil
}

// Response represents a JSON-RPC 2.0 response
type Response struct {
	JSONRPCMessage
	ID     interface{}     `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// NewResponse creates a new JSON-RPC 2.0 success response
func NewResponse(id interface{}, result interface{}) (*Response, error) {
	resultJSON, err := marshalOptional(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &Response{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: JSONRPCVersion},
		ID:             id,
		Result:         resultJSON,
	}, nil
}

// NewErrorResponse creates a new JSON-RPC 2.0 error response
func NewErrorResponse(id interface{}, rpcErr *Error) *Response {
	return &Response{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: JSONRPCVersion},
		ID:             id,
		Error:          rpcErr,
	}
}

// Notification represents a JSON-RPC 2.0 notification. It never carries an
// ID and never receives a response.
type Notification struct {
	JSONRPCMessage
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// NewNotification creates a new JSON-RPC 2.0 notification
func NewNotification(method string, params interface{}) (*Notification, error) {
	paramsJSON, err := marshalOptional(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	return &Notification{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: JSONRPCVersion},
		Method:         method,
		Params:         paramsJSON,
	}, nil
}

// Error represents a JSON-RPC 2.0 error object
type Error struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error implements the error interface so wire errors can travel through
// ordinary Go error returns.
func (e *Error) Error() string {
	return fmt.Sprintf("rpc error: code = %d desc = %s", e.Code, e.Message)
}

// InvalidMessageError reports an envelope that could not be decoded into a
// Request or Notification. When the broken envelope still carried a usable
// correlation id, ID is non-nil so a wire error can be addressed to it.
type InvalidMessageError struct {
	ID     interface{}
	Code   ErrorCode
	Reason string
	cause  error
}

func (e *InvalidMessageError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid message: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("invalid message: %s", e.Reason)
}

func (e *InvalidMessageError) Unwrap() error {
	return e.cause
}

var nullLiteral = []byte("null")

// Decode parses a raw framed message into a *Request or *Notification.
// Malformed envelopes yield an *InvalidMessageError; Decode never panics
// and has no side effects.
func Decode(data []byte) (Message, error) {
	var probe struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &InvalidMessageError{Code: ParseError, Reason: "malformed JSON", cause: err}
	}

	id, hasID, err := decodeID(probe.ID)
	if err != nil {
		return nil, &InvalidMessageError{Code: InvalidRequest, Reason: "id must be a string or number", cause: err}
	}

	if probe.JSONRPC != JSONRPCVersion {
		return nil, &InvalidMessageError{ID: id, Code: InvalidRequest, Reason: fmt.Sprintf("jsonrpc version must be %q", JSONRPCVersion)}
	}

	if probe.Method == "" {
		return nil, &InvalidMessageError{ID: id, Code: InvalidRequest, Reason: "method is required"}
	}

	// Every MCP method takes an object; a scalar or array params member is
	// rejected before it reaches the dispatcher.
	if len(probe.Params) > 0 && !bytes.Equal(probe.Params, nullLiteral) && probe.Params[0] != '{' {
		return nil, &InvalidMessageError{ID: id, Code: InvalidRequest, Reason: "params must be an object"}
	}

	if !hasID {
		return &Notification{
			JSONRPCMessage: JSONRPCMessage{JSONRPC: probe.JSONRPC},
			Method:         probe.Method,
			Params:         probe.Params,
		}, nil
	}

	return &Request{
		JSONRPCMessage: JSONRPCMessage{JSONRPC: probe.JSONRPC},
		ID:             id,
		Method:         probe.Method,
		Params:         probe.Params,
	}, nil
}

// decodeID extracts the correlation id from its raw form. An absent or null
// id marks the message as a notification.
func decodeID(raw json.RawMessage) (interface{}, bool, error) {
	if len(raw) == 0 || bytes.Equal(raw, nullLiteral) {
		return nil, false, nil
	}

	var id interface{}
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, false, err
	}

	switch id.(type) {
	case string, float64:
		return id, true, nil
	default:
		return nil, false, fmt.Errorf("unsupported id type %T", id)
	}
}

func marshalOptional(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
