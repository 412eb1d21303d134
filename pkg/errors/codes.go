package errors

// JSON-RPC 2.0 Standard Error Codes
const (
	// CodeParseError indicates invalid JSON was received by the server
	CodeParseError int = -32700

	// CodeInvalidRequest indicates the JSON sent is not a valid Request object
	CodeInvalidRequest int = -32600

	// CodeMethodNotFound indicates the method does not exist / is not available
	CodeMethodNotFound int = -32601

	// CodeInvalidParams indicates invalid method parameter(s)
	CodeInvalidParams int = -32602

	// CodeInternalError indicates internal JSON-RPC error
	CodeInternalError int = -32603
)

// MCP-Specific Error Codes
const (
	// Server lifecycle errors (-32000 to -32099)
	CodeServerNotInitialized int = -32000 // Method received before the session is Ready
	CodeServerShuttingDown   int = -32001 // Method received after shutdown began
	CodeAlreadyInitialized   int = -32002 // Second initialize on a negotiated session

	// Lookup errors (-32100 to -32199)
	CodeToolNotFound     int = -32100 // tools/call for an unregistered tool
	CodeResourceNotFound int = -32101 // resources/read for an unregistered uri
	CodePromptNotFound   int = -32102 // prompts/get for an unregistered prompt

	// Protocol errors (-32200 to -32299)
	CodeVersionMismatch int = -32200 // Requested protocol revision unsupported
	CodeInvalidSequence int = -32201 // Message violates the handshake sequence

	// Transport errors (-32300 to -32399)
	CodeTransportError int = -32300 // I/O failure on the byte channel

	// Pagination errors (-32400 to -32499)
	CodeInvalidCursor int = -32400 // Opaque cursor could not be decoded
	CodeInvalidLimit  int = -32401 // Page limit out of range

	// ApplicationErrorBase marks the start of the range reserved for
	// handler-raised domain errors. Codes in [-1999, -1000] pass through
	// the mapper unchanged.
	ApplicationErrorBase int = -1999
	ApplicationErrorTop  int = -1000
)

// ErrorCodeInfo provides human-readable information about error codes
type ErrorCodeInfo struct {
	Code        int
	Name        string
	Description string
	Category    Category
	Severity    Severity
}

var errorCodeRegistry = map[int]ErrorCodeInfo{
	CodeParseError:     {CodeParseError, "ParseError", "Invalid JSON was received", CategoryProtocol, SeverityError},
	CodeInvalidRequest: {CodeInvalidRequest, "InvalidRequest", "Invalid Request object", CategoryProtocol, SeverityError},
	CodeMethodNotFound: {CodeMethodNotFound, "MethodNotFound", "Method does not exist", CategoryRouting, SeverityError},
	CodeInvalidParams:  {CodeInvalidParams, "InvalidParams", "Invalid method parameters", CategoryValidation, SeverityError},
	CodeInternalError:  {CodeInternalError, "InternalError", "Internal JSON-RPC error", CategoryInternal, SeverityError},

	CodeServerNotInitialized: {CodeServerNotInitialized, "ServerNotInitialized", "Session not initialized", CategorySequencing, SeverityError},
	CodeServerShuttingDown:   {CodeServerShuttingDown, "ServerShuttingDown", "Session shutting down", CategorySequencing, SeverityWarning},
	CodeAlreadyInitialized:   {CodeAlreadyInitialized, "AlreadyInitialized", "Session already initialized", CategorySequencing, SeverityError},

	CodeToolNotFound:     {CodeToolNotFound, "ToolNotFound", "Tool not registered", CategoryNotFound, SeverityError},
	CodeResourceNotFound: {CodeResourceNotFound, "ResourceNotFound", "Resource not registered", CategoryNotFound, SeverityError},
	CodePromptNotFound:   {CodePromptNotFound, "PromptNotFound", "Prompt not registered", CategoryNotFound, SeverityError},

	CodeVersionMismatch: {CodeVersionMismatch, "VersionMismatch", "Protocol version mismatch", CategoryProtocol, SeverityCritical},
	CodeInvalidSequence: {CodeInvalidSequence, "InvalidSequence", "Invalid message sequence", CategorySequencing, SeverityError},

	CodeTransportError: {CodeTransportError, "TransportError", "Transport failure", CategoryTransport, SeverityCritical},

	CodeInvalidCursor: {CodeInvalidCursor, "InvalidCursor", "Invalid pagination cursor", CategoryValidation, SeverityError},
	CodeInvalidLimit:  {CodeInvalidLimit, "InvalidLimit", "Invalid pagination limit", CategoryValidation, SeverityError},
}

// GetErrorCodeInfo returns information about an error code
func GetErrorCodeInfo(code int) (ErrorCodeInfo, bool) {
	info, exists := errorCodeRegistry[code]
	return info, exists
}

// GetErrorCodeName returns the name of an error code
func GetErrorCodeName(code int) string {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Name
	}
	return "UnknownError"
}

// IsStandardJSONRPCCode checks if a code is a standard JSON-RPC error code
func IsStandardJSONRPCCode(code int) bool {
	return code >= -32768 && code <= -32000
}

// IsApplicationCode checks if a code falls in the range reserved for
// handler-defined domain errors.
func IsApplicationCode(code int) bool {
	return code >= ApplicationErrorBase && code <= ApplicationErrorTop
}
