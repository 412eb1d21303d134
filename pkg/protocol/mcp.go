package protocol

import (
	"encoding/json"
)

const (
	// ProtocolRevision is the newest protocol revision this package speaks
	ProtocolRevision = "2025-03-26"

	// Methods for lifecycle management
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"

	// Methods for server features
	MethodListTools     = "tools/list"
	MethodCallTool      = "tools/call"
	MethodListResources = "resources/list"
	MethodReadResource  = "resources/read"
	MethodListPrompts   = "prompts/list"
	MethodGetPrompt     = "prompts/get"

	// Methods for logging
	MethodSetLogLevel = "logging/setLevel"
	MethodLogMessage  = "notifications/message"

	// List-change notifications (server to client)
	MethodToolsListChanged     = "notifications/tools/list_changed"
	MethodResourcesListChanged = "notifications/resources/list_changed"
	MethodPromptsListChanged   = "notifications/prompts/list_changed"
)

// SupportedProtocolVersions lists the revisions the server negotiates,
// newest first. A request for any revision outside this set is rejected.
var SupportedProtocolVersions = []string{ProtocolRevision, "2024-11-05"}

// IsSupportedProtocolVersion reports whether the given revision can be
// negotiated.
func IsSupportedProtocolVersion(version string) bool {
	for _, v := range SupportedProtocolVersions {
		if v == version {
			return true
		}
	}
	return false
}

// Implementation identifies a protocol participant by name and version.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ClientCapabilities describes the features the client declared during
// initialization. The server stores them verbatim; it only inspects the
// fields it cares about.
type ClientCapabilities struct {
	Experimental map[string]json.RawMessage `json:"experimental,omitempty"`
	Roots        json.RawMessage            `json:"roots,omitempty"`
	Sampling     json.RawMessage            `json:"sampling,omitempty"`
}

// ToolsCapability advertises tool support
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourcesCapability advertises resource support
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// PromptsCapability advertises prompt support
type PromptsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// LoggingCapability advertises support for logging notifications
type LoggingCapability struct{}

// ServerCapabilities is the feature set the server advertises during the
// initialization handshake. It is declared at build time and never
// renegotiated mid-session.
type ServerCapabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
	Prompts   *PromptsCapability   `json:"prompts,omitempty"`
	Logging   *LoggingCapability   `json:"logging,omitempty"`
}

// InitializeParams defines the parameters for the initialize request
type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// InitializeResult defines the response for the initialize request
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
	Instructions    string             `json:"instructions,omitempty"`
}

// InitializedParams is sent as a notification once the client is ready
type InitializedParams struct {
	// Intentionally empty as per specification
}

// PingParams defines parameters for the ping request
type PingParams struct{}

// PingResult is the (empty) response for ping
type PingResult struct{}

// LogLevel specifies the severity of log messages sent to the peer
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

var logLevelRank = map[LogLevel]int{
	LogLevelDebug:   0,
	LogLevelInfo:    1,
	LogLevelWarning: 2,
	LogLevelError:   3,
}

// Valid reports whether the level is one of the defined log levels.
func (l LogLevel) Valid() bool {
	_, ok := logLevelRank[l]
	return ok
}

// AtLeast reports whether l is at least as severe as min.
func (l LogLevel) AtLeast(min LogLevel) bool {
	return logLevelRank[l] >= logLevelRank[min]
}

// SetLogLevelParams defines parameters for the logging/setLevel request
type SetLogLevelParams struct {
	Level LogLevel `json:"level"`
}

// SetLogLevelResult is the (empty) response for logging/setLevel
type SetLogLevelResult struct{}

// LogMessageParams defines parameters for the notifications/message
// notification sent from server to client.
type LogMessageParams struct {
	Level  LogLevel        `json:"level"`
	Logger string          `json:"logger,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Content is a single content item inside a tool result or prompt message.
// Type selects which of the remaining fields are meaningful.
type Content struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	Data     string            `json:"data,omitempty"`
	MimeType string            `json:"mimeType,omitempty"`
	Resource *ResourceContents `json:"resource,omitempty"`
}

// NewTextContent creates a text content item
func NewTextContent(text string) Content {
	return Content{Type: "text", Text: text}
}

// NewImageContent creates an image content item with base64-encoded data
func NewImageContent(data, mimeType string) Content {
	return Content{Type: "image", Data: data, MimeType: mimeType}
}

// NewResourceContent creates an embedded resource content item
func NewResourceContent(resource ResourceContents) Content {
	return Content{Type: "resource", Resource: &resource}
}

// PaginationParams for requests that support pagination
type PaginationParams struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// PaginationResult for responses that support pagination
type PaginationResult struct {
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore,omitempty"`
}
