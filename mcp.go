// Package mcp provides a Golang server implementation of the Model
// Context Protocol (2025-03-26).
package mcp

import (
	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
	"github.com/ajitpratap0/mcp-server-go/pkg/server"
	"github.com/ajitpratap0/mcp-server-go/pkg/transport"
	"github.com/ajitpratap0/mcp-server-go/pkg/utils"
)

// Version represents the current version of the module
const Version = "1.0.0"

// These exports provide direct access to the core components
var (
	// NewServer creates a new MCP server
	NewServer = server.New

	// NewStdioTransport creates a new stdio transport
	NewStdioTransport = transport.NewStdioTransport

	// NewStdioTransportWithConfig creates a stdio transport over an
	// arbitrary reader/writer pair
	NewStdioTransportWithConfig = transport.NewStdioTransportWithConfig

	// Pipe creates a connected in-memory transport pair
	Pipe = transport.Pipe

	// GenerateJSONSchema reflects a JSON Schema from a Go struct
	GenerateJSONSchema = utils.GenerateJSONSchema
)

// Server options
var (
	WithDescription  = server.WithDescription
	WithInstructions = server.WithInstructions
	WithLogger       = server.WithLogger
	WithConfig       = server.WithConfig
	WithMetrics      = server.WithMetrics
	WithTracing      = server.WithTracing
	WithCapabilities = server.WithCapabilities
)

// Handler adapters
type (
	// ToolHandlerFunc adapts a function into a tool handler
	ToolHandlerFunc = server.ToolHandlerFunc

	// ResourceHandlerFunc adapts a function into a resource handler
	ResourceHandlerFunc = server.ResourceHandlerFunc

	// PromptHandlerFunc adapts a function into a prompt handler
	PromptHandlerFunc = server.PromptHandlerFunc
)

// Content helpers
var (
	NewTextContent     = protocol.NewTextContent
	NewImageContent    = protocol.NewImageContent
	NewResourceContent = protocol.NewResourceContent
	NewToolResultText  = protocol.NewToolResultText
	NewToolResultError = protocol.NewToolResultError
)
