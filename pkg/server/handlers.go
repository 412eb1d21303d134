package server

import (
	"context"

	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

// ToolHandler executes one named tool. A handler may report a domain
// failure by returning a CallToolResult with IsError set, which still
// produces a successful JSON-RPC response; returning a Go error produces
// a wire error instead.
type ToolHandler interface {
	CallTool(ctx context.Context, params *protocol.CallToolParams) (*protocol.CallToolResult, error)
}

// ToolHandlerFunc adapts a function to the ToolHandler interface.
type ToolHandlerFunc func(ctx context.Context, params *protocol.CallToolParams) (*protocol.CallToolResult, error)

// CallTool implements ToolHandler.
func (f ToolHandlerFunc) CallTool(ctx context.Context, params *protocol.CallToolParams) (*protocol.CallToolResult, error) {
	return f(ctx, params)
}

// ResourceHandler serves resources/read for every registered resource.
// One handler covers the whole category; it receives the requested uri
// and decides how to produce the contents.
type ResourceHandler interface {
	ReadResource(ctx context.Context, params *protocol.ReadResourceParams) (*protocol.ReadResourceResult, error)
}

// ResourceHandlerFunc adapts a function to the ResourceHandler interface.
type ResourceHandlerFunc func(ctx context.Context, params *protocol.ReadResourceParams) (*protocol.ReadResourceResult, error)

// ReadResource implements ResourceHandler.
func (f ResourceHandlerFunc) ReadResource(ctx context.Context, params *protocol.ReadResourceParams) (*protocol.ReadResourceResult, error) {
	return f(ctx, params)
}

// PromptHandler expands one named prompt into its messages.
type PromptHandler interface {
	GetPrompt(ctx context.Context, params *protocol.GetPromptParams) (*protocol.GetPromptResult, error)
}

// PromptHandlerFunc adapts a function to the PromptHandler interface.
type PromptHandlerFunc func(ctx context.Context, params *protocol.GetPromptParams) (*protocol.GetPromptResult, error)

// GetPrompt implements PromptHandler.
func (f PromptHandlerFunc) GetPrompt(ctx context.Context, params *protocol.GetPromptParams) (*protocol.GetPromptResult, error) {
	return f(ctx, params)
}
