package server

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

func noopTool(text string) ToolHandler {
	return ToolHandlerFunc(func(ctx context.Context, params *protocol.CallToolParams) (*protocol.CallToolResult, error) {
		return protocol.NewToolResultText(text), nil
	})
}

func TestRegistryPreservesInsertionOrder(t *testing.T) {
	r := newRegistry()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("tool-%d", i)
		assert.False(t, r.upsertTool(protocol.Tool{Name: name}, noopTool(name)))
	}

	tools := r.listTools()
	require.Len(t, tools, 5)
	for i, tool := range tools {
		assert.Equal(t, fmt.Sprintf("tool-%d", i), tool.Name)
	}
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	r := newRegistry()
	r.upsertTool(protocol.Tool{Name: "alpha"}, noopTool("old"))
	r.upsertTool(protocol.Tool{Name: "beta"}, noopTool("beta"))

	replaced := r.upsertTool(protocol.Tool{Name: "alpha", Description: "v2"}, noopTool("new"))
	assert.True(t, replaced)

	tools := r.listTools()
	require.Len(t, tools, 2)
	assert.Equal(t, "alpha", tools[0].Name)
	assert.Equal(t, "v2", tools[0].Description)

	h, ok := r.toolHandler("alpha")
	require.True(t, ok)
	result, err := h.CallTool(context.Background(), &protocol.CallToolParams{Name: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, "new", result.Content[0].Text)
}

func TestRegistryUnknownLookups(t *testing.T) {
	r := newRegistry()
	_, ok := r.toolHandler("ghost")
	assert.False(t, ok)
	_, ok = r.promptHandler("ghost")
	assert.False(t, ok)
	assert.Nil(t, r.readHandler())
}

func TestRegistryListSnapshotsAreCopies(t *testing.T) {
	r := newRegistry()
	r.upsertResource(protocol.Resource{URI: "res://one"})

	snapshot := r.listResources()
	snapshot[0].URI = "res://mutated"

	assert.Equal(t, "res://one", r.listResources()[0].URI)
}

func TestRegistryCounts(t *testing.T) {
	r := newRegistry()
	r.upsertTool(protocol.Tool{Name: "t"}, noopTool("t"))
	r.upsertResource(protocol.Resource{URI: "res://a"})
	r.upsertResource(protocol.Resource{URI: "res://b"})

	tools, resources, prompts := r.counts()
	assert.Equal(t, 1, tools)
	assert.Equal(t, 2, resources)
	assert.Equal(t, 0, prompts)
}
