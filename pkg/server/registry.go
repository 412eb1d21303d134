package server

import (
	"sync"

	"github.com/ajitpratap0/mcp-server-go/pkg/protocol"
)

// registry holds the registered tools, resources, and prompts together
// with their handlers. Registration order is preserved for listings;
// re-registering an existing name replaces the entry in place, so the
// position in the list does not move. Reads and writes may race with
// in-flight requests, hence the RWMutex.
type registry struct {
	mu sync.RWMutex

	tools     []toolEntry
	toolIndex map[string]int

	resources     []protocol.Resource
	resourceIndex map[string]int
	// resourceHandler serves resources/read for the whole category.
	resourceHandler ResourceHandler

	prompts     []promptEntry
	promptIndex map[string]int
}

type toolEntry struct {
	def     protocol.Tool
	handler ToolHandler
}

type promptEntry struct {
	def     protocol.Prompt
	handler PromptHandler
}

func newRegistry() *registry {
	return &registry{
		toolIndex:     make(map[string]int),
		resourceIndex: make(map[string]int),
		promptIndex:   make(map[string]int),
	}
}

// upsertTool registers or replaces a tool. It reports whether an existing
// registration was replaced.
func (r *registry) upsertTool(def protocol.Tool, handler ToolHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.toolIndex[def.Name]; ok {
		r.tools[i] = toolEntry{def: def, handler: handler}
		return true
	}
	r.toolIndex[def.Name] = len(r.tools)
	r.tools = append(r.tools, toolEntry{def: def, handler: handler})
	return false
}

// toolHandler looks up the handler for a tool name.
func (r *registry) toolHandler(name string) (ToolHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.toolIndex[name]
	if !ok {
		return nil, false
	}
	return r.tools[i].handler, true
}

// listTools returns a snapshot of the tool descriptors in registration
// order.
func (r *registry) listTools() []protocol.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocol.Tool, len(r.tools))
	for i, e := range r.tools {
		out[i] = e.def
	}
	return out
}

// upsertResource registers or replaces a resource descriptor.
func (r *registry) upsertResource(def protocol.Resource) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.resourceIndex[def.URI]; ok {
		r.resources[i] = def
		return true
	}
	r.resourceIndex[def.URI] = len(r.resources)
	r.resources = append(r.resources, def)
	return false
}

// setResourceHandler installs the category-wide read handler.
func (r *registry) setResourceHandler(handler ResourceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resourceHandler = handler
}

func (r *registry) readHandler() ResourceHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resourceHandler
}

// listResources returns a snapshot of the resource descriptors in
// registration order.
func (r *registry) listResources() []protocol.Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocol.Resource, len(r.resources))
	copy(out, r.resources)
	return out
}

// upsertPrompt registers or replaces a prompt.
func (r *registry) upsertPrompt(def protocol.Prompt, handler PromptHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.promptIndex[def.Name]; ok {
		r.prompts[i] = promptEntry{def: def, handler: handler}
		return true
	}
	r.promptIndex[def.Name] = len(r.prompts)
	r.prompts = append(r.prompts, promptEntry{def: def, handler: handler})
	return false
}

func (r *registry) promptHandler(name string) (PromptHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.promptIndex[name]
	if !ok {
		return nil, false
	}
	return r.prompts[i].handler, true
}

// listPrompts returns a snapshot of the prompt descriptors in
// registration order.
func (r *registry) listPrompts() []protocol.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]protocol.Prompt, len(r.prompts))
	for i, e := range r.prompts {
		out[i] = e.def
	}
	return out
}

// counts reports how many entries each category holds. Used to derive the
// advertised capability set.
func (r *registry) counts() (tools, resources, prompts int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools), len(r.resources), len(r.prompts)
}
