package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fragen-dev/fragen/pkg/chat"
	"github.com/fragen-dev/fragen/pkg/config"
)

// Registry aggregates tools from multiple MCP servers and routes tool
// calls to the server that provides them.
type Registry struct {
	mu sync.RWMutex

	// clients maps server name to its connected client.
	clients map[string]*Client

	// toolToServer maps tool name to the server name that provides it.
	toolToServer map[string]string

	// discovered tracks whether discovery has run across all servers.
	discovered bool
}

// NewRegistry creates a Registry over the given connected clients,
// keyed by server name.
func NewRegistry(clients map[string]*Client) *Registry {
	return &Registry{
		clients:      clients,
		toolToServer: make(map[string]string),
	}
}

// Dial connects to every configured MCP server and returns a Registry
// over the resulting clients. A server that fails to connect fails the
// whole call; clients connected so far are closed.
func Dial(ctx context.Context, servers []config.MCPServerConfig) (*Registry, error) {
	clients := make(map[string]*Client, len(servers))
	for _, cfg := range servers {
		c := NewClient(cfg)
		if err := c.Connect(ctx); err != nil {
			for _, connected := range clients {
				_ = connected.Close()
			}
			return nil, err
		}
		clients[cfg.Name] = c
	}
	return NewRegistry(clients), nil
}

// Tools returns all tools discovered across the registered servers,
// suitable for attaching to a chat completion request. Discovery runs
// once; a server that fails discovery is skipped with a logged error.
func (r *Registry) Tools(ctx context.Context) []chat.Tool {
	r.ensureDiscovered(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []chat.Tool
	for _, client := range r.clients {
		client.mu.Lock()
		all = append(all, client.cachedTools...)
		client.mu.Unlock()
	}
	return all
}

// Has reports whether any registered server provides the named tool.
func (r *Registry) Has(ctx context.Context, toolName string) bool {
	r.ensureDiscovered(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.toolToServer[toolName]
	return ok
}

// Call routes the tool call to the server that provides it and returns
// the result as a tool-role message. An unknown tool name yields a
// tool message describing the problem, so the model can recover.
func (r *Registry) Call(ctx context.Context, call chat.ToolCall) (chat.Message, error) {
	r.ensureDiscovered(ctx)

	r.mu.RLock()
	serverName, ok := r.toolToServer[call.Function.Name]
	if !ok {
		r.mu.RUnlock()
		return chat.ToolMessage(call.ID, fmt.Sprintf("no MCP server provides tool %q", call.Function.Name)), nil
	}
	client := r.clients[serverName]
	r.mu.RUnlock()

	return client.Call(ctx, call)
}

// Close closes all client connections, returning the last error seen.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastErr error
	for name, client := range r.clients {
		if err := client.Close(); err != nil {
			slog.Warn("failed to close MCP client", "server", name, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

// ensureDiscovered runs tool discovery across all servers once.
func (r *Registry) ensureDiscovered(ctx context.Context) {
	r.mu.RLock()
	if r.discovered {
		r.mu.RUnlock()
		return
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.discovered {
		return
	}

	for name, client := range r.clients {
		defs, err := client.Tools(ctx)
		if err != nil {
			slog.Error("failed to discover tools from MCP server",
				"server", name,
				"error", err,
			)
			continue
		}

		for _, def := range defs {
			if _, exists := r.toolToServer[def.Function.Name]; exists {
				slog.Warn("duplicate MCP tool name, using first provider",
					"tool", def.Function.Name,
					"server", name,
				)
				continue
			}
			r.toolToServer[def.Function.Name] = name
		}

		slog.Info("discovered MCP tools",
			"server", name,
			"count", len(defs),
		)
	}

	r.discovered = true
}
