package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fragen-dev/fragen/pkg/chat"
	"github.com/fragen-dev/fragen/pkg/config"
)

// setupTestServer starts an in-process MCP server with the given tools
// and returns a client connected to it via in-memory transports.
func setupTestServer(t *testing.T, serverTools map[string]mcp.ToolHandler) *Client {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "test-server", Version: "1.0.0"},
		nil,
	)

	for name, handler := range serverTools {
		server.AddTool(
			&mcp.Tool{
				Name:        name,
				Description: "Test tool: " + name,
				InputSchema: map[string]any{"type": "object"},
			},
			handler,
		)
	}

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()
	go func() {
		_ = server.Run(ctx, serverTransport)
	}()

	client := NewClient(config.MCPServerConfig{Name: "test-server"})
	if err := client.ConnectWithTransport(ctx, clientTransport); err != nil {
		t.Fatalf("ConnectWithTransport failed: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func textTool(text string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

func toolCall(id, name, args string) chat.ToolCall {
	return chat.ToolCall{
		ID:   id,
		Type: "function",
		Function: chat.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func messageContent(t *testing.T, msg chat.Message) string {
	t.Helper()
	if msg.Role != chat.RoleTool {
		t.Fatalf("expected tool role, got %q", msg.Role)
	}
	if msg.Content == nil {
		t.Fatal("expected non-nil message content")
	}
	return *msg.Content
}

func TestClientTools(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"get_weather": textTool("sunny"),
		"get_time":    textTool("12:00"),
	})

	defs, err := client.Tools(context.Background())
	if err != nil {
		t.Fatalf("Tools failed: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(defs))
	}

	names := map[string]bool{}
	for _, def := range defs {
		names[def.Function.Name] = true
		if def.Type != "function" {
			t.Errorf("expected type 'function', got %q for tool %q", def.Type, def.Function.Name)
		}
		if def.Function.Parameters == nil {
			t.Errorf("expected parameters schema for tool %q", def.Function.Name)
		}
	}
	if !names["get_weather"] || !names["get_time"] {
		t.Errorf("missing expected tools, got %v", names)
	}

	// Discovery is cached; a second call returns the same set.
	defs2, err := client.Tools(context.Background())
	if err != nil {
		t.Fatalf("cached Tools failed: %v", err)
	}
	if len(defs2) != len(defs) {
		t.Error("cached tools mismatch")
	}
}

func TestClientCall(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"greet": func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, err
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Hello, " + args.Name + "!"}},
			}, nil
		},
	})

	msg, err := client.Call(context.Background(), toolCall("call_123", "greet", `{"name":"World"}`))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if msg.ToolCallID != "call_123" {
		t.Errorf("expected tool call ID 'call_123', got %q", msg.ToolCallID)
	}
	if got := messageContent(t, msg); got != "Hello, World!" {
		t.Errorf("expected 'Hello, World!', got %q", got)
	}
}

func TestClientCallInvalidArguments(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"greet": textTool("hi"),
	})

	msg, err := client.Call(context.Background(), toolCall("call_bad", "greet", `{not json`))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got := messageContent(t, msg); got == "" {
		t.Error("expected error text in message content")
	}
}

func TestClientCallToolError(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"failing_tool": func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "something went wrong"}},
				IsError: true,
			}, nil
		},
	})

	msg, err := client.Call(context.Background(), toolCall("call_err", "failing_tool", ""))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if got := messageContent(t, msg); got != "something went wrong" {
		t.Errorf("expected error output 'something went wrong', got %q", got)
	}
}

func TestRegistryRoutesAcrossServers(t *testing.T) {
	clientA := setupTestServer(t, map[string]mcp.ToolHandler{
		"tool_a": textTool("from server A"),
	})
	clientB := setupTestServer(t, map[string]mcp.ToolHandler{
		"tool_b": textTool("from server B"),
	})

	registry := NewRegistry(map[string]*Client{
		"server-a": clientA,
		"server-b": clientB,
	})
	defer registry.Close()

	ctx := context.Background()
	if !registry.Has(ctx, "tool_a") {
		t.Error("Has should report tool_a")
	}
	if !registry.Has(ctx, "tool_b") {
		t.Error("Has should report tool_b")
	}
	if registry.Has(ctx, "tool_c") {
		t.Error("Has should not report unknown tool_c")
	}

	if defs := registry.Tools(ctx); len(defs) != 2 {
		t.Fatalf("expected 2 aggregated tools, got %d", len(defs))
	}

	msgA, err := registry.Call(ctx, toolCall("call_a", "tool_a", ""))
	if err != nil {
		t.Fatalf("Call tool_a failed: %v", err)
	}
	if got := messageContent(t, msgA); got != "from server A" {
		t.Errorf("tool_a: expected 'from server A', got %q", got)
	}

	msgB, err := registry.Call(ctx, toolCall("call_b", "tool_b", ""))
	if err != nil {
		t.Fatalf("Call tool_b failed: %v", err)
	}
	if got := messageContent(t, msgB); got != "from server B" {
		t.Errorf("tool_b: expected 'from server B', got %q", got)
	}
}

func TestRegistryUnknownTool(t *testing.T) {
	client := setupTestServer(t, map[string]mcp.ToolHandler{
		"known_tool": textTool("ok"),
	})

	registry := NewRegistry(map[string]*Client{"test-server": client})
	defer registry.Close()

	msg, err := registry.Call(context.Background(), toolCall("call_unknown", "nonexistent_tool", ""))
	if err != nil {
		t.Fatalf("Call failed with unexpected error: %v", err)
	}
	if got := messageContent(t, msg); got == "" {
		t.Error("expected error text for unknown tool")
	}
}
