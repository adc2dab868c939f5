package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fragen-dev/fragen/pkg/chat"
	"github.com/fragen-dev/fragen/pkg/config"
	"github.com/fragen-dev/fragen/pkg/debug"
)

// Client wraps an MCP SDK client and session for a single server
// connection. It handles the connection lifecycle, tool discovery,
// and tool execution.
type Client struct {
	cfg     config.MCPServerConfig
	client  *mcp.Client
	session *mcp.ClientSession

	mu            sync.Mutex
	cachedTools   []chat.Tool
	toolsResolved bool
}

// NewClient creates a Client for the given server configuration.
// Call Connect to establish the connection.
func NewClient(cfg config.MCPServerConfig) *Client {
	return &Client{cfg: cfg}
}

// Connect establishes the MCP connection to the configured server,
// performing the protocol handshake.
func (c *Client) Connect(ctx context.Context) error {
	return c.ConnectWithTransport(ctx, nil)
}

// ConnectWithTransport establishes the MCP connection using the given
// transport. If transport is nil, one is created from the server
// configuration.
func (c *Client) ConnectWithTransport(ctx context.Context, transport mcp.Transport) error {
	c.client = mcp.NewClient(
		&mcp.Implementation{
			Name:    "fragen",
			Version: "1.0.0",
		},
		&mcp.ClientOptions{
			Capabilities: &mcp.ClientCapabilities{},
		},
	)

	if transport == nil {
		t, err := c.createTransport()
		if err != nil {
			return fmt.Errorf("creating transport for %q: %w", c.cfg.Name, err)
		}
		transport = t
	}

	session, err := c.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connecting to MCP server %q: %w", c.cfg.Name, err)
	}
	c.session = session
	debug.Log("mcp", "connected to MCP server", "server", c.cfg.Name)
	return nil
}

// createTransport creates an MCP transport based on the server configuration.
func (c *Client) createTransport() (mcp.Transport, error) {
	httpClient := c.buildHTTPClient()

	switch c.cfg.Transport {
	case "sse":
		transport := &mcp.SSEClientTransport{
			Endpoint: c.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	case "streamable-http", "":
		transport := &mcp.StreamableClientTransport{
			Endpoint: c.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	default:
		return nil, fmt.Errorf("unsupported transport type %q", c.cfg.Transport)
	}
}

// buildHTTPClient returns an HTTP client that injects the configured
// static headers, or nil when no headers are configured.
func (c *Client) buildHTTPClient() *http.Client {
	if len(c.cfg.Headers) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			headers: c.cfg.Headers,
		},
	}
}

// headerTransport is an http.RoundTripper that adds custom headers to
// every request, typically for API keys or bearer tokens.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// Tools queries the server for its available tools, converts them to
// chat tool definitions, and caches the result. Subsequent calls return
// the cached tools.
func (c *Client) Tools(ctx context.Context) ([]chat.Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.toolsResolved {
		return c.cachedTools, nil
	}

	if c.session == nil {
		return nil, fmt.Errorf("MCP client %q not connected", c.cfg.Name)
	}

	var defs []chat.Tool
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools from %q: %w", c.cfg.Name, err)
		}
		def, convErr := convertTool(tool)
		if convErr != nil {
			return nil, fmt.Errorf("converting tool %q from %q: %w", tool.Name, c.cfg.Name, convErr)
		}
		defs = append(defs, def)
	}

	c.cachedTools = defs
	c.toolsResolved = true
	return defs, nil
}

// Call executes a tool call on the server and returns the result as a
// tool-role message carrying the call's ID. Failures the model should
// see, such as malformed arguments or a tool reporting an error, are
// returned as message content rather than Go errors.
func (c *Client) Call(ctx context.Context, call chat.ToolCall) (chat.Message, error) {
	if c.session == nil {
		return chat.Message{}, fmt.Errorf("MCP client %q not connected", c.cfg.Name)
	}

	var args map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return chat.ToolMessage(call.ID, fmt.Sprintf("invalid arguments JSON: %v", err)), nil
		}
	}

	params := &mcp.CallToolParams{
		Name:      call.Function.Name,
		Arguments: args,
	}

	result, err := c.session.CallTool(ctx, params)
	if err != nil {
		return chat.ToolMessage(call.ID, fmt.Sprintf("MCP tool call error: %v", err)), nil
	}

	debug.Trace("mcp", "tool call completed",
		"server", c.cfg.Name,
		"tool", call.Function.Name,
		"is_error", result.IsError,
	)
	return chat.ToolMessage(call.ID, textContent(result)), nil
}

// Close closes the MCP session.
func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// convertTool converts an MCP tool to a chat tool definition.
func convertTool(t *mcp.Tool) (chat.Tool, error) {
	var params json.RawMessage
	if t.InputSchema != nil {
		data, err := json.Marshal(t.InputSchema)
		if err != nil {
			return chat.Tool{}, fmt.Errorf("marshaling input schema: %w", err)
		}
		params = data
	}

	return chat.Tool{
		Type: "function",
		Function: chat.FunctionDefinition{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  params,
		},
	}, nil
}

// textContent joins the text parts of a tool result with newlines.
// Non-text content is ignored.
func textContent(result *mcp.CallToolResult) string {
	var output string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			if output != "" {
				output += "\n"
			}
			output += tc.Text
		}
	}
	return output
}
