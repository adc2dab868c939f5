// Package mcp connects the SDK to external MCP (Model Context Protocol)
// servers. It discovers the tools those servers expose, converts them to
// chat tool definitions so they can be attached to completion requests,
// and executes the model's tool calls against the owning server, turning
// each result into a tool-role chat message.
//
// The package wraps the official MCP Go SDK
// (github.com/modelcontextprotocol/go-sdk). A Client manages one server
// connection; a Registry aggregates several clients and routes tool calls
// by tool name.
package mcp
