package chat

import (
	"github.com/fragen-dev/fragen/pkg/api"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
	RoleTool      Role = "tool"
	RoleDeveloper Role = "developer"
)

// Completion is the shared envelope for both full completions and
// streaming chunks; the two differ only in their choice type.
type Completion[C any] struct {
	ID      string     `json:"id"`
	Object  string     `json:"object"`
	Created int64      `json:"created"`
	Model   string     `json:"model"`
	Choices []C        `json:"choices"`
	Usage   *api.Usage `json:"usage,omitempty"`
}

// ChatCompletion is a full (buffered) chat completion response.
type ChatCompletion Completion[Choice]

// ChatCompletionDelta is a single streaming chunk. Deltas with the same
// completion ID can be merged; see Merge.
type ChatCompletionDelta Completion[ChoiceDelta]

// Choice is one generated alternative in a full completion.
type Choice struct {
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason"`
	Message      Message `json:"message"`
}

// ChoiceDelta is one generated alternative in a streaming chunk.
// FinishReason is empty until the model stops generating this choice.
type ChoiceDelta struct {
	Index        int          `json:"index"`
	FinishReason string       `json:"finish_reason,omitempty"`
	Delta        MessageDelta `json:"delta"`
}

// Message is a complete chat message.
//
// Content is a pointer because the API distinguishes an absent content
// field (tool call messages) from an empty string.
type Message struct {
	Role         Role          `json:"role"`
	Content      *string       `json:"content"`
	Name         string        `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	ToolCallID   string        `json:"tool_call_id,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
}

// MessageDelta is an incremental fragment of a message. All fields are
// optional; successive fragments are folded together by Merge.
type MessageDelta struct {
	Role         Role               `json:"role,omitempty"`
	Content      *string            `json:"content,omitempty"`
	Name         string             `json:"name,omitempty"`
	FunctionCall *FunctionCallDelta `json:"function_call,omitempty"`
	ToolCallID   string             `json:"tool_call_id,omitempty"`
	ToolCalls    []ToolCallDelta    `json:"tool_calls,omitempty"`
}

// FunctionCall is a completed function invocation request from the model.
//
// Deprecated: the API replaced function calls with tool calls. Kept for
// backends that still emit the legacy field.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FunctionCallDelta is an incremental fragment of a legacy function call.
type FunctionCallDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolCall is a completed tool invocation request from the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// ToolCallDelta is an incremental fragment of a tool call. Index is the
// tool call's position within the message and is the merge key: argument
// fragments for the same index are concatenated.
type ToolCallDelta struct {
	Index    int               `json:"index"`
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type,omitempty"`
	Function FunctionCallDelta `json:"function"`
}

// Tool declares a tool the model may call.
type Tool struct {
	Type     string             `json:"type"`
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes a callable function, with its parameters
// as a JSON Schema object.
type FunctionDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  any    `json:"parameters,omitempty"`
	Strict      *bool  `json:"strict,omitempty"`
}

// Tool choice values for Request.ToolChoice. A specific function can be
// forced with ToolChoiceFunction.
const (
	ToolChoiceNone     = "none"
	ToolChoiceAuto     = "auto"
	ToolChoiceRequired = "required"
)

// ToolChoiceFunction forces the model to call the named function.
func ToolChoiceFunction(name string) any {
	return map[string]any{
		"type": "function",
		"function": map[string]string{
			"name": name,
		},
	}
}

// ResponseFormat constrains the model's output format.
type ResponseFormat struct {
	Type       string            `json:"type"` // "text", "json_object", or "json_schema"
	JSONSchema *JSONSchemaFormat `json:"json_schema,omitempty"`
}

// JSONSchemaFormat describes a structured-output schema.
type JSONSchemaFormat struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      any    `json:"schema,omitempty"`
	Strict      *bool  `json:"strict,omitempty"`
}

// ResponseFormatText requests plain text output (the default).
func ResponseFormatText() *ResponseFormat {
	return &ResponseFormat{Type: "text"}
}

// ResponseFormatJSONObject enables JSON mode. The prompt must still
// instruct the model to produce JSON.
func ResponseFormatJSONObject() *ResponseFormat {
	return &ResponseFormat{Type: "json_object"}
}

// ResponseFormatJSONSchema enables structured output against a schema.
func ResponseFormatJSONSchema(schema JSONSchemaFormat) *ResponseFormat {
	return &ResponseFormat{Type: "json_schema", JSONSchema: &schema}
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: &content}
}

// DeveloperMessage builds a developer-role message (the o-series
// replacement for system messages).
func DeveloperMessage(content string) Message {
	return Message{Role: RoleDeveloper, Content: &content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: &content}
}

// AssistantMessage builds an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: &content}
}

// ToolMessage builds a tool-role message carrying the result of the tool
// call identified by toolCallID.
func ToolMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: &content, ToolCallID: toolCallID}
}

// FunctionMessage builds a legacy function-role result message.
func FunctionMessage(name, content string) Message {
	return Message{Role: RoleFunction, Content: &content, Name: name}
}
