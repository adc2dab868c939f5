package chat

import (
	"errors"
	"testing"

	"github.com/fragen-dev/fragen/pkg/api"
)

var usageFixture = api.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}

func strptr(s string) *string { return &s }

func contentDelta(id string, index int, content string) ChatCompletionDelta {
	return ChatCompletionDelta{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: 1700000000,
		Model:   "gpt-4o-mini",
		Choices: []ChoiceDelta{
			{Index: index, Delta: MessageDelta{Content: strptr(content)}},
		},
	}
}

func TestMergeContentAppends(t *testing.T) {
	acc := contentDelta("cmpl-1", 0, "Hello")
	next := contentDelta("cmpl-1", 0, ", world")

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if got := *acc.Choices[0].Delta.Content; got != "Hello, world" {
		t.Errorf("content = %q, want %q", got, "Hello, world")
	}
}

func TestMergeDifferentIDs(t *testing.T) {
	acc := contentDelta("cmpl-1", 0, "Hello")
	next := contentDelta("cmpl-other", 0, "!")

	err := acc.Merge(&next)
	if !errors.Is(err, ErrDifferentCompletionIDs) {
		t.Fatalf("Merge() error = %v, want ErrDifferentCompletionIDs", err)
	}
	// The failed merge must not have touched the accumulator.
	if got := *acc.Choices[0].Delta.Content; got != "Hello" {
		t.Errorf("content mutated on failed merge: %q", got)
	}
}

func TestMergeAdoptsFirstNonEmptyID(t *testing.T) {
	acc := ChatCompletionDelta{}
	next := contentDelta("cmpl-1", 0, "Hi")

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if acc.ID != "cmpl-1" {
		t.Errorf("ID = %q, want adopted id", acc.ID)
	}

	// A different id after adoption fails.
	other := contentDelta("cmpl-2", 0, "!")
	if err := acc.Merge(&other); !errors.Is(err, ErrDifferentCompletionIDs) {
		t.Errorf("Merge() error = %v, want ErrDifferentCompletionIDs", err)
	}
}

func TestMergeRoleFirstWriteWins(t *testing.T) {
	acc := ChatCompletionDelta{
		ID:      "cmpl-1",
		Choices: []ChoiceDelta{{Index: 0, Delta: MessageDelta{Role: RoleAssistant}}},
	}
	next := ChatCompletionDelta{
		ID:      "cmpl-1",
		Choices: []ChoiceDelta{{Index: 0, Delta: MessageDelta{Role: RoleUser, Content: strptr("x")}}},
	}

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if got := acc.Choices[0].Delta.Role; got != RoleAssistant {
		t.Errorf("role = %q, want assistant (first write wins)", got)
	}
}

func TestMergeFinishReasonFirstWriteWins(t *testing.T) {
	acc := ChatCompletionDelta{
		ID:      "cmpl-1",
		Choices: []ChoiceDelta{{Index: 0, FinishReason: "stop"}},
	}
	next := ChatCompletionDelta{
		ID:      "cmpl-1",
		Choices: []ChoiceDelta{{Index: 0, FinishReason: "length"}},
	}

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if got := acc.Choices[0].FinishReason; got != "stop" {
		t.Errorf("finish_reason = %q, want %q", got, "stop")
	}
}

func TestMergeNewChoiceIndexAppends(t *testing.T) {
	acc := contentDelta("cmpl-1", 0, "first")
	next := contentDelta("cmpl-1", 1, "second")

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if len(acc.Choices) != 2 {
		t.Fatalf("choices = %d, want 2", len(acc.Choices))
	}
	if *acc.Choices[1].Delta.Content != "second" {
		t.Errorf("choices[1].content = %q", *acc.Choices[1].Delta.Content)
	}

	// The appended choice must not alias the source delta.
	more := contentDelta("cmpl-1", 1, " choice")
	if err := acc.Merge(&more); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if *next.Choices[0].Delta.Content != "second" {
		t.Errorf("source delta mutated: %q", *next.Choices[0].Delta.Content)
	}
	if *acc.Choices[1].Delta.Content != "second choice" {
		t.Errorf("choices[1].content = %q", *acc.Choices[1].Delta.Content)
	}
}

func TestChoiceMergeIndexMismatch(t *testing.T) {
	a := ChoiceDelta{Index: 0}
	b := ChoiceDelta{Index: 1}
	if err := a.Merge(&b); !errors.Is(err, ErrDifferentChoiceIndices) {
		t.Errorf("Merge() error = %v, want ErrDifferentChoiceIndices", err)
	}
}

func TestMergeToolCallArgumentsConcat(t *testing.T) {
	acc := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{
				ToolCalls: []ToolCallDelta{
					{Index: 0, ID: "call_1", Type: "function", Function: FunctionCallDelta{Name: "get_weather", Arguments: "ab"}},
				},
			},
		}},
	}
	next := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{
				ToolCalls: []ToolCallDelta{
					{Index: 0, Function: FunctionCallDelta{Arguments: "cd"}},
				},
			},
		}},
	}

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	tc := acc.Choices[0].Delta.ToolCalls[0]
	if tc.Function.Arguments != "abcd" {
		t.Errorf("arguments = %q, want %q", tc.Function.Arguments, "abcd")
	}
	if tc.ID != "call_1" || tc.Function.Name != "get_weather" {
		t.Errorf("scalars lost: %+v", tc)
	}
}

func TestMergeToolCallsKeyedByDeclaredIndex(t *testing.T) {
	// Fragments arrive with only the second tool call present; the merge
	// key is the declared index field, not the list position.
	acc := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{
				ToolCalls: []ToolCallDelta{
					{Index: 0, ID: "call_a", Function: FunctionCallDelta{Name: "alpha", Arguments: `{"a":`}},
					{Index: 1, ID: "call_b", Function: FunctionCallDelta{Name: "beta", Arguments: `{"b":`}},
				},
			},
		}},
	}
	next := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{
				ToolCalls: []ToolCallDelta{
					{Index: 1, Function: FunctionCallDelta{Arguments: `2}`}},
				},
			},
		}},
	}

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	calls := acc.Choices[0].Delta.ToolCalls
	if calls[0].Function.Arguments != `{"a":` {
		t.Errorf("call 0 arguments = %q", calls[0].Function.Arguments)
	}
	if calls[1].Function.Arguments != `{"b":2}` {
		t.Errorf("call 1 arguments = %q", calls[1].Function.Arguments)
	}
}

func TestMergeUnseenToolCallIndexAppends(t *testing.T) {
	acc := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{
				ToolCalls: []ToolCallDelta{{Index: 0, ID: "call_a"}},
			},
		}},
	}
	next := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{
				ToolCalls: []ToolCallDelta{{Index: 1, ID: "call_b"}},
			},
		}},
	}

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if len(acc.Choices[0].Delta.ToolCalls) != 2 {
		t.Fatalf("tool calls = %d, want 2", len(acc.Choices[0].Delta.ToolCalls))
	}
}

func TestMergeFunctionCallArgumentsConcat(t *testing.T) {
	acc := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{FunctionCall: &FunctionCallDelta{Name: "lookup", Arguments: `{"q":"go`}},
		}},
	}
	next := ChatCompletionDelta{
		ID: "cmpl-1",
		Choices: []ChoiceDelta{{
			Index: 0,
			Delta: MessageDelta{FunctionCall: &FunctionCallDelta{Arguments: `lang"}`}},
		}},
	}

	if err := acc.Merge(&next); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	fc := acc.Choices[0].Delta.FunctionCall
	if fc.Name != "lookup" || fc.Arguments != `{"q":"golang"}` {
		t.Errorf("function_call = %+v", fc)
	}
}

func TestMergeAdoptsUsage(t *testing.T) {
	acc := contentDelta("cmpl-1", 0, "Hi")
	usage := usageFixture
	final := ChatCompletionDelta{
		ID:    "cmpl-1",
		Usage: &usage,
	}

	if err := acc.Merge(&final); err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if acc.Usage == nil || acc.Usage.TotalTokens != 15 {
		t.Errorf("usage = %+v", acc.Usage)
	}
}
