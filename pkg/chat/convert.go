package chat

// ChatCompletion converts an accumulated delta into a full completion.
// The conversion is pure and idempotent.
//
// A missing role defaults to assistant, since the assistant is the only
// author of streamed completions. A missing finish reason stays empty,
// which is what a truncated stream produces. Content and tool calls pass
// through as accumulated, including a nil content.
func (d *ChatCompletionDelta) ChatCompletion() ChatCompletion {
	choices := make([]Choice, len(d.Choices))
	for i := range d.Choices {
		choices[i] = Choice{
			Index:        d.Choices[i].Index,
			FinishReason: d.Choices[i].FinishReason,
			Message:      d.Choices[i].Delta.Message(),
		}
	}
	return ChatCompletion{
		ID:      d.ID,
		Object:  d.Object,
		Created: d.Created,
		Model:   d.Model,
		Usage:   d.Usage,
		Choices: choices,
	}
}

// Message converts an accumulated message delta into a complete message.
func (m MessageDelta) Message() Message {
	role := m.Role
	if role == "" {
		role = RoleAssistant
	}

	msg := Message{
		Role:       role,
		Content:    m.Content,
		Name:       m.Name,
		ToolCallID: m.ToolCallID,
	}

	if m.FunctionCall != nil {
		msg.FunctionCall = &FunctionCall{
			Name:      m.FunctionCall.Name,
			Arguments: m.FunctionCall.Arguments,
		}
	}

	if len(m.ToolCalls) > 0 {
		msg.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			callType := tc.Type
			if callType == "" {
				callType = "function"
			}
			msg.ToolCalls[i] = ToolCall{
				ID:   tc.ID,
				Type: callType,
				Function: FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}

	return msg
}
