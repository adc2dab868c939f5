package chat

import "errors"

var (
	// ErrDifferentCompletionIDs is returned when merging deltas that
	// belong to different completions.
	ErrDifferentCompletionIDs = errors.New("different completion ids")

	// ErrDifferentChoiceIndices is returned when a choice delta is merged
	// into a choice with a different index.
	ErrDifferentChoiceIndices = errors.New("different completion choice indices")

	// ErrFunctionCallTypeMismatch is reserved for backends that stream
	// function call arguments as non-string JSON. No current backend does.
	ErrFunctionCallTypeMismatch = errors.New("function call argument type mismatch")

	// ErrEmptyStream is returned by Accumulate when the stream closed
	// before delivering a single delta.
	ErrEmptyStream = errors.New("stream contained no completion deltas")
)

// Merge folds other into c. Choices are matched by index; a choice index
// not yet seen is appended, so multi-choice (n>1) streams accumulate
// correctly. The completion ID is adopted from the first delta that
// carries one; after that, a differing ID fails without mutating c.
func (c *ChatCompletionDelta) Merge(other *ChatCompletionDelta) error {
	switch {
	case other.ID == c.ID:
	case c.ID == "":
		c.ID = other.ID
	default:
		return ErrDifferentCompletionIDs
	}

	if c.Object == "" {
		c.Object = other.Object
	}
	if c.Created == 0 {
		c.Created = other.Created
	}
	if c.Model == "" {
		c.Model = other.Model
	}
	if c.Usage == nil {
		c.Usage = other.Usage
	}

	for i := range other.Choices {
		otherChoice := &other.Choices[i]
		merged := false
		for j := range c.Choices {
			if c.Choices[j].Index != otherChoice.Index {
				continue
			}
			if err := c.Choices[j].Merge(otherChoice); err != nil {
				return err
			}
			merged = true
			break
		}
		if !merged {
			c.Choices = append(c.Choices, otherChoice.clone())
		}
	}
	return nil
}

// Merge folds other into c. The finish reason is first-write-wins: once a
// choice has finished, later fragments cannot change the reason.
func (c *ChoiceDelta) Merge(other *ChoiceDelta) error {
	if c.Index != other.Index {
		return ErrDifferentChoiceIndices
	}
	if c.FinishReason == "" {
		c.FinishReason = other.FinishReason
	}
	return c.Delta.Merge(&other.Delta)
}

// Merge folds other into m. Scalar fields are first-write-wins; content
// and tool call arguments are concatenated. Tool call fragments are
// matched by their declared index field, not by list position.
func (m *MessageDelta) Merge(other *MessageDelta) error {
	if m.Role == "" {
		m.Role = other.Role
	}
	if m.Name == "" {
		m.Name = other.Name
	}
	if m.ToolCallID == "" {
		m.ToolCallID = other.ToolCallID
	}

	if other.Content != nil {
		if m.Content == nil {
			s := *other.Content
			m.Content = &s
		} else {
			*m.Content += *other.Content
		}
	}

	if other.FunctionCall != nil {
		if m.FunctionCall == nil {
			fc := *other.FunctionCall
			m.FunctionCall = &fc
		} else {
			if m.FunctionCall.Name == "" {
				m.FunctionCall.Name = other.FunctionCall.Name
			}
			m.FunctionCall.Arguments += other.FunctionCall.Arguments
		}
	}

	for _, fragment := range other.ToolCalls {
		slot := -1
		for i := range m.ToolCalls {
			if m.ToolCalls[i].Index == fragment.Index {
				slot = i
				break
			}
		}
		if slot < 0 {
			m.ToolCalls = append(m.ToolCalls, fragment)
			continue
		}
		tc := &m.ToolCalls[slot]
		if tc.ID == "" {
			tc.ID = fragment.ID
		}
		if tc.Type == "" {
			tc.Type = fragment.Type
		}
		if tc.Function.Name == "" {
			tc.Function.Name = fragment.Function.Name
		}
		tc.Function.Arguments += fragment.Function.Arguments
	}
	return nil
}

// clone deep-copies a choice delta so an appended choice does not alias
// the source delta's pointers and slices.
func (c *ChoiceDelta) clone() ChoiceDelta {
	out := ChoiceDelta{
		Index:        c.Index,
		FinishReason: c.FinishReason,
		Delta: MessageDelta{
			Role:       c.Delta.Role,
			Name:       c.Delta.Name,
			ToolCallID: c.Delta.ToolCallID,
		},
	}
	if c.Delta.Content != nil {
		s := *c.Delta.Content
		out.Delta.Content = &s
	}
	if c.Delta.FunctionCall != nil {
		fc := *c.Delta.FunctionCall
		out.Delta.FunctionCall = &fc
	}
	if len(c.Delta.ToolCalls) > 0 {
		out.Delta.ToolCalls = append([]ToolCallDelta(nil), c.Delta.ToolCalls...)
	}
	return out
}
