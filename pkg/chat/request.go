package chat

// Request is a Chat Completions request. Zero-valued optional fields are
// omitted from the wire format so backend defaults apply.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	// ReasoningEffort constrains reasoning models: "low", "medium", "high".
	ReasoningEffort string `json:"reasoning_effort,omitempty"`

	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`

	// N is the number of choices to generate per request.
	N *int `json:"n,omitempty"`

	Stream        bool           `json:"stream,omitempty"`
	StreamOptions *StreamOptions `json:"stream_options,omitempty"`

	// Stop holds up to 4 sequences where generation stops.
	Stop []string `json:"stop,omitempty"`

	Seed *int64 `json:"seed,omitempty"`

	// MaxTokens is deprecated in favor of MaxCompletionTokens.
	MaxTokens           *int64 `json:"max_tokens,omitempty"`
	MaxCompletionTokens *int64 `json:"max_completion_tokens,omitempty"`

	PresencePenalty  *float32           `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float32           `json:"frequency_penalty,omitempty"`
	LogitBias        map[string]float32 `json:"logit_bias,omitempty"`

	// User is an end-user identifier for abuse monitoring.
	User string `json:"user,omitempty"`

	Tools []Tool `json:"tools,omitempty"`

	// ToolChoice is "none", "auto", "required", or a ToolChoiceFunction value.
	ToolChoice        any   `json:"tool_choice,omitempty"`
	ParallelToolCalls *bool `json:"parallel_tool_calls,omitempty"`

	// Functions and FunctionCall are the legacy pre-tools API.
	Functions    []FunctionDefinition `json:"functions,omitempty"`
	FunctionCall any                  `json:"function_call,omitempty"`

	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// StreamOptions tunes streaming responses.
type StreamOptions struct {
	// IncludeUsage asks the backend to send a final usage-only chunk.
	IncludeUsage bool `json:"include_usage"`
}

// NewRequest builds a Request for the given model and messages. Optional
// parameters are set with the chainable With* methods.
func NewRequest(model string, messages ...Message) *Request {
	return &Request{Model: model, Messages: messages}
}

// WithTemperature sets the sampling temperature (0 to 2).
func (r *Request) WithTemperature(t float32) *Request {
	r.Temperature = &t
	return r
}

// WithTopP sets the nucleus sampling probability mass.
func (r *Request) WithTopP(p float32) *Request {
	r.TopP = &p
	return r
}

// WithN sets the number of choices to generate.
func (r *Request) WithN(n int) *Request {
	r.N = &n
	return r
}

// WithStop sets the stop sequences.
func (r *Request) WithStop(stop ...string) *Request {
	r.Stop = stop
	return r
}

// WithSeed requests best-effort deterministic sampling.
func (r *Request) WithSeed(seed int64) *Request {
	r.Seed = &seed
	return r
}

// WithMaxCompletionTokens caps the generated answer length.
func (r *Request) WithMaxCompletionTokens(n int64) *Request {
	r.MaxCompletionTokens = &n
	return r
}

// WithPresencePenalty sets the presence penalty (-2 to 2).
func (r *Request) WithPresencePenalty(p float32) *Request {
	r.PresencePenalty = &p
	return r
}

// WithFrequencyPenalty sets the frequency penalty (-2 to 2).
func (r *Request) WithFrequencyPenalty(p float32) *Request {
	r.FrequencyPenalty = &p
	return r
}

// WithUser sets the end-user identifier.
func (r *Request) WithUser(user string) *Request {
	r.User = user
	return r
}

// WithTools declares the tools the model may call.
func (r *Request) WithTools(tools ...Tool) *Request {
	r.Tools = tools
	return r
}

// WithToolChoice controls which tool, if any, the model must call.
func (r *Request) WithToolChoice(choice any) *Request {
	r.ToolChoice = choice
	return r
}

// WithResponseFormat constrains the output format.
func (r *Request) WithResponseFormat(format *ResponseFormat) *Request {
	r.ResponseFormat = format
	return r
}
