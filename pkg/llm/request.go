package llm

// ChatRequest is the payload sent to a completion endpoint for one turn.
// It is rebuilt from the current Conversation on every turn.
type ChatRequest struct {
	// Model identifier (e.g. "deepseek/deepseek-chat-v3-0324:free")
	Model string `json:"model"`

	// Full conversation, oldest first
	Messages []Message `json:"messages"`

	// Sampling temperature
	Temperature float64 `json:"temperature"`

	// Upper bound on generated tokens, omitted when zero
	MaxTokens int `json:"max_tokens,omitempty"`
}

// RequestOptions are the per-session generation settings applied to every
// request built by NewChatRequest.
type RequestOptions struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// NewChatRequest snapshots conv into a fresh ChatRequest. When a system
// prompt is configured it is sent as the first message.
func NewChatRequest(conv *Conversation, opts RequestOptions) *ChatRequest {
	history := conv.Messages()

	messages := history
	if opts.SystemPrompt != "" {
		messages = make([]Message, 0, len(history)+1)
		messages = append(messages, NewSystemMessage(opts.SystemPrompt))
		messages = append(messages, history...)
	}

	return &ChatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
}
