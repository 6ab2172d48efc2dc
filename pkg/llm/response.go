package llm

// ChatResponse is the provider-agnostic result of a successful completion.
type ChatResponse struct {
	// Model that generated the response, as reported by the endpoint
	Model string `json:"model"`

	// The assistant's reply
	Message Message `json:"message"`

	// Stop reason (e.g., "stop", "length")
	StopReason string `json:"stop_reason,omitempty"`

	// Token usage, when the endpoint reports it
	Usage *Usage `json:"usage,omitempty"`
}

// Usage contains token counts reported by the endpoint.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}
