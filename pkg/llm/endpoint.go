package llm

// Endpoint describes where and how completion requests are sent.
type Endpoint struct {
	// URL of the chat completions endpoint
	URL string

	// APIKey is sent as a bearer credential
	APIKey string

	// Referer and Title identify the calling application to routers such
	// as OpenRouter (HTTP-Referer and X-Title headers). Empty values are
	// not sent.
	Referer string
	Title   string
}

// MaskedKey returns the API key with everything but its last four
// characters hidden, for logs and status output.
func (e Endpoint) MaskedKey() string {
	if e.APIKey == "" {
		return "<not set>"
	}
	if len(e.APIKey) <= 8 {
		return "****"
	}
	return "****" + e.APIKey[len(e.APIKey)-4:]
}
