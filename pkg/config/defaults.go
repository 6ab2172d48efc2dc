package config

const (
	defaultProvider    = "openai"
	defaultEndpoint    = "https://openrouter.ai/api/v1/chat/completions"
	defaultModel       = "deepseek/deepseek-chat-v3-0324:free"
	defaultTemperature = 0.7

	defaultReferer = "https://localhost"
	defaultTitle   = "Terminal Chat"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	temperature := defaultTemperature
	return &Config{
		Version: CurrentV,
		Completion: CompletionConfig{
			Provider:    defaultProvider,
			Endpoint:    defaultEndpoint,
			Model:       defaultModel,
			Temperature: &temperature,
		},
		Client: ClientConfig{
			Referer: defaultReferer,
			Title:   defaultTitle,
		},
	}
}
