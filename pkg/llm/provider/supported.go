package provider

import (
	"fmt"
	"log/slog"

	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/llm/provider/openai"
	"github.com/papercomputeco/termchat/pkg/llm/provider/openaisdk"
)

// Supported provider type constants
const (
	OpenAI    = openai.Name
	OpenAISDK = openaisdk.Name
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{OpenAI, OpenAISDK}
}

// New creates a new Provider instance for the given provider type.
// Returns an error if the provider type is not recognized.
func New(providerType string, endpoint llm.Endpoint, logger *slog.Logger) (Provider, error) {
	switch providerType {
	case OpenAI:
		return openai.New(endpoint, openai.WithLogger(logger)), nil
	case OpenAISDK:
		return openaisdk.New(endpoint, openaisdk.WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}
