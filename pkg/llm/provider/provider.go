// Package provider defines the completion provider interface and selects an
// implementation by name.
package provider

import (
	"context"

	"github.com/papercomputeco/termchat/pkg/llm"
)

// Provider sends one chat request to a completion endpoint and returns the
// reply. Implementations issue exactly one request per call and do not retry.
type Provider interface {
	// Name returns the canonical provider name (e.g., "openai", "openai-sdk")
	Name() string

	// Complete sends req and blocks until the endpoint answers or ctx ends.
	// Failures are reported as *llm.TransportError, *llm.StatusError or
	// *llm.MalformedResponseError.
	Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
}
