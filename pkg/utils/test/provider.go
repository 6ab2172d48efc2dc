package testutils

import (
	"context"
	"sync"

	"github.com/papercomputeco/termchat/pkg/llm"
)

// MockProvider is a test provider that replays scripted outcomes in order
// and records every request it receives.
type MockProvider struct {
	mu       sync.Mutex
	outcomes []Outcome
	requests []*llm.ChatRequest
}

// Outcome is one scripted Complete result. A nil Err returns Reply as the
// assistant message.
type Outcome struct {
	Reply string
	Err   error
}

func NewMockProvider(outcomes ...Outcome) *MockProvider {
	return &MockProvider{outcomes: outcomes}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Complete(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	// Default to an echo once the script runs out
	if len(m.outcomes) == 0 {
		last := req.Messages[len(req.Messages)-1]
		return &llm.ChatResponse{
			Model:   req.Model,
			Message: llm.NewAssistantMessage("echo: " + last.Content),
		}, nil
	}

	next := m.outcomes[0]
	m.outcomes = m.outcomes[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	return &llm.ChatResponse{
		Model:      req.Model,
		Message:    llm.NewAssistantMessage(next.Reply),
		StopReason: "stop",
	}, nil
}

// Requests returns every request received so far.
func (m *MockProvider) Requests() []*llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*llm.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
