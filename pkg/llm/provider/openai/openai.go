// Package openai sends chat completion requests in the OpenAI Chat
// Completions wire format over plain HTTP. It works against OpenAI itself
// and against compatible routers such as OpenRouter.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/logger"
)

// Name is the canonical provider name.
const Name = "openai"

// Provider posts one synchronous request per turn. It never retries.
type Provider struct {
	endpoint llm.Endpoint
	client   *http.Client
	logger   *slog.Logger
}

// Option configures a Provider created with New.
type Option func(*Provider)

// WithHTTPClient overrides the HTTP client. The default client has no
// timeout: a request waits until the endpoint answers or the context ends.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

func New(endpoint llm.Endpoint, opts ...Option) *Provider {
	p := &Provider{
		endpoint: endpoint,
		client:   &http.Client{},
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return Name
}

// Complete sends req and returns the first choice of the response.
//
// Errors are always one of *llm.TransportError, *llm.StatusError or
// *llm.MalformedResponseError.
func (p *Provider) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	body, err := EncodeRequest(req)
	if err != nil {
		return nil, &llm.TransportError{Op: "encoding request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return nil, &llm.TransportError{Op: "creating request", Err: err}
	}
	SetHeaders(httpReq.Header, p.endpoint)

	p.logger.Debug("sending completion request",
		"endpoint", p.endpoint.URL,
		"model", req.Model,
		"message_count", len(req.Messages),
		"api_key", p.endpoint.MaskedKey(),
	)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &llm.TransportError{Op: "sending request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &llm.TransportError{Op: "reading response", Err: err}
	}

	p.logger.Debug("received completion response",
		"status", resp.StatusCode,
		"bytes", len(respBody),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &llm.StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return ParseResponse(respBody)
}

// SetHeaders applies the fixed request headers for endpoint.
func SetHeaders(h http.Header, endpoint llm.Endpoint) {
	h.Set("Authorization", "Bearer "+endpoint.APIKey)
	h.Set("Content-Type", "application/json")
	if endpoint.Referer != "" {
		h.Set("HTTP-Referer", endpoint.Referer)
	}
	if endpoint.Title != "" {
		h.Set("X-Title", endpoint.Title)
	}
}

// EncodeRequest converts req into the Chat Completions JSON body.
func EncodeRequest(req *llm.ChatRequest) ([]byte, error) {
	messages := make([]openaiMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openaiMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return json.Marshal(openaiRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
}

// ParseResponse extracts choices[0].message.content from a successful
// Chat Completions response body.
func ParseResponse(payload []byte) (*llm.ChatResponse, error) {
	var resp openaiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &llm.MalformedResponseError{Reason: "decoding body", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &llm.MalformedResponseError{Reason: "no choices in response"}
	}

	choice := resp.Choices[0]
	content, err := textContent(choice.Message.Content)
	if err != nil {
		return nil, &llm.MalformedResponseError{Reason: "choices[0].message.content", Err: err}
	}

	var usage *llm.Usage
	if resp.Usage != nil {
		usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return &llm.ChatResponse{
		Model:      resp.Model,
		Message:    llm.NewAssistantMessage(content),
		StopReason: choice.FinishReason,
		Usage:      usage,
	}, nil
}

var errMissingContent = errors.New("missing")

func textContent(content any) (string, error) {
	switch c := content.(type) {
	case string:
		return c, nil
	case []any:
		// Array form: concatenate the text parts.
		var b strings.Builder
		for _, item := range c {
			part, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := part["text"].(string); ok {
				b.WriteString(text)
			}
		}
		return b.String(), nil
	case nil:
		return "", errMissingContent
	default:
		return "", errors.New("unexpected content type")
	}
}
