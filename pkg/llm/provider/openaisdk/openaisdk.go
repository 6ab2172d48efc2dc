// Package openaisdk sends chat completion requests through the official
// openai-go client. It targets any OpenAI-compatible endpoint by deriving the
// client base URL from the configured completions URL.
package openaisdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/logger"
)

// Name is the canonical provider name.
const Name = "openai-sdk"

const completionsPath = "/chat/completions"

type Provider struct {
	client     openai.Client
	httpClient *http.Client
	endpoint   llm.Endpoint
	logger     *slog.Logger
}

// Option configures a Provider created with New.
type Option func(*Provider)

// WithHTTPClient overrides the HTTP client handed to openai-go.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

func New(endpoint llm.Endpoint, opts ...Option) (*Provider, error) {
	p := &Provider{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	baseURL, err := BaseURL(endpoint.URL)
	if err != nil {
		return nil, err
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(endpoint.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(p.httpClient),
		// One request per turn.
		option.WithMaxRetries(0),
	}
	if endpoint.Referer != "" {
		clientOpts = append(clientOpts, option.WithHeader("HTTP-Referer", endpoint.Referer))
	}
	if endpoint.Title != "" {
		clientOpts = append(clientOpts, option.WithHeader("X-Title", endpoint.Title))
	}

	p.client = openai.NewClient(clientOpts...)

	p.logger.Debug("openai sdk provider ready",
		"base_url", baseURL,
		"api_key", endpoint.MaskedKey(),
	)
	return p, nil
}

func (p *Provider) Name() string {
	return Name
}

// Complete sends req through openai-go and returns the first choice.
func (p *Provider) Complete(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	params, err := buildParams(req)
	if err != nil {
		return nil, &llm.TransportError{Op: "building request", Err: err}
	}

	p.logger.Debug("sending completion request",
		"model", req.Model,
		"message_count", len(req.Messages),
	)

	var httpResp *http.Response
	resp, err := p.client.Chat.Completions.New(ctx, params, option.WithResponseInto(&httpResp))
	if err != nil {
		return nil, classify(err)
	}

	// openai-go accepts every status below 400; anything but 200 is a
	// failed turn.
	if httpResp != nil && httpResp.StatusCode != http.StatusOK {
		return nil, &llm.StatusError{StatusCode: httpResp.StatusCode, Body: resp.RawJSON()}
	}

	p.logger.Debug("received completion response",
		"status", http.StatusOK,
		"choices", len(resp.Choices),
	)

	if len(resp.Choices) == 0 {
		return nil, &llm.MalformedResponseError{Reason: "no choices in response"}
	}

	choice := resp.Choices[0]
	if !choice.Message.JSON.Content.Valid() {
		return nil, &llm.MalformedResponseError{Reason: "choices[0].message.content is missing"}
	}
	return &llm.ChatResponse{
		Model:      resp.Model,
		Message:    llm.NewAssistantMessage(choice.Message.Content),
		StopReason: string(choice.FinishReason),
		Usage: &llm.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// BaseURL derives the openai-go base URL from a full chat completions URL,
// e.g. https://openrouter.ai/api/v1/chat/completions -> https://openrouter.ai/api/v1/
func BaseURL(endpointURL string) (string, error) {
	u := strings.TrimRight(strings.TrimSpace(endpointURL), "/")
	if u == "" {
		return "", errors.New("endpoint URL is required")
	}
	if !strings.HasSuffix(u, completionsPath) {
		return "", fmt.Errorf("endpoint URL %q must end in %s", endpointURL, completionsPath)
	}
	return strings.TrimSuffix(u, completionsPath) + "/", nil
}

func buildParams(req *llm.ChatRequest) (openai.ChatCompletionNewParams, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case llm.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case llm.RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case llm.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("unsupported role: %s", msg.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}
	params.Temperature = openai.Float(req.Temperature)
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	return params, nil
}

// classify maps openai-go errors onto the llm error taxonomy.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &llm.StatusError{StatusCode: apiErr.StatusCode, Body: errorBody(apiErr)}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &llm.MalformedResponseError{Reason: "decoding body", Err: err}
	}

	return &llm.TransportError{Op: "sending request", Err: err}
}

// errorBody returns the raw response body of an API error. openai-go keeps
// the body readable on the error's response.
func errorBody(apiErr *openai.Error) string {
	if apiErr.Response != nil && apiErr.Response.Body != nil {
		body, err := io.ReadAll(apiErr.Response.Body)
		if err == nil && len(body) > 0 {
			return string(body)
		}
	}
	return apiErr.RawJSON()
}
