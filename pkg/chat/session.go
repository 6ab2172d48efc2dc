// Package chat runs the interactive read, send, print loop of a terminal
// chat session against a completion provider.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/termchat/pkg/cliui"
	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/llm/provider"
)

const quitCommand = "quit"

// Session is one interactive conversation. It owns the in-memory history,
// which lives only as long as the Session.
type Session struct {
	id       string
	config   Config
	provider provider.Provider
	conv     *llm.Conversation
	commands map[string]command
	tokens   *tokenCounter
	lastTurn *llm.Turn
	logger   *slog.Logger
}

// New creates a Session that sends every turn through prov.
func New(config Config, prov provider.Provider, logger *slog.Logger) (*Session, error) {
	if prov == nil {
		return nil, errors.New("provider is required")
	}
	if config.Input == nil {
		return nil, errors.New("input reader is required")
	}
	if config.Output == nil {
		return nil, errors.New("output writer is required")
	}
	if config.Clipboard == nil {
		config.Clipboard = config.Output
	}

	id := uuid.NewString()
	s := &Session{
		id:       id,
		config:   config,
		provider: prov,
		conv:     llm.NewConversation(),
		tokens:   &tokenCounter{},
		logger:   logger.With("session", id),
	}
	s.commands = s.localCommands()

	return s, nil
}

// ID returns the session identifier attached to every log record.
func (s *Session) ID() string {
	return s.id
}

// Conversation returns the session history.
func (s *Session) Conversation() *llm.Conversation {
	return s.conv
}

// LastTurn returns the most recent turn sent to the provider.
func (s *Session) LastTurn() (llm.Turn, bool) {
	if s.lastTurn == nil {
		return llm.Turn{}, false
	}
	return *s.lastTurn, true
}

// Run reads user lines until "quit" (any casing), end of input, ctx
// cancellation, or a fatal provider error. Non-success statuses are printed and the loop continues.
// Run returns nil on a normal exit and the classified provider error on a
// fatal one.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Debug("chat session started",
		"provider", s.provider.Name(),
		"model", s.config.Request.Model,
	)

	s.printBanner()

	for {
		if ctx.Err() != nil {
			s.logger.Debug("session interrupted", "messages", s.conv.Len())
			return nil
		}

		fmt.Fprintln(s.config.Output)

		line, err := s.readLine(ctx, cliui.UserStyle.Render("You:")+" ")
		switch {
		case ctx.Err() != nil:
			fmt.Fprintln(s.config.Output)
			s.logger.Debug("session interrupted", "messages", s.conv.Len())
			return nil
		case errors.Is(err, io.EOF), errors.Is(err, ErrAborted):
			fmt.Fprintln(s.config.Output)
			s.logger.Debug("input closed", "messages", s.conv.Len())
			return nil
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}

		input := strings.TrimSpace(line)
		if strings.EqualFold(input, quitCommand) {
			s.logger.Debug("quit requested", "messages", s.conv.Len())
			return nil
		}
		if input == "" {
			continue
		}

		if cmd, ok := s.commands[input]; ok {
			cmd.run()
			continue
		}

		if err := s.turn(ctx, line); err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(s.config.Output)
				return nil
			}
			return err
		}
	}
}

type readResult struct {
	line string
	err  error
}

// readLine waits for the next input line or for ctx to end. A read still
// blocked after cancellation is abandoned; its line is never used.
func (s *Session) readLine(ctx context.Context, prompt string) (string, error) {
	result := make(chan readResult, 1)
	go func() {
		line, err := s.config.Input.ReadLine(prompt)
		result <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-result:
		return r.line, r.err
	}
}

// turn appends the user message, sends the whole conversation and handles
// the outcome. Only fatal errors are returned.
func (s *Session) turn(ctx context.Context, input string) error {
	user := llm.NewUserMessage(input)
	s.conv.Append(user)

	req := llm.NewChatRequest(s.conv, s.config.Request)

	var resp *llm.ChatResponse
	send := func() error {
		var err error
		resp, err = s.provider.Complete(ctx, req)
		return err
	}

	start := time.Now()
	var err error
	if s.config.Spinner {
		err = cliui.Spin(s.config.Output, cliui.DimStyle.Render("Thinking..."), send)
	} else {
		err = send()
	}
	elapsed := time.Since(start)

	s.lastTurn = &llm.Turn{User: user}

	if err != nil {
		var statusErr *llm.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Warn("completion request rejected",
				"status", statusErr.StatusCode,
				"duration", elapsed,
			)
			fmt.Fprintf(s.config.Output, "%s %s\n",
				cliui.ErrorStyle.Render(fmt.Sprintf("Error %d:", statusErr.StatusCode)),
				statusErr.Body,
			)
			return nil
		}

		s.logger.Error("completion request failed",
			"error", err,
			"duration", elapsed,
		)
		return err
	}

	reply := llm.NewAssistantMessage(resp.Message.Content)
	s.conv.Append(reply)
	s.lastTurn.Reply = resp

	attrs := []any{
		"model", resp.Model,
		"stop_reason", resp.StopReason,
		"duration", elapsed,
		"messages", s.conv.Len(),
	}
	if resp.Usage != nil {
		attrs = append(attrs,
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
		)
	}
	s.logger.Debug("completion received", attrs...)

	s.printReply(reply.Content)
	return nil
}

func (s *Session) printBanner() {
	title := s.config.Title
	if title == "" {
		title = "Terminal Chat"
	}
	fmt.Fprintf(s.config.Output, "\n%s\n",
		cliui.HeaderStyle.Render(fmt.Sprintf("%s (Type '%s' to exit)", title, quitCommand)),
	)
	fmt.Fprintf(s.config.Output, "%s\n",
		cliui.DimStyle.Render("Type /help for local commands."),
	)
}

func (s *Session) printReply(content string) {
	label := cliui.AssistantStyle.Render("AI:")

	if !s.config.Markdown {
		fmt.Fprintf(s.config.Output, "%s %s\n", label, content)
		return
	}

	rendered, err := cliui.RenderMarkdown(content)
	if err != nil {
		s.logger.Debug("markdown rendering failed, printing raw reply", "error", err)
		fmt.Fprintf(s.config.Output, "%s %s\n", label, content)
		return
	}
	fmt.Fprintf(s.config.Output, "%s\n%s", label, rendered)
}
