package chat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/papercomputeco/termchat/pkg/cliui"
	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/utils"
)

// historyPreviewLen caps each message printed by /history.
const historyPreviewLen = 240

// command is a local slash command. Local commands never reach the provider
// and never touch the conversation, except /reset.
type command struct {
	help string
	run  func()
}

func (s *Session) localCommands() map[string]command {
	return map[string]command{
		"/help": {
			help: "Show local commands",
			run:  s.printHelp,
		},
		"/history": {
			help: "Print the conversation so far",
			run:  s.printHistory,
		},
		"/tokens": {
			help: "Estimate the conversation size in tokens (cl100k_base)",
			run:  s.printTokens,
		},
		"/copy": {
			help: "Copy the last reply to the clipboard (OSC 52)",
			run:  s.copyLastReply,
		},
		"/reset": {
			help: "Forget the conversation and start over",
			run:  s.reset,
		},
	}
}

func (s *Session) printHelp() {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(s.config.Output, "%s\n", cliui.HeaderStyle.Render("Local commands"))
	for _, name := range names {
		fmt.Fprintf(s.config.Output, "  %-10s %s\n",
			cliui.KeyStyle.Render(name),
			cliui.DimStyle.Render(s.commands[name].help),
		)
	}
	fmt.Fprintf(s.config.Output, "  %-10s %s\n",
		cliui.KeyStyle.Render(quitCommand),
		cliui.DimStyle.Render("Exit (Ctrl+D also works)"),
	)
}

func (s *Session) printHistory() {
	messages := s.conv.Messages()
	if len(messages) == 0 {
		fmt.Fprintf(s.config.Output, "%s\n", cliui.DimStyle.Render("No messages yet."))
		return
	}

	for _, msg := range messages {
		preview := utils.Truncate(strings.ReplaceAll(msg.Content, "\n", " "), historyPreviewLen)
		fmt.Fprintf(s.config.Output, "%s %s\n", roleLabel(msg.Role), preview)
	}

	if s.lastTurn != nil && !s.lastTurn.Answered() {
		fmt.Fprintf(s.config.Output, "%s\n", cliui.DimStyle.Render("(no reply to the last message)"))
	}
}

func (s *Session) printTokens() {
	messages := s.conv.Messages()
	if s.config.Request.SystemPrompt != "" {
		messages = append([]llm.Message{llm.NewSystemMessage(s.config.Request.SystemPrompt)}, messages...)
	}

	count, err := s.tokens.countMessages(messages)
	if err != nil {
		s.logger.Warn("could not count tokens", "error", err)
		fmt.Fprintf(s.config.Output, "%s could not count tokens: %v\n", cliui.FailMark, err)
		return
	}

	fmt.Fprintf(s.config.Output, "%s %s\n",
		cliui.ValueStyle.Render(fmt.Sprintf("~%d tokens", count)),
		cliui.DimStyle.Render(fmt.Sprintf("across %d messages (%s)", len(messages), tokenEncoding)),
	)
}

func (s *Session) copyLastReply() {
	msg, ok := s.conv.LastOfRole(llm.RoleAssistant)
	if !ok {
		fmt.Fprintf(s.config.Output, "%s\n", cliui.DimStyle.Render("Nothing to copy yet."))
		return
	}

	if _, err := osc52.New(msg.Content).WriteTo(s.config.Clipboard); err != nil {
		s.logger.Warn("could not write clipboard sequence", "error", err)
		fmt.Fprintf(s.config.Output, "%s could not copy: %v\n", cliui.FailMark, err)
		return
	}

	fmt.Fprintf(s.config.Output, "%s Copied last reply to clipboard.\n", cliui.SuccessMark)
}

func (s *Session) reset() {
	dropped := s.conv.Len()
	s.conv.Reset()
	s.lastTurn = nil

	s.logger.Debug("conversation reset", "dropped", dropped)
	fmt.Fprintf(s.config.Output, "%s Conversation cleared.\n", cliui.SuccessMark)
}

func roleLabel(role llm.Role) string {
	switch role {
	case llm.RoleUser:
		return cliui.UserStyle.Render("You:")
	case llm.RoleAssistant:
		return cliui.AssistantStyle.Render("AI:")
	default:
		return cliui.DimStyle.Render(string(role) + ":")
	}
}
