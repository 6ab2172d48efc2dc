package chat

import (
	"io"

	"github.com/papercomputeco/termchat/pkg/llm"
)

// Config is the chat session configuration.
type Config struct {
	// Title is shown in the banner (e.g., "Terminal Chat")
	Title string

	// Request holds the model, temperature, max tokens and system prompt
	// applied to every turn.
	Request llm.RequestOptions

	// Input supplies user lines. Required.
	Input LineReader

	// Output receives prompts, replies and error lines. Required.
	Output io.Writer

	// Clipboard receives the OSC 52 sequence written by /copy.
	// Defaults to Output.
	Clipboard io.Writer

	// Markdown renders replies with glamour before printing.
	Markdown bool

	// Spinner shows an animated indicator while a request is in flight.
	// Only enable it when Output is a terminal.
	Spinner bool
}
