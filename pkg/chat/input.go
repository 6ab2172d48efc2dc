package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrAborted is returned by a LineReader when the user aborts the prompt
// (Ctrl+C on a terminal).
var ErrAborted = errors.New("input aborted")

// LineReader supplies one line of user input per call. ReadLine returns
// io.EOF once input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// ScannerReader reads newline-delimited input from any io.Reader and writes
// the prompt to out before each line.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerReader creates a ScannerReader over in.
func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &ScannerReader{
		scanner: scanner,
		out:     out,
	}
}

func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)

	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimRight(r.scanner.Text(), "\r"), nil
}

func (r *ScannerReader) Close() error {
	return nil
}

// TerminalReader reads from an interactive terminal with line editing and
// in-memory input recall. History is never written to disk.
type TerminalReader struct {
	state *liner.State
}

// NewTerminalReader puts the terminal into liner's raw mode. Callers must
// Close it to restore the terminal.
func NewTerminalReader() *TerminalReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	return &TerminalReader{state: state}
}

func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	// liner measures the prompt by rune count, so styling escapes are dropped
	line, err := r.state.Prompt(ansi.Strip(prompt))
	switch {
	case errors.Is(err, liner.ErrPromptAborted):
		return "", ErrAborted
	case err != nil:
		return "", err
	}

	if strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}

	return line, nil
}

func (r *TerminalReader) Close() error {
	return r.state.Close()
}

// NewLineReader picks a TerminalReader when both stdin and stdout are
// terminals, otherwise a ScannerReader over stdin.
func NewLineReader(out io.Writer) LineReader {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return NewTerminalReader()
	}
	return NewScannerReader(os.Stdin, out)
}
