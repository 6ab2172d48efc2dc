// Package chatcmder provides the chat command for an interactive terminal
// conversation with an OpenAI-compatible completion endpoint.
package chatcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/termchat/pkg/chat"
	"github.com/papercomputeco/termchat/pkg/cliui"
	"github.com/papercomputeco/termchat/pkg/config"
	"github.com/papercomputeco/termchat/pkg/credentials"
	"github.com/papercomputeco/termchat/pkg/llm"
	"github.com/papercomputeco/termchat/pkg/llm/provider"
	"github.com/papercomputeco/termchat/pkg/logger"
)

const chatLongDesc string = `Start an interactive chat session.

Every line you type is sent, together with the whole conversation so far,
to the configured chat completions endpoint. Replies are printed after
"AI:". Type "quit" (any casing) or press Ctrl+D to leave. The conversation
lives in memory only and is gone when the session ends.

A non-success response (rate limit, bad key) prints the status code and
body and the session continues. Network failures and unreadable replies
end the session with a non-zero exit.

Local commands are handled without contacting the endpoint:
  /help      List local commands
  /history   Print the conversation so far
  /tokens    Estimate the conversation size in tokens
  /copy      Copy the last reply to the clipboard (OSC 52)
  /reset     Forget the conversation

Examples:
  termchat chat
  termchat chat --model openai/gpt-4o-mini --temperature 0.2
  termchat chat --endpoint http://localhost:11434/v1/chat/completions --model llama3.2
  termchat chat --system "Answer in one sentence." --markdown`

const chatShortDesc string = "Start an interactive chat session"

// chatFlagKeys are the registry flags bound to viper for a chat session.
var chatFlagKeys = []string{
	config.FlagProvider,
	config.FlagEndpoint,
	config.FlagModel,
	config.FlagTemperature,
	config.FlagMaxTokens,
	config.FlagSystem,
	config.FlagAPIKey,
	config.FlagReferer,
	config.FlagTitle,
	config.FlagLogFile,
	config.FlagLogJSON,
}

type chatCommander struct {
	flags struct {
		provider    string
		endpoint    string
		model       string
		temperature float64
		maxTokens   uint
		system      string
		apiKey      string
		referer     string
		title       string
		logFile     string
		logJSON     bool
	}

	markdown bool
	noColor  bool
	debug    bool

	configDir string
	cfg       *config.Config

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
	}

	Bind(cmd)

	return cmd
}

// Bind registers the chat flags on cmd and makes a chat session its action.
// The root command binds it as well so that a bare "termchat" starts chatting.
func Bind(cmd *cobra.Command) {
	cmder := &chatCommander{}

	config.AddStringFlag(cmd, config.ChatFlags, config.FlagProvider, &cmder.flags.provider)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagEndpoint, &cmder.flags.endpoint)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagModel, &cmder.flags.model)
	config.AddFloat64Flag(cmd, config.ChatFlags, config.FlagTemperature, &cmder.flags.temperature)
	config.AddUintFlag(cmd, config.ChatFlags, config.FlagMaxTokens, &cmder.flags.maxTokens)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagSystem, &cmder.flags.system)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagAPIKey, &cmder.flags.apiKey)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagReferer, &cmder.flags.referer)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagTitle, &cmder.flags.title)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagLogFile, &cmder.flags.logFile)
	config.AddBoolFlag(cmd, config.ChatFlags, config.FlagLogJSON, &cmder.flags.logJSON)

	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render replies as markdown")
	cmd.Flags().BoolVar(&cmder.noColor, "no-color", false, "Disable colored output (also honors NO_COLOR)")

	_ = cmd.RegisterFlagCompletionFunc(config.FlagProvider, func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return provider.SupportedProviders(), cobra.ShellCompDirectiveNoFileComp
	})

	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		cmder.configDir, _ = cmd.Flags().GetString("config-dir")

		v, err := config.InitViper(cmder.configDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		config.BindRegisteredFlags(v, cmd, config.ChatFlags, chatFlagKeys)

		cmder.cfg, err = config.FromViper(v)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cmder.debug, _ = cmd.Flags().GetBool("debug")
		cmder.in = cmd.InOrStdin()
		cmder.out = cmd.OutOrStdout()
		cmder.errOut = cmd.ErrOrStderr()

		return cmder.run(cmd.Context())
	}
}

func (c *chatCommander) run(parent context.Context) error {
	cliui.SetNoColor(c.noColor || os.Getenv("NO_COLOR") != "")

	log, closeLog, err := c.newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	endpoint, err := c.resolveEndpoint(log)
	if err != nil {
		return err
	}

	prov, err := provider.New(c.cfg.Completion.Provider, endpoint, log)
	if err != nil {
		return err
	}

	input := c.newLineReader()
	defer input.Close()

	session, err := chat.New(chat.Config{
		Title: c.cfg.Client.Title,
		Request: llm.RequestOptions{
			Model:        c.cfg.Completion.Model,
			Temperature:  c.cfg.Completion.TemperatureOrDefault(),
			MaxTokens:    int(c.cfg.Completion.MaxTokens),
			SystemPrompt: c.cfg.Completion.SystemPrompt,
		},
		Input:    input,
		Output:   c.out,
		Markdown: c.markdown,
		Spinner:  isTerminal(c.out),
	}, prov, log)
	if err != nil {
		return fmt.Errorf("creating chat session: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("chat session ended: %w", err)
	}
	return nil
}

// newLogger builds the diagnostic logger: pretty (or JSON) records on
// stderr, plus JSON records in a rotated file when log.file is set.
func (c *chatCommander) newLogger() (*slog.Logger, func(), error) {
	stderr := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(!c.cfg.Log.JSON),
		logger.WithJSON(c.cfg.Log.JSON),
		logger.WithWriter(c.errOut),
	)

	if c.cfg.Log.File == "" {
		return stderr, func() {}, nil
	}

	fw, err := logger.NewFileWriter(c.cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithLevel(slog.LevelDebug),
		logger.WithJSON(true),
		logger.WithWriter(fw),
	)

	return logger.Multi(stderr, file), func() { _ = fw.Close() }, nil
}

func (c *chatCommander) resolveEndpoint(log *slog.Logger) (llm.Endpoint, error) {
	endpoint := llm.Endpoint{
		URL:     c.cfg.Completion.Endpoint,
		Referer: c.cfg.Client.Referer,
		Title:   c.cfg.Client.Title,
	}

	host, err := credentials.HostFromEndpoint(endpoint.URL)
	if err != nil {
		return endpoint, err
	}

	creds, err := credentials.NewManager(c.configDir)
	if err != nil {
		return endpoint, fmt.Errorf("loading credentials: %w", err)
	}

	key, source, err := creds.Resolve(c.cfg.Completion.APIKey, endpoint.URL)
	if err != nil {
		return endpoint, fmt.Errorf("resolving API key: %w", err)
	}
	endpoint.APIKey = key

	if key == "" {
		if !credentials.IsLoopbackHost(host) {
			return endpoint, missingKeyError(host)
		}
		log.Debug("no API key for local endpoint", "host", host)
		return endpoint, nil
	}

	log.Debug("API key resolved",
		"host", host,
		"source", string(source),
		"key", endpoint.MaskedKey(),
	)
	return endpoint, nil
}

func missingKeyError(host string) error {
	hint := "pass --api-key or run 'termchat auth " + host + "'"
	if envVar := credentials.EnvVarForHost(host); envVar != "" {
		hint = "set " + envVar + ", " + hint
	}
	return errors.New("no API key for " + host + ": " + hint)
}

func (c *chatCommander) newLineReader() chat.LineReader {
	if c.in == os.Stdin {
		return chat.NewLineReader(c.out)
	}
	return chat.NewScannerReader(c.in, c.out)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
