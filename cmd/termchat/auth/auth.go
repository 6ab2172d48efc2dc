// Package authcmder provides the auth command for storing endpoint API keys.
package authcmder

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/termchat/pkg/cliui"
	"github.com/papercomputeco/termchat/pkg/config"
	"github.com/papercomputeco/termchat/pkg/credentials"
	"github.com/papercomputeco/termchat/pkg/llm"
)

const authLongDesc string = `Store API keys for completion endpoints.

Keys are stored in credentials.toml (mode 0600) in the .termchat/ directory,
keyed by endpoint host. The host defaults to the host of the configured
completion endpoint (openrouter.ai unless changed).

When chatting, a key passed with --api-key, TERMCHAT_COMPLETION_API_KEY or
completion.api_key wins. Otherwise the host's conventional environment
variable is used (OPENROUTER_API_KEY for openrouter.ai, OPENAI_API_KEY for
api.openai.com), then the stored key.

Examples:
  termchat auth                         Prompt for the configured endpoint's key
  termchat auth api.openai.com          Prompt for an OpenAI key
  termchat auth --list                  List stored credentials
  termchat auth --remove openrouter.ai  Remove a stored key
  echo $KEY | termchat auth             Pipe the key from stdin`

const authShortDesc string = "Store API keys for completion endpoints"

type authCommander struct {
	configDir string
	in        io.Reader
	out       io.Writer
	prompt    io.Writer
}

func NewAuthCmd() *cobra.Command {
	var listFlag bool
	var removeFlag string

	cmd := &cobra.Command{
		Use:   "auth [host]",
		Short: authShortDesc,
		Long:  authLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cmder := &authCommander{
				configDir: configDir,
				in:        cmd.InOrStdin(),
				out:       cmd.OutOrStdout(),
				prompt:    cmd.ErrOrStderr(),
			}

			switch {
			case listFlag:
				return cmder.runList()
			case removeFlag != "":
				return cmder.runRemove(removeFlag)
			default:
				host := ""
				if len(args) == 1 {
					host = args[0]
				}
				return cmder.runAuth(host)
			}
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return []string{"openrouter.ai", "api.openai.com"}, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVar(&listFlag, "list", false, "List stored credentials")
	cmd.Flags().StringVar(&removeFlag, "remove", "", "Remove stored credentials for a host")

	return cmd
}

func (c *authCommander) runAuth(host string) error {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		var err error
		host, err = c.configuredHost()
		if err != nil {
			return err
		}
	}

	apiKey, err := c.readAPIKey(host)
	if err != nil {
		return err
	}

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}

	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.SetKey(host, apiKey); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Stored key for %s %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(host),
		cliui.DimStyle.Render("("+llm.Endpoint{APIKey: apiKey}.MaskedKey()+")"),
	)

	if envVar := credentials.EnvVarForHost(host); envVar != "" && os.Getenv(envVar) != "" {
		fmt.Fprintf(c.out, "  %s %s is set and takes precedence over the stored key.\n",
			cliui.WarnStyle.Render("!"), envVar)
	}

	fmt.Fprintln(c.out)
	return nil
}

func (c *authCommander) runList() error {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	hosts, err := mgr.ListHosts()
	if err != nil {
		return err
	}

	if len(hosts) == 0 {
		fmt.Fprintf(c.out, "\n  %s No stored credentials.\n", cliui.DimStyle.Render("●"))
		fmt.Fprintf(c.out, "  Use 'termchat auth [host]' to store a key.\n\n")
		return nil
	}

	fmt.Fprintf(c.out, "\n  %s\n\n", cliui.HeaderStyle.Render("Stored credentials"))
	for _, h := range hosts {
		envVar := credentials.EnvVarForHost(h)
		if envVar != "" {
			fmt.Fprintf(c.out, "  %s  %s  %s\n",
				cliui.SuccessMark,
				cliui.NameStyle.Render(h),
				cliui.DimStyle.Render("(overridden by "+envVar+")"),
			)
		} else {
			fmt.Fprintf(c.out, "  %s  %s\n", cliui.SuccessMark, cliui.NameStyle.Render(h))
		}
	}
	fmt.Fprintln(c.out)

	return nil
}

func (c *authCommander) runRemove(host string) error {
	host = strings.ToLower(strings.TrimSpace(host))

	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	if err := mgr.RemoveKey(host); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\n  %s Removed credentials for %s.\n\n", cliui.SuccessMark, cliui.NameStyle.Render(host))

	return nil
}

// configuredHost returns the host of the completion endpoint resolved
// through the usual flag, env and config file chain.
func (c *authCommander) configuredHost() (string, error) {
	v, err := config.InitViper(c.configDir)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}

	return credentials.HostFromEndpoint(cfg.Completion.Endpoint)
}

// readAPIKey reads an API key from the command input. Piped input supplies
// the first line. A terminal gets a hidden prompt.
func (c *authCommander) readAPIKey(host string) (string, error) {
	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(c.prompt, "Enter API key for %s: ", host)

		keyBytes, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.prompt) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}

		return string(keyBytes), nil
	}

	scanner := bufio.NewScanner(c.in)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return "", errors.New("no input received on stdin")
}
