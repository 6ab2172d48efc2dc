// Package configcmder provides the config command for managing persistent
// termchat configuration stored in the .termchat/ directory.
package configcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/termchat/pkg/config"
	"github.com/papercomputeco/termchat/pkg/llm"
)

const configLongDesc string = `Manage persistent termchat configuration.

Configuration is stored as config.toml in the .termchat/ directory and provides
default values for chat flags. CLI flags and TERMCHAT_* environment variables
always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  completion.provider, completion.endpoint, completion.model,
  completion.temperature, completion.max_tokens, completion.system_prompt,
  completion.api_key, client.referer, client.title, log.file, log.json

Use subcommands to get, set, or list configuration values:
  termchat config set <key> <value>    Set a configuration value
  termchat config get <key>            Get a configuration value
  termchat config list                 List all configuration values

Examples:
  termchat config set completion.model openai/gpt-4o-mini
  termchat config set completion.temperature 0.2
  termchat config get completion.endpoint
  termchat config list`

const configShortDesc string = "Manage persistent termchat configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// displayValue masks secret keys so they never land in scrollback.
func displayValue(key, value string) string {
	if config.IsSecretConfigKey(key) && value != "" {
		return llm.Endpoint{APIKey: value}.MaskedKey()
	}
	return value
}
