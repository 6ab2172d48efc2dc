// Package termchatcmder is the root of the termchat command tree.
package termchatcmder

import (
	"github.com/spf13/cobra"

	authcmder "github.com/papercomputeco/termchat/cmd/termchat/auth"
	chatcmder "github.com/papercomputeco/termchat/cmd/termchat/chat"
	configcmder "github.com/papercomputeco/termchat/cmd/termchat/config"
	initcmder "github.com/papercomputeco/termchat/cmd/termchat/init"
	versioncmder "github.com/papercomputeco/termchat/cmd/version"
)

const termchatLongDesc string = `termchat is a chat client for OpenAI-compatible completion endpoints.

Run it with no subcommand to start chatting:
  termchat                       Chat with the configured endpoint
  termchat init                  Write a starter .termchat/config.toml
  termchat auth                  Store an API key for the endpoint
  termchat config list           Show the effective configuration`

const termchatShortDesc string = "termchat - terminal chat for completion endpoints"

func NewTermchatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "termchat",
		Short:         termchatShortDesc,
		Long:          termchatLongDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .termchat/ config directory")

	// A bare "termchat" starts a chat session
	chatcmder.Bind(cmd)

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
