// Package initcmder provides the init command for initializing a local
// .termchat directory in the current working directory.
package initcmder

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/termchat/pkg/cliui"
	"github.com/papercomputeco/termchat/pkg/config"
)

const (
	dirName = ".termchat"
)

const initLongDesc string = `Initialize a new .termchat/ directory in the current working directory.

Creates a local .termchat/ directory that takes precedence over the default
~/.termchat/ directory, and writes a starter config.toml for the chosen
endpoint preset. An existing config.toml is left alone unless --force is set.

Presets:
  openrouter   OpenRouter with a free DeepSeek model (default)
  openai       api.openai.com with gpt-4o-mini
  ollama       A local Ollama server with llama3.2

Examples:
  termchat init
  termchat init --preset ollama
  termchat init --preset openai --force`

const initShortDesc string = "Initialize a local .termchat/ directory"

func NewInitCmd() *cobra.Command {
	var preset string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), preset, force)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "openrouter",
		"Endpoint preset ("+strings.Join(config.ValidPresetNames(), ", ")+")")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.toml")

	_ = cmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runInit(w io.Writer, preset string, force bool) error {
	cfg, err := config.PresetConfig(preset)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .termchat directory: %w", err)
	}

	configPath := filepath.Join(dir, "config.toml")
	_, err = os.Stat(configPath)
	switch {
	case err == nil && !force:
		fmt.Fprintf(w, "Already initialized: %s\n", dir)
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("checking config: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintln(w)
	err = cliui.Step(w, "Writing config.toml", func() error {
		return cfger.SaveConfig(cfg)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Initialized %s %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(dir),
		cliui.DimStyle.Render("(preset "+strings.ToLower(preset)+")"),
	)
	fmt.Fprintf(w, "  %s %s\n",
		cliui.KeyStyle.Render("Endpoint:"),
		cliui.ValueStyle.Render(cfg.Completion.Endpoint),
	)
	fmt.Fprintf(w, "  %s %s\n\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.ValueStyle.Render(cfg.Completion.Model),
	)

	return nil
}
