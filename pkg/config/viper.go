package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/termchat/pkg/dotdir"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// TERMCHAT_COMPLETION_MODEL.
const EnvPrefix = "TERMCHAT"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the TERMCHAT_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (TERMCHAT_COMPLETION_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if v.GetInt("version") != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", v.GetInt("version"), CurrentV)
	}

	// 3. Environment variables: TERMCHAT_COMPLETION_ENDPOINT, TERMCHAT_LOG_FILE, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper resolves every config key through v's precedence chain.
func FromViper(v *viper.Viper) (*Config, error) {
	temperature := v.GetFloat64("completion.temperature")
	if err := ValidateTemperature(temperature); err != nil {
		return nil, err
	}

	return &Config{
		Version: v.GetInt("version"),
		Completion: CompletionConfig{
			Provider:     v.GetString("completion.provider"),
			Endpoint:     v.GetString("completion.endpoint"),
			Model:        v.GetString("completion.model"),
			Temperature:  &temperature,
			MaxTokens:    v.GetUint("completion.max_tokens"),
			SystemPrompt: v.GetString("completion.system_prompt"),
			APIKey:       v.GetString("completion.api_key"),
		},
		Client: ClientConfig{
			Referer: v.GetString("client.referer"),
			Title:   v.GetString("client.title"),
		},
		Log: LogConfig{
			File: v.GetString("log.file"),
			JSON: v.GetBool("log.json"),
		},
	}, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Completion
	v.SetDefault("completion.provider", d.Completion.Provider)
	v.SetDefault("completion.endpoint", d.Completion.Endpoint)
	v.SetDefault("completion.model", d.Completion.Model)
	v.SetDefault("completion.temperature", d.Completion.TemperatureOrDefault())
	v.SetDefault("completion.max_tokens", d.Completion.MaxTokens)
	v.SetDefault("completion.system_prompt", d.Completion.SystemPrompt)
	v.SetDefault("completion.api_key", d.Completion.APIKey)

	// Client
	v.SetDefault("client.referer", d.Client.Referer)
	v.SetDefault("client.title", d.Client.Title)

	// Log
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json", d.Log.JSON)
}
