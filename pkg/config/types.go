package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent termchat configuration stored as
// config.toml in the .termchat/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Completion CompletionConfig `toml:"completion"`
	Client     ClientConfig     `toml:"client"`
	Log        LogConfig        `toml:"log"`
}

// CompletionConfig holds the settings for the remote completion endpoint.
type CompletionConfig struct {
	Provider     string   `toml:"provider,omitempty"`
	Endpoint     string   `toml:"endpoint,omitempty"`
	Model        string   `toml:"model,omitempty"`
	Temperature  *float64 `toml:"temperature,omitempty"`
	MaxTokens    uint     `toml:"max_tokens,omitempty"`
	SystemPrompt string   `toml:"system_prompt,omitempty"`
	APIKey       string   `toml:"api_key,omitempty"`
}

// ClientConfig holds the values termchat uses to identify itself to the
// endpoint (HTTP-Referer and X-Title headers).
type ClientConfig struct {
	Referer string `toml:"referer,omitempty"`
	Title   string `toml:"title,omitempty"`
}

// LogConfig holds diagnostic log settings.
type LogConfig struct {
	File string `toml:"file,omitempty"`
	JSON bool   `toml:"json,omitempty"`
}

// TemperatureOrDefault returns the configured temperature, falling back to
// the default when unset.
func (c CompletionConfig) TemperatureOrDefault() float64 {
	if c.Temperature == nil {
		return defaultTemperature
	}
	return *c.Temperature
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get    func(c *Config) string
	set    func(c *Config, v string) error
	secret bool
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"completion.provider": {
		get: func(c *Config) string { return c.Completion.Provider },
		set: func(c *Config, v string) error { c.Completion.Provider = v; return nil },
	},
	"completion.endpoint": {
		get: func(c *Config) string { return c.Completion.Endpoint },
		set: func(c *Config, v string) error { c.Completion.Endpoint = v; return nil },
	},
	"completion.model": {
		get: func(c *Config) string { return c.Completion.Model },
		set: func(c *Config, v string) error { c.Completion.Model = v; return nil },
	},
	"completion.temperature": {
		get: func(c *Config) string {
			if c.Completion.Temperature == nil {
				return ""
			}
			return strconv.FormatFloat(*c.Completion.Temperature, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := ParseTemperature(v)
			if err != nil {
				return fmt.Errorf("invalid value for completion.temperature: %w", err)
			}
			c.Completion.Temperature = &f
			return nil
		},
	},
	"completion.max_tokens": {
		get: func(c *Config) string {
			if c.Completion.MaxTokens == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Completion.MaxTokens), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid value for completion.max_tokens: %w", err)
			}
			c.Completion.MaxTokens = uint(n)
			return nil
		},
	},
	"completion.system_prompt": {
		get: func(c *Config) string { return c.Completion.SystemPrompt },
		set: func(c *Config, v string) error { c.Completion.SystemPrompt = v; return nil },
	},
	"completion.api_key": {
		get:    func(c *Config) string { return c.Completion.APIKey },
		set:    func(c *Config, v string) error { c.Completion.APIKey = v; return nil },
		secret: true,
	},
	"client.referer": {
		get: func(c *Config) string { return c.Client.Referer },
		set: func(c *Config, v string) error { c.Client.Referer = v; return nil },
	},
	"client.title": {
		get: func(c *Config) string { return c.Client.Title },
		set: func(c *Config, v string) error { c.Client.Title = v; return nil },
	},
	"log.file": {
		get: func(c *Config) string { return c.Log.File },
		set: func(c *Config, v string) error { c.Log.File = v; return nil },
	},
	"log.json": {
		get: func(c *Config) string { return strconv.FormatBool(c.Log.JSON) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for log.json: %w", err)
			}
			c.Log.JSON = b
			return nil
		},
	},
}

// ParseTemperature parses a sampling temperature and checks it is within
// the range accepted by OpenAI-compatible endpoints.
func ParseTemperature(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if err := ValidateTemperature(f); err != nil {
		return 0, err
	}
	return f, nil
}

// ValidateTemperature checks that t is within [0, 2].
func ValidateTemperature(t float64) error {
	if t < 0 || t > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", t)
	}
	return nil
}
