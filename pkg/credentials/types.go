package credentials

// Credentials represents the stored API credentials in credentials.toml.
// Keys are grouped by endpoint host, e.g. [hosts."openrouter.ai"].
type Credentials struct {
	Version int                       `toml:"version"`
	Hosts   map[string]HostCredential `toml:"hosts"`
}

// HostCredential holds the API key for a single endpoint host.
type HostCredential struct {
	APIKey string `toml:"api_key"`
}

// Source records where a resolved API key came from.
type Source string

const (
	SourceNone        Source = ""
	SourceConfig      Source = "config"
	SourceEnv         Source = "env"
	SourceCredentials Source = "credentials"
)
