// Package credentials stores endpoint API keys in credentials.toml and
// resolves the key used for a chat session.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/termchat/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// hostEnvVars maps well known endpoint hosts to the environment variable
// their users conventionally export.
var hostEnvVars = map[string]string{
	"openrouter.ai":  "OPENROUTER_API_KEY",
	"api.openai.com": "OPENAI_API_KEY",
}

// Manager manages reading and writing credentials.toml in the .termchat/ directory.
type Manager struct {
	ddm        *dotdir.Manager
	override   string
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the .termchat/ directory; otherwise the standard dotdir resolution
// applies. When no directory resolves, Load returns empty credentials and
// Save creates ~/.termchat/.
func NewManager(override string) (*Manager, error) {
	mgr := &Manager{
		ddm:      dotdir.NewManager(),
		override: override,
	}

	target, err := mgr.ddm.Target(override)
	if err != nil {
		return nil, err
	}

	if target != "" {
		mgr.targetPath = filepath.Join(target, credentialsFile)
	}

	return mgr, nil
}

// Load reads credentials.toml from the target directory.
// Returns an empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	empty := &Credentials{
		Version: currentVersion,
		Hosts:   make(map[string]HostCredential),
	}
	if m.targetPath == "" {
		return empty, nil
	}

	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return empty, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.Version != currentVersion {
		return nil, fmt.Errorf("unsupported credentials version %d (expected %d)", creds.Version, currentVersion)
	}

	if creds.Hosts == nil {
		creds.Hosts = make(map[string]HostCredential)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	if m.targetPath == "" {
		target, err := m.ddm.EnsureTarget(m.override)
		if err != nil {
			return err
		}
		m.targetPath = filepath.Join(target, credentialsFile)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetKey stores an API key for the given endpoint host.
func (m *Manager) SetKey(host, key string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Hosts[host] = HostCredential{APIKey: key}

	return m.Save(creds)
}

// GetKey returns the stored API key for the given host.
// Returns an empty string if no key is stored.
func (m *Manager) GetKey(host string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}

	return creds.Hosts[host].APIKey, nil
}

// RemoveKey deletes the stored credential for a host.
func (m *Manager) RemoveKey(host string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	if _, ok := creds.Hosts[host]; !ok {
		return nil
	}
	delete(creds.Hosts, host)

	return m.Save(creds)
}

// ListHosts returns the hosts that have stored credentials, sorted.
func (m *Manager) ListHosts() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	hosts := make([]string, 0, len(creds.Hosts))
	for name := range creds.Hosts {
		hosts = append(hosts, name)
	}

	sort.Strings(hosts)

	return hosts, nil
}

// GetTarget returns the resolved path to the credentials file. It is empty
// until a .termchat/ directory exists.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

// Resolve picks the API key for endpoint. The configured value (already
// resolved through flag, TERMCHAT_ env var and config.toml) wins, then the
// host's conventional env var, then credentials.toml.
func (m *Manager) Resolve(configured, endpoint string) (string, Source, error) {
	if configured != "" {
		return configured, SourceConfig, nil
	}

	host, err := HostFromEndpoint(endpoint)
	if err != nil {
		return "", SourceNone, err
	}

	if envVar := EnvVarForHost(host); envVar != "" {
		if key := os.Getenv(envVar); key != "" {
			return key, SourceEnv, nil
		}
	}

	key, err := m.GetKey(host)
	if err != nil {
		return "", SourceNone, err
	}
	if key != "" {
		return key, SourceCredentials, nil
	}

	return "", SourceNone, nil
}

// EnvVarForHost returns the environment variable name for a given host.
// Returns an empty string for unknown hosts.
func EnvVarForHost(host string) string {
	return hostEnvVars[strings.ToLower(host)]
}

// HostFromEndpoint extracts the lowercased host (with port, if any) from an
// endpoint URL.
func HostFromEndpoint(endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("parsing endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}
	return strings.ToLower(u.Host), nil
}

// IsLoopbackHost reports whether host (optionally with a port) names the
// local machine. Local servers such as Ollama accept any bearer value.
func IsLoopbackHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
