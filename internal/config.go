package internal

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultBaseURL     = "https://pephub-api.databio.org/"
	DefaultIdentityURL = "https://github.com/login"
	DefaultTimeout     = 30 * time.Second

	credentialFileName = "jwt.txt"
	historyFileName    = "history.db"
)

// DeviceFlowMode selects how login waits for the user to authorize the device
type DeviceFlowMode string

const (
	DeviceFlowPoll   DeviceFlowMode = "poll"
	DeviceFlowManual DeviceFlowMode = "manual"
)

// DeviceFlowConfig controls the device-code wait
type DeviceFlowConfig struct {
	Mode DeviceFlowMode `mapstructure:"mode" yaml:"mode"`
}

// Config is built once at the composition root and handed to every component
type Config struct {
	BaseURL            string           `mapstructure:"base_url" yaml:"base_url"`
	IdentityURL        string           `mapstructure:"identity_url" yaml:"identity_url"`
	ClientID           string           `mapstructure:"client_id" yaml:"client_id"`
	Timeout            time.Duration    `mapstructure:"timeout" yaml:"timeout"`
	InsecureSkipVerify bool             `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	DataDir            string           `mapstructure:"data_dir" yaml:"data_dir"`
	DeviceFlow         DeviceFlowConfig `mapstructure:"device_flow" yaml:"device_flow"`
}

// DefaultDataDir returns ~/.pephubclient
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pephubclient"), nil
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() (Config, error) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaseURL:     DefaultBaseURL,
		IdentityURL: DefaultIdentityURL,
		Timeout:     DefaultTimeout,
		DataDir:     dataDir,
		DeviceFlow:  DeviceFlowConfig{Mode: DeviceFlowPoll},
	}, nil
}

// Validate normalizes URLs and rejects unusable values
func (c *Config) Validate() error {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"base_url", &c.BaseURL},
		{"identity_url", &c.IdentityURL},
	} {
		u, err := url.Parse(*field.value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", field.name, *field.value)
		}
		*field.value = strings.TrimRight(*field.value, "/")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch c.DeviceFlow.Mode {
	case "":
		c.DeviceFlow.Mode = DeviceFlowPoll
	case DeviceFlowPoll, DeviceFlowManual:
	default:
		return fmt.Errorf("unsupported device_flow.mode %q (supported: poll, manual)", c.DeviceFlow.Mode)
	}
	return nil
}

// CredentialPath is where the session token is kept
func (c Config) CredentialPath() string {
	return filepath.Join(c.DataDir, credentialFileName)
}

// HistoryPath is the sqlite file recording client operations
func (c Config) HistoryPath() string {
	return filepath.Join(c.DataDir, historyFileName)
}

// HubURL joins path segments onto the hub base URL
func (c Config) HubURL(segments ...string) string {
	return joinURL(c.BaseURL, segments...)
}

// ProviderURL joins path segments onto the identity provider URL
func (c Config) ProviderURL(segments ...string) string {
	return joinURL(c.IdentityURL, segments...)
}

func joinURL(base string, segments ...string) string {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, strings.TrimRight(base, "/"))
	for _, s := range segments {
		for _, part := range strings.Split(strings.Trim(s, "/"), "/") {
			if part == "" {
				continue
			}
			escaped = append(escaped, url.PathEscape(part))
		}
	}
	return strings.Join(escaped, "/")
}
