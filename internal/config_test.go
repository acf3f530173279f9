package internal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultIdentityURL, cfg.IdentityURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DeviceFlowPoll, cfg.DeviceFlow.Mode)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, ".pephubclient", filepath.Base(cfg.DataDir))

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://pephub-api.databio.org", cfg.BaseURL, "trailing slash is trimmed")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			BaseURL:     "https://hub.example.org",
			IdentityURL: "https://github.com/login",
			Timeout:     time.Second,
			DataDir:     "/tmp/phc",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.BaseURL = "hub.example.org" }, wantErr: true},
		{name: "empty identity url", mutate: func(c *Config) { c.IdentityURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "no data dir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "manual mode", mutate: func(c *Config) { c.DeviceFlow.Mode = DeviceFlowManual }},
		{name: "unknown mode", mutate: func(c *Config) { c.DeviceFlow.Mode = "push" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DeviceFlowPoll, cfg.DeviceFlow.Mode, "empty mode defaults to poll")
}

func TestConfig_URLs(t *testing.T) {
	cfg := Config{BaseURL: "https://hub.example.org/", IdentityURL: "https://github.com/login", DataDir: "/data"}

	assert.Equal(t, "https://hub.example.org/api/v1/projects/geo/GSE124224", cfg.HubURL(projectsPath, "geo", "GSE124224"))
	assert.Equal(t, "https://hub.example.org/api/v1/projects/ns/my%20project/samples/s1",
		cfg.HubURL(projectsPath, "ns", "my project", "samples", "s1"))
	assert.Equal(t, "https://github.com/login/device/code", cfg.ProviderURL(deviceCodeEndpoint))
	assert.Equal(t, filepath.Join("/data", "jwt.txt"), cfg.CredentialPath())
	assert.Equal(t, filepath.Join("/data", "history.db"), cfg.HistoryPath())
}
