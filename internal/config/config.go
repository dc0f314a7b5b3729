package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Feed    Feed    `yaml:"feed"`
	EDGAR   EDGAR   `yaml:"edgar"`
	Notify  Notify  `yaml:"notify"`
	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
}

// Feed configures the EDGAR Atom feed scan. Tickers seeds the tracked
// set on each scan; the set itself is managed with the tickers command.
type Feed struct {
	URL        string   `yaml:"url"`
	MaxEntries int      `yaml:"max_entries"`
	Tickers    []string `yaml:"tickers"`
}

// EDGAR configures requests against sec.gov.
type EDGAR struct {
	UserAgent      string `yaml:"user_agent"`
	RequestDelayMs int    `yaml:"request_delay_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Notify configures the outbound webhook.
type Notify struct {
	WebhookURL      string `yaml:"webhook_url"`
	WebhookURLEnv   string `yaml:"webhook_url_env"`
	DispatchDelayMs int    `yaml:"dispatch_delay_ms"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for insiderwatch.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "insiderwatch")
}

// DataDir returns the XDG data directory for insiderwatch.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "insiderwatch")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/insiderwatch/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'insiderwatch init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Feed: Feed{
			URL:        "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=4&company=&dateb=&owner=include&start=0&count=100&output=atom",
			MaxEntries: 50,
		},
		EDGAR: EDGAR{
			UserAgent:      "insiderwatch/1.0 (github.com/TobiSchelling/insiderwatch)",
			RequestDelayMs: 250,
			TimeoutSeconds: 15,
		},
		Notify: Notify{
			WebhookURLEnv:   "DISCORD_WEBHOOK",
			DispatchDelayMs: 500,
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// WebhookURL resolves the webhook URL; the environment variable named in
// webhook_url_env takes precedence over the inline value. Empty means
// notifications are disabled.
func (c *Config) WebhookURL() string {
	if c.Notify.WebhookURLEnv != "" {
		if v := os.Getenv(c.Notify.WebhookURLEnv); v != "" {
			return v
		}
	}
	return c.Notify.WebhookURL
}

// RequestDelay returns the pause applied after each request to sec.gov.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.EDGAR.RequestDelayMs) * time.Millisecond
}

// DispatchDelay returns the pause applied after each webhook dispatch.
func (c *Config) DispatchDelay() time.Duration {
	return time.Duration(c.Notify.DispatchDelayMs) * time.Millisecond
}

// HTTPTimeout returns the per-request timeout for outbound HTTP calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.EDGAR.TimeoutSeconds) * time.Second
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
