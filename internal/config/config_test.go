package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if !strings.Contains(cfg.Feed.URL, "type=4") {
		t.Errorf("expected feed URL restricted to Form 4, got %q", cfg.Feed.URL)
	}
	if cfg.Feed.MaxEntries != 50 {
		t.Errorf("expected max_entries 50, got %d", cfg.Feed.MaxEntries)
	}
	if cfg.EDGAR.UserAgent == "" {
		t.Error("expected a descriptive user agent")
	}
	if cfg.Notify.WebhookURLEnv != "DISCORD_WEBHOOK" {
		t.Errorf("expected webhook env DISCORD_WEBHOOK, got %q", cfg.Notify.WebhookURLEnv)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
notify:
  webhook_url: "https://discord.com/api/webhooks/1/abc"
edgar:
  request_delay_ms: 100
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Notify.WebhookURL != "https://discord.com/api/webhooks/1/abc" {
		t.Errorf("unexpected webhook url: %q", cfg.Notify.WebhookURL)
	}
	if cfg.RequestDelay() != 100*time.Millisecond {
		t.Errorf("expected 100ms request delay, got %v", cfg.RequestDelay())
	}
	// Defaults should still be set for unspecified fields
	if cfg.Feed.MaxEntries != 50 {
		t.Errorf("expected default max_entries, got %d", cfg.Feed.MaxEntries)
	}
	if cfg.EDGAR.TimeoutSeconds != 15 {
		t.Errorf("expected default timeout, got %d", cfg.EDGAR.TimeoutSeconds)
	}
}

func TestParseSeedTickers(t *testing.T) {
	data := []byte(`
feed:
  tickers: [AAPL, MSFT]
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse config: %v", err)
	}
	if len(cfg.Feed.Tickers) != 2 || cfg.Feed.Tickers[0] != "AAPL" || cfg.Feed.Tickers[1] != "MSFT" {
		t.Errorf("unexpected seed tickers: %v", cfg.Feed.Tickers)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Feed.URL == "" {
		t.Error("expected feed URL to be populated from file")
	}
}

func TestWebhookURLEnvPrecedence(t *testing.T) {
	cfg := &Config{
		Notify: Notify{
			WebhookURL:    "https://inline.example/hook",
			WebhookURLEnv: "INSIDERWATCH_TEST_WEBHOOK",
		},
	}

	if cfg.WebhookURL() != "https://inline.example/hook" {
		t.Errorf("expected inline url, got %q", cfg.WebhookURL())
	}

	t.Setenv("INSIDERWATCH_TEST_WEBHOOK", "https://env.example/hook")
	if cfg.WebhookURL() != "https://env.example/hook" {
		t.Errorf("expected env url to win, got %q", cfg.WebhookURL())
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
