package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TobiSchelling/insiderwatch/internal/config"
	"github.com/TobiSchelling/insiderwatch/internal/database"
	"github.com/TobiSchelling/insiderwatch/internal/notify"
	"github.com/TobiSchelling/insiderwatch/internal/pipeline"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "insiderwatch",
	Short:   "SEC Form 4 filing notifications",
	Long:    "insiderwatch scans the SEC EDGAR Form 4 feed, extracts insider transactions, and posts one notification per new filing.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(tickersCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("insiderwatch", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/insiderwatch/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set the webhook URL, or export DISCORD_WEBHOOK.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tracked state",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Println("State:")
		fmt.Printf("  Filings in snapshot: %d\n", stats.SeenFilings)
		fmt.Printf("  Tracked tickers: %d\n", stats.TrackedTickers)
		if stats.LastScanAt != "" {
			fmt.Printf("  Last scan: %s\n", stats.LastScanAt)
		} else {
			fmt.Println("  Last scan: never")
		}
		if cfg.WebhookURL() == "" {
			fmt.Println("\nWebhook: not configured (notifications disabled)")
		} else {
			fmt.Println("\nWebhook: configured")
		}
		return nil
	},
}

// --- scan command ---

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the Form 4 feed and notify for new filings",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		for _, symbol := range cfg.Feed.Tickers {
			if _, err := db.AddTicker(symbol); err != nil {
				return fmt.Errorf("seeding ticker %q: %w", symbol, err)
			}
		}

		pipe := pipeline.New(cfg, db)
		result := pipe.Run(context.Background())

		for i, step := range result.Steps {
			fmt.Printf("\nStep %d/%d: %s\n", i+1, len(result.Steps), step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}
		fmt.Printf("\nScan complete: %d new, %d notified, %d skipped, %d failed\n",
			result.New, result.Notified, result.Skipped, result.Failed)
		return nil
	},
}

// --- tickers command ---

var tickersCmd = &cobra.Command{
	Use:   "tickers",
	Short: "Manage the tracked-ticker filter",
	Long:  "Manage the allow-list of ticker symbols. An empty list means every Form 4 filing is notified.",
}

var tickersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked tickers",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		symbols, err := db.GetTrackedTickers()
		if err != nil {
			return err
		}
		if len(symbols) == 0 {
			fmt.Println("No tickers tracked; all filings are notified.")
			return nil
		}
		fmt.Printf("Tracking %d tickers:\n", len(symbols))
		for _, s := range symbols {
			fmt.Printf("  %s\n", s)
		}
		return nil
	},
}

var tickersAddCmd = &cobra.Command{
	Use:   "add [symbol...]",
	Short: "Add tickers to the filter",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		for _, arg := range args {
			symbol := strings.ToUpper(strings.TrimSpace(arg))
			added, err := db.AddTicker(symbol)
			if err != nil {
				return err
			}
			if added {
				fmt.Printf("Added %s\n", symbol)
			} else {
				fmt.Printf("%s already tracked\n", symbol)
			}
		}
		return announceTickers(cmd.Context(), db, "updated")
	},
}

var tickersRemoveCmd = &cobra.Command{
	Use:   "remove [symbol...]",
	Short: "Remove tickers from the filter",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		for _, arg := range args {
			symbol := strings.ToUpper(strings.TrimSpace(arg))
			removed, err := db.RemoveTicker(symbol)
			if err != nil {
				return err
			}
			if removed {
				fmt.Printf("Removed %s\n", symbol)
			} else {
				fmt.Printf("%s was not tracked\n", symbol)
			}
		}
		return announceTickers(cmd.Context(), db, "updated")
	},
}

var tickersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the filter (track everything)",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ClearTickers()
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d tickers; all filings will be notified.\n", n)
		return announceTickers(cmd.Context(), db, "cleared")
	},
}

func init() {
	tickersCmd.AddCommand(tickersListCmd)
	tickersCmd.AddCommand(tickersAddCmd)
	tickersCmd.AddCommand(tickersRemoveCmd)
	tickersCmd.AddCommand(tickersClearCmd)
}

// announceTickers sends the post-mutation summary of the active set to
// the webhook. A no-op when no webhook is configured.
func announceTickers(ctx context.Context, db *database.DB, action string) error {
	url := cfg.WebhookURL()
	if url == "" {
		return nil
	}

	symbols, err := db.GetTrackedTickers()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d := notify.NewDiscord(url, cfg.HTTPTimeout())
	if err := d.NotifyTickers(ctx, action, symbols); err != nil {
		log.Printf("Ticker summary notification failed: %v", err)
	}
	return nil
}

func openDB() (*database.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "insiderwatch.db")
	return database.Open(dbPath)
}
