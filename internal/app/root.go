// Package app contains the Cobra command tree for codepulse.
package app

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/config"
	"github.com/blackwell-systems/codepulse/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor  bool
	flagJSON     bool
	flagConfig   string
	flagUsername string
)

var rootCmd = &cobra.Command{
	Use:   "codepulse",
	Short: "Coding activity capture, sync, and analytics",
	Long: `codepulse captures fine-grained editing events, ships them to a
collection server, and turns the raw stream into analytics: summaries,
language and project breakdowns, hour and weekday distributions,
productivity scores, streaks, and trends.

Run 'codepulse serve' to start the collection server, or a query
subcommand against a local database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("codepulse", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  serve         Run the collection and analytics server")
		fmt.Println("  replay        Replay captured events from a JSONL file to a server")
		fmt.Println("  stats         Overall activity statistics for a timeframe")
		fmt.Println("  languages     Language breakdown")
		fmt.Println("  projects      Project breakdown")
		fmt.Println("  files         Most-touched files")
		fmt.Println("  hours         Hour-of-day distribution")
		fmt.Println("  weekdays      Day-of-week distribution")
		fmt.Println("  productivity  Per-day productivity scores")
		fmt.Println("  streak        Coding streaks")
		fmt.Println("  trends        Activity trends over time")
		fmt.Println("  user          Manage users")
		fmt.Println("  prune         Delete activity data")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/codepulse/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagUsername, "user", "u", "", "Username to query or record as")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}

// loadConfig loads configuration and applies output preferences. Color is
// disabled when requested, configured off, or stdout is not a terminal.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor || !cfg.Output.Color || !isatty.IsTerminal(os.Stdout.Fd()) {
		output.SetNoColor(true)
	}

	return cfg, nil
}

// resolveUser picks the username from the flag or config.
func resolveUser(cfg *config.Config) (string, error) {
	if flagUsername != "" {
		return flagUsername, nil
	}
	if cfg.Username != "" {
		return cfg.Username, nil
	}
	return "", fmt.Errorf("no username: pass --user or set username in the config file")
}
