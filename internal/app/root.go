// Package app contains the Cobra command tree for deskwatch.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/config"
	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "deskwatch",
	Short: "Local desktop activity tracking and productivity insight",
	Long: `deskwatch watches which window is in the foreground, samples system
resource usage, extracts searches from browser window titles, and keeps
every record in a local SQLite database. Nothing leaves your machine.

Run 'deskwatch' with no arguments to see a quick summary of today.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagNoColor || !output.ColorSupported() {
			output.SetNoColor(true)
		}
	},
	RunE: runDashboard,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/deskwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
}

// dashboard is the JSON shape of the no-argument summary.
type dashboard struct {
	Date      string           `json:"date"`
	Stat      *store.DailyStat `json:"today"`
	Streak    store.StreakInfo `json:"streak"`
	FocusRuns int              `json:"focus_sessions_today"`
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := os.Stat(cfg.DBPath()); err != nil {
		fmt.Println("deskwatch", appVersion)
		fmt.Println()
		fmt.Println("No activity database yet. Start tracking with:")
		fmt.Println("  deskwatch run")
		return nil
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	now := time.Now()
	stat, err := db.DailyStatForDate(now)
	if err != nil {
		return fmt.Errorf("reading daily stats: %w", err)
	}
	streak, err := db.Streak()
	if err != nil {
		return fmt.Errorf("reading streak: %w", err)
	}
	focusToday, err := db.FocusSessionsForDate(now, 50)
	if err != nil {
		return fmt.Errorf("reading focus sessions: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dashboard{
			Date:      now.Format("2006-01-02"),
			Stat:      stat,
			Streak:    streak,
			FocusRuns: len(focusToday),
		})
	}

	fmt.Println(output.Section(now.Format("Monday, January 2, 2006")))
	fmt.Println()

	if stat == nil || stat.TotalSeconds == 0 {
		fmt.Println(output.StyleMuted.Render(" Nothing tracked yet today."))
		fmt.Println()
		return nil
	}

	score := 0.0
	if stat.TotalSeconds > 0 {
		score = stat.ProductiveSeconds / stat.TotalSeconds * 100
	}

	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Total tracked:"),
		output.StyleValue.Render(output.DurationSeconds(stat.TotalSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Productive time:"),
		output.StyleSuccess.Render(output.DurationSeconds(stat.ProductiveSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Distraction time:"),
		output.StyleError.Render(output.DurationSeconds(stat.DistractionSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Productivity score:"),
		output.ScoreBar(score, 20))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Top app:"),
		output.StyleBold.Render(stat.TopApp))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Sessions:"),
		fmt.Sprintf("%d", stat.SessionCount))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Streak:"),
		fmt.Sprintf("%d days (longest %d)", streak.CurrentStreak, streak.LongestStreak))
	if len(focusToday) > 0 {
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Focus sessions:"),
			fmt.Sprintf("%d today", len(focusToday)))
	}
	fmt.Println()
	fmt.Println(output.StyleMuted.Render(" deskwatch today --help for the full report"))
	fmt.Println()
	return nil
}
