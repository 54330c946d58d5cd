package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/category"
	"github.com/blackwell-systems/deskwatch/internal/config"
	"github.com/blackwell-systems/deskwatch/internal/desktop"
	"github.com/blackwell-systems/deskwatch/internal/focus"
	"github.com/blackwell-systems/deskwatch/internal/logging"
	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var (
	focusFlagMinutes int
	focusFlagGoal    string
	focusFlagDate    string
	focusFlagLimit   int
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a timed focus session",
	Long: `Start a bounded focus session. deskwatch watches the foreground
window for the session's length, counts each switch into a distracting
application as one interruption, and scores the session when it ends.

Ctrl-c ends the session early; the partial session is still scored and
saved.

Examples:
  deskwatch focus                            # 25-minute session
  deskwatch focus -m 50                      # 50-minute session
  deskwatch focus -g "write the migration"   # label the session
  deskwatch focus history                    # past sessions
  deskwatch focus stats                      # lifetime aggregates`,
	RunE: runFocusSession,
}

var focusHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past focus sessions",
	RunE:  runFocusHistory,
}

var focusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime focus statistics",
	RunE:  runFocusStats,
}

func init() {
	focusCmd.Flags().IntVarP(&focusFlagMinutes, "minutes", "m", 25, "Session length in minutes")
	focusCmd.Flags().StringVarP(&focusFlagGoal, "goal", "g", "", "What this session is for")
	focusHistoryCmd.Flags().StringVarP(&focusFlagDate, "date", "d", "", "Only sessions from this date (YYYY-MM-DD)")
	focusHistoryCmd.Flags().IntVar(&focusFlagLimit, "limit", 15, "Max sessions to list")
	focusCmd.AddCommand(focusHistoryCmd)
	focusCmd.AddCommand(focusStatsCmd)
	rootCmd.AddCommand(focusCmd)
}

func runFocusSession(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Keep the session view clean: only warnings unless --verbose.
	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	logger, closeLog, err := logging.Setup(logging.Config{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	windows := desktop.NewWindowSource()
	if ok, why := windows.Available(); !ok {
		return fmt.Errorf("cannot run a focus session: %s", why)
	}

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	m := focus.New(db, focus.Config{
		Windows: windows,
		Engine: category.NewEngine(category.Rules{
			ProductiveProcesses:  cfg.Rules.ProductiveProcesses,
			DistractionProcesses: cfg.Rules.DistractionProcesses,
			ProductiveKeywords:   cfg.Rules.ProductiveKeywords,
			DistractionKeywords:  cfg.Rules.DistractionKeywords,
		}),
		Target:       time.Duration(focusFlagMinutes) * time.Minute,
		Goal:         focusFlagGoal,
		PollInterval: cfg.FocusPollInterval(),
		Logger:       logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("\nFocus session started: %d minutes", focusFlagMinutes)
	if focusFlagGoal != "" {
		fmt.Printf(" (%s)", focusFlagGoal)
	}
	fmt.Println(". Ctrl-c to end early.")
	fmt.Println()

	errCh := make(chan error, 1)
	go func() { errCh <- m.Run(ctx) }()

	// A live terminal gets a self-updating progress line; a pipe gets one
	// plain line every 30 seconds.
	interactive := !output.IsNoColor()
	tick := 30 * time.Second
	if interactive {
		tick = time.Second
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var runErr error
loop:
	for {
		select {
		case runErr = <-errCh:
			break loop
		case e := <-m.Events():
			if interactive {
				fmt.Print("\r\x1b[K")
			}
			fmt.Printf("[%s] distracted by %s (%s)\n",
				e.Time.Format("15:04:05"), e.App, e.Category)
		case <-ticker.C:
			st := m.Status()
			if interactive {
				fmt.Printf("\r\x1b[K %s", focusProgressLine(st))
			} else {
				fmt.Printf(" %s\n", focusProgressLine(st))
			}
		}
	}
	if interactive {
		fmt.Print("\r\x1b[K")
	}

	summary := m.Stop()
	renderFocusSummary(summary, errors.Is(runErr, context.Canceled))
	return nil
}

func focusProgressLine(st focus.Status) string {
	state := output.StyleSuccess.Render("focused")
	if st.Distracted {
		state = output.StyleError.Render("distracted")
	}
	window := st.App
	if window == "" {
		window = "no window"
	}
	return fmt.Sprintf("%s remaining · %s · %s · %d interruptions",
		output.Duration(st.Remaining.Round(time.Second)),
		state,
		output.Truncate(window, 24),
		len(st.Interruptions))
}

func renderFocusSummary(fs store.FocusSession, endedEarly bool) {
	fmt.Println(output.Section("Focus Session Complete"))
	fmt.Println()

	if endedEarly {
		fmt.Println(output.StyleMuted.Render(" Ended early."))
		fmt.Println()
	}

	actual := fs.EndTime.Sub(fs.StartTime)
	style := output.FocusStyle(fs.FocusScore)

	if fs.GoalLabel != "" {
		fmt.Printf(" %s %s\n", output.StyleLabel.Render("Goal:"), fs.GoalLabel)
	}
	fmt.Printf(" %s %s of %d minutes\n",
		output.StyleLabel.Render("Duration:"),
		output.Duration(actual.Round(time.Second)), fs.TargetMinutes)
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Focused:"),
		output.StyleSuccess.Render(output.DurationSeconds(fs.FocusSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Distracted:"),
		output.StyleError.Render(output.DurationSeconds(fs.DistractedSeconds)))
	fmt.Printf(" %s %d\n",
		output.StyleLabel.Render("Interruptions:"),
		fs.InterruptionCount)
	fmt.Printf(" %s %s %s\n",
		output.StyleLabel.Render("Score:"),
		style.Render(fmt.Sprintf("%.1f", fs.FocusScore)),
		output.StyleMuted.Render(output.FocusGrade(fs.FocusScore)))
	fmt.Println()
}

func runFocusHistory(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	var sessions []store.FocusSession
	if focusFlagDate != "" {
		date, err := parseDate(focusFlagDate)
		if err != nil {
			return err
		}
		sessions, err = db.FocusSessionsForDate(date, focusFlagLimit)
		if err != nil {
			return fmt.Errorf("reading focus sessions: %w", err)
		}
	} else {
		sessions, err = db.RecentFocusSessions(focusFlagLimit)
		if err != nil {
			return fmt.Errorf("reading focus sessions: %w", err)
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	fmt.Println(output.Section("Focus Sessions"))
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println(output.StyleMuted.Render(" No focus sessions yet. Try: deskwatch focus"))
		fmt.Println()
		return nil
	}

	tbl := output.NewTable("Started", "Target", "Focused", "Score", "Interruptions", "Goal")
	for _, s := range sessions {
		goal := s.GoalLabel
		if goal == "" {
			goal = output.StyleMuted.Render("-")
		}
		tbl.AddRow(
			s.StartTime.Format("2006-01-02 15:04"),
			fmt.Sprintf("%dm", s.TargetMinutes),
			output.DurationSeconds(s.FocusSeconds),
			output.FocusStyle(s.FocusScore).Render(fmt.Sprintf("%.0f", s.FocusScore)),
			fmt.Sprintf("%d", s.InterruptionCount),
			output.Truncate(goal, 20),
		)
	}
	tbl.Print()
	fmt.Println()
	return nil
}

func runFocusStats(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.FocusStats()
	if err != nil {
		return fmt.Errorf("reading focus stats: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Println(output.Section("Focus Statistics"))
	fmt.Println()

	if stats.TotalSessions == 0 {
		fmt.Println(output.StyleMuted.Render(" No focus sessions yet. Try: deskwatch focus"))
		fmt.Println()
		return nil
	}

	fmt.Printf(" %s %d\n",
		output.StyleLabel.Render("Sessions:"),
		stats.TotalSessions)
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Total focused:"),
		output.StyleValue.Render(output.DurationSeconds(stats.TotalFocusSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Average score:"),
		output.FocusStyle(stats.AvgFocusScore).Render(fmt.Sprintf("%.1f", stats.AvgFocusScore)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Best score:"),
		output.FocusStyle(stats.BestScore).Render(fmt.Sprintf("%.1f", stats.BestScore)))
	fmt.Printf(" %s %d\n",
		output.StyleLabel.Render("Interruptions:"),
		stats.TotalInterruptions)
	fmt.Println()
	return nil
}
