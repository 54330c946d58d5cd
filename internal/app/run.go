package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/agent"
	"github.com/blackwell-systems/deskwatch/internal/category"
	"github.com/blackwell-systems/deskwatch/internal/config"
	"github.com/blackwell-systems/deskwatch/internal/desktop"
	"github.com/blackwell-systems/deskwatch/internal/logging"
	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/shutdown"
	"github.com/blackwell-systems/deskwatch/internal/store"
	"github.com/blackwell-systems/deskwatch/internal/sysmon"
	"github.com/blackwell-systems/deskwatch/internal/tracker"
)

var (
	runFlagDaemon      bool
	runFlagStop        bool
	runFlagQuiet       bool
	runFlagPoll        float64
	runFlagMinDuration float64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start tracking desktop activity",
	Long: `Run the activity tracker. It polls the foreground window, snapshots
system processes, extracts searches from browser titles, and keeps daily
aggregates current until stopped.

Examples:
  deskwatch run                    # run in foreground (ctrl-c to stop)
  deskwatch run --poll 2           # poll the foreground window every 2s
  deskwatch run --daemon           # background mode: PID file, log to file
  deskwatch run --stop             # stop the background tracker`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFlagDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	runCmd.Flags().BoolVar(&runFlagStop, "stop", false, "Stop a running background tracker")
	runCmd.Flags().BoolVar(&runFlagQuiet, "quiet", false, "Suppress the periodic status line")
	runCmd.Flags().Float64Var(&runFlagPoll, "poll", 0, "Poll interval in seconds (overrides config)")
	runCmd.Flags().Float64Var(&runFlagMinDuration, "min-duration", 0, "Minimum segment duration in seconds (overrides config)")
	rootCmd.AddCommand(runCmd)
}

// pidFilePath returns the tracker PID file path, kept next to the database.
func pidFilePath(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.DBPath()), "deskwatch.pid")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if runFlagPoll > 0 {
		cfg.PollIntervalSeconds = runFlagPoll
	}
	if runFlagMinDuration > 0 {
		cfg.MinDurationSeconds = runFlagMinDuration
	}
	if flagVerbose {
		cfg.Log.Level = "debug"
	}

	if runFlagStop {
		return stopTracker(cfg)
	}

	// Background mode logs to a file so the terminal can be closed; the
	// foreground default is stderr unless the config says otherwise.
	logFile := cfg.Log.File
	if runFlagDaemon && logFile == "" {
		logFile = cfg.LogPath()
	}
	logger, closeLog, err := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	engine := category.NewEngine(category.Rules{
		ProductiveProcesses:  cfg.Rules.ProductiveProcesses,
		DistractionProcesses: cfg.Rules.DistractionProcesses,
		ProductiveKeywords:   cfg.Rules.ProductiveKeywords,
		DistractionKeywords:  cfg.Rules.DistractionKeywords,
	})

	windows := desktop.NewWindowSource()
	a := agent.New(agent.Options{
		DB: db,
		Tracker: tracker.New(db, tracker.Config{
			Windows:      windows,
			Sampler:      desktop.NewProcessSampler(),
			Engine:       engine,
			PollInterval: cfg.PollInterval(),
			MinDuration:  cfg.MinDuration(),
			Logger:       logger,
		}),
		Sysmon: sysmon.New(db, sysmon.Config{
			Scanner:  desktop.NewProcessScanner(),
			Host:     desktop.NewHostSource(),
			Interval: cfg.SnapshotInterval(),
			TopN:     cfg.Snapshot.TopN,
			Logger:   logger,
		}),
		Monitor: shutdown.NewMonitor(logger),
		Windows: windows,
		Logger:  logger,
	})

	if runFlagDaemon {
		return runTrackerDaemon(cfg, a)
	}
	return runTrackerForeground(cfg, a)
}

// runTrackerForeground runs the agent with a live status line until
// interrupted.
func runTrackerForeground(cfg *config.Config, a *agent.Agent) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	if !runFlagQuiet {
		fmt.Printf("deskwatch tracking... (poll %s, ctrl-c to stop)\n", cfg.PollInterval())
		go statusLoop(ctx, a)
	}

	if err := a.Run(ctx); err != nil {
		return err
	}

	if !runFlagQuiet {
		s := a.Stats()
		fmt.Printf("\nStopped. Tracked %s, %d segments logged, %d window switches.\n",
			output.Duration(s.SessionDuration), s.Logged, s.Switches)
	}
	return nil
}

// runTrackerDaemon writes the PID file, then runs the agent until signaled.
// Backgrounding itself is the caller's job (nohup, &, a unit file); Go
// cannot reliably fork.
func runTrackerDaemon(cfg *config.Config, a *agent.Agent) error {
	pidPath := pidFilePath(cfg)

	if pid, _, err := readPIDFile(pidPath); err == nil {
		if processExists(pid) {
			return fmt.Errorf("tracker already running (PID %d). Use --stop to stop it", pid)
		}
		// Stale PID file, remove it.
		_ = os.Remove(pidPath)
	}

	if err := os.MkdirAll(filepath.Dir(pidPath), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	pid := os.Getpid()
	line := fmt.Sprintf("%d %s\n", pid, a.RunID())
	if err := os.WriteFile(pidPath, []byte(line), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidPath) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Printf("deskwatch tracking in background (PID %d)\n", pid)
	return a.Run(ctx)
}

// statusLoop prints one status line every 10 seconds while the agent runs.
func statusLoop(ctx context.Context, a *agent.Agent) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			printStatusLine(a)
		}
	}
}

func printStatusLine(a *agent.Agent) {
	s := a.Stats()
	now := time.Now().Format("15:04:05")

	if live, ok := a.Current(); ok {
		fmt.Printf("[%s] %s · %s · %s | session %s · %d switches · %d scans\n",
			now,
			output.StyleBold.Render(live.App),
			live.Category,
			output.Duration(live.Elapsed),
			output.Duration(s.SessionDuration),
			s.Switches,
			s.ScanCount)
		return
	}
	fmt.Printf("[%s] no focused window | session %s · %d switches · %d scans\n",
		now, output.Duration(s.SessionDuration), s.Switches, s.ScanCount)
}

// stopTracker reads the PID file and asks the background tracker to shut
// down cleanly. The tracker's own signal handler performs the final flush.
func stopTracker(cfg *config.Config) error {
	pidPath := pidFilePath(cfg)

	pid, runID, err := readPIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("no tracker running (could not read PID file: %v)", err)
	}

	if !processExists(pid) {
		// Clean up stale PID file.
		_ = os.Remove(pidPath)
		return fmt.Errorf("no tracker running (PID %d is not active, cleaned up stale PID file)", pid)
	}

	if err := terminateProcess(pid); err != nil {
		return fmt.Errorf("failed to stop tracker (PID %d): %w", pid, err)
	}

	_ = os.Remove(pidPath)
	if runID != "" {
		fmt.Printf("Stopped tracker (PID %d, run %s)\n", pid, runID)
	} else {
		fmt.Printf("Stopped tracker (PID %d)\n", pid)
	}
	return nil
}

// readPIDFile parses "pid run-id" from the PID file. The run id is absent
// in files written by older builds.
func readPIDFile(path string) (int, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, "", err
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("empty PID file %s", path)
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", fmt.Errorf("bad PID file %s: %w", path, err)
	}
	runID := ""
	if len(fields) > 1 {
		runID = fields[1]
	}
	return pid, runID, nil
}
