package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/desktop"
	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var (
	systemFlagDate  string
	systemFlagLimit int
)

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show system resource usage",
	Long: `Show current host resources plus the heaviest processes recorded by
the snapshot collector for one day, ranked by memory and by CPU.

Examples:
  deskwatch system                   # today's view
  deskwatch system -d 2026-08-20     # a past day
  deskwatch system --limit 5         # only the top 5 processes`,
	RunE: runSystem,
}

func init() {
	systemCmd.Flags().StringVarP(&systemFlagDate, "date", "d", "", "Date (YYYY-MM-DD), defaults to today")
	systemCmd.Flags().IntVar(&systemFlagLimit, "limit", 10, "Number of processes per ranking")
	rootCmd.AddCommand(systemCmd)
}

type systemReport struct {
	Date      string              `json:"date"`
	Host      *desktop.HostStats  `json:"host,omitempty"`
	TopMemory []store.ProcessLoad `json:"top_memory"`
	TopCPU    []store.ProcessLoad `json:"top_cpu"`
	Snapshots int                 `json:"snapshot_scans"`
}

func runSystem(cmd *cobra.Command, args []string) error {
	date, err := parseDate(systemFlagDate)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	report := systemReport{Date: date.Format("2006-01-02")}
	if report.TopMemory, err = db.TopMemory(date, systemFlagLimit); err != nil {
		return fmt.Errorf("reading top memory: %w", err)
	}
	if report.TopCPU, err = db.TopCPU(date, systemFlagLimit); err != nil {
		return fmt.Errorf("reading top cpu: %w", err)
	}
	if report.Snapshots, err = db.SnapshotCount(date); err != nil {
		return fmt.Errorf("reading snapshot count: %w", err)
	}

	// Host stats are a live probe, not a stored record.
	if host, err := desktop.NewHostSource().Stats(); err == nil {
		report.Host = &host
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderHost(report.Host)
	renderProcessRanking("Top Processes by Memory", report.TopMemory)
	renderProcessRanking("Top Processes by CPU", report.TopCPU)

	fmt.Println()
	fmt.Printf(" %s\n", output.StyleMuted.Render(
		fmt.Sprintf("%d snapshot scans recorded on %s", report.Snapshots, report.Date)))
	fmt.Println()
	return nil
}

func renderHost(h *desktop.HostStats) {
	fmt.Println(output.Section("Host"))
	fmt.Println()

	if h == nil {
		fmt.Println(output.StyleMuted.Render(" Host statistics not available on this system."))
		return
	}

	fmt.Printf(" %s %s of %s (%s)\n",
		output.StyleLabel.Render("Memory:"),
		output.Memory(h.MemUsedMB), output.Memory(h.MemTotalMB),
		output.Percent(h.MemUsedPercent))
	fmt.Printf(" %s %.1f GB of %.1f GB (%s)\n",
		output.StyleLabel.Render("Disk:"),
		h.DiskUsedGB, h.DiskTotalGB,
		output.Percent(h.DiskUsedPercent))
	fmt.Printf(" %s %.2f / %.2f / %.2f on %d cores\n",
		output.StyleLabel.Render("Load average:"),
		h.Load1, h.Load5, h.Load15, h.CPUs)
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Uptime:"),
		output.Duration(h.Uptime))
}

func renderProcessRanking(title string, procs []store.ProcessLoad) {
	fmt.Println(output.Section(title))
	fmt.Println()

	if len(procs) == 0 {
		fmt.Println(output.StyleMuted.Render(" No snapshots recorded for this date."))
		return
	}

	tbl := output.NewTable("Process", "Avg Mem", "Peak Mem", "Avg CPU", "Instances")
	for _, p := range procs {
		tbl.AddRow(
			output.StyleBold.Render(p.AppName),
			output.Memory(p.AvgMemoryMB),
			output.Memory(p.PeakMemoryMB),
			output.Percent(p.AvgCPU),
			fmt.Sprintf("%d", p.InstanceCount),
		)
	}
	tbl.Print()
}
