package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/category"
	"github.com/blackwell-systems/deskwatch/internal/config"
	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var (
	todayFlagDate     string
	todayFlagApps     int
	todayFlagSegments int
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the daily activity report",
	Long: `Show the full report for one day: totals, the per-category breakdown,
the most used applications, and optionally the raw activity segments.

Examples:
  deskwatch today                    # today's report
  deskwatch today -d 2026-08-20      # a past day
  deskwatch today --segments 25      # include the last 25 raw segments`,
	RunE: runToday,
}

func init() {
	todayCmd.Flags().StringVarP(&todayFlagDate, "date", "d", "", "Date (YYYY-MM-DD), defaults to today")
	todayCmd.Flags().IntVar(&todayFlagApps, "apps", 10, "Number of applications to list")
	todayCmd.Flags().IntVar(&todayFlagSegments, "segments", 0, "Also list the N most recent raw segments")
	rootCmd.AddCommand(todayCmd)
}

// parseDate parses a --date value, defaulting to the current local day.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// openStore loads config and opens the activity database for a report
// command.
func openStore() (*store.DB, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

type todayReport struct {
	Date       string                `json:"date"`
	Stat       *store.DailyStat      `json:"stat"`
	Categories []store.CategorySlice `json:"categories"`
	Apps       []store.AppSlice      `json:"apps"`
	Segments   []store.Segment       `json:"segments,omitempty"`
}

func runToday(cmd *cobra.Command, args []string) error {
	date, err := parseDate(todayFlagDate)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	report := todayReport{Date: date.Format("2006-01-02")}
	if report.Stat, err = db.DailyStatForDate(date); err != nil {
		return fmt.Errorf("reading daily stats: %w", err)
	}
	if report.Categories, err = db.CategoryBreakdown(date); err != nil {
		return fmt.Errorf("reading category breakdown: %w", err)
	}
	if report.Apps, err = db.AppBreakdown(date); err != nil {
		return fmt.Errorf("reading app breakdown: %w", err)
	}
	if len(report.Apps) > todayFlagApps {
		report.Apps = report.Apps[:todayFlagApps]
	}
	if todayFlagSegments > 0 {
		if report.Segments, err = db.SegmentsForDate(date, todayFlagSegments); err != nil {
			return fmt.Errorf("reading segments: %w", err)
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderTodaySummary(report)
	renderTodayCategories(report)
	renderTodayApps(report)
	if len(report.Segments) > 0 {
		renderTodaySegments(report)
	}
	fmt.Println()
	return nil
}

func renderTodaySummary(r todayReport) {
	fmt.Println(output.Section("Activity Report " + r.Date))
	fmt.Println()

	if r.Stat == nil || r.Stat.TotalSeconds == 0 {
		fmt.Println(output.StyleMuted.Render(" No tracked activity for this date."))
		return
	}

	score := r.Stat.ProductiveSeconds / r.Stat.TotalSeconds * 100

	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Total tracked:"),
		output.StyleValue.Render(output.DurationSeconds(r.Stat.TotalSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Productive:"),
		output.StyleSuccess.Render(output.DurationSeconds(r.Stat.ProductiveSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Distraction:"),
		output.StyleError.Render(output.DurationSeconds(r.Stat.DistractionSeconds)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Score:"),
		output.ScoreBar(score, 20))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Top app:"),
		output.StyleBold.Render(r.Stat.TopApp))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Top category:"),
		r.Stat.TopCategory)
	fmt.Printf(" %s %d\n",
		output.StyleLabel.Render("Segments:"),
		r.Stat.SessionCount)
}

func renderTodayCategories(r todayReport) {
	if len(r.Categories) == 0 {
		return
	}

	var total float64
	for _, c := range r.Categories {
		total += c.TotalSeconds
	}

	fmt.Println(output.Section("Categories"))
	fmt.Println()

	tbl := output.NewTable("Category", "Time", "Share", "Switches")
	for _, c := range r.Categories {
		share := 0.0
		if total > 0 {
			share = c.TotalSeconds / total * 100
		}
		tbl.AddRow(
			styleCategory(c.Category),
			output.DurationSeconds(c.TotalSeconds),
			output.Percent(share),
			fmt.Sprintf("%d", c.SwitchCount),
		)
	}
	tbl.Print()
}

func renderTodayApps(r todayReport) {
	if len(r.Apps) == 0 {
		return
	}

	fmt.Println(output.Section("Top Applications"))
	fmt.Println()

	tbl := output.NewTable("App", "Time", "Switches", "Avg Mem", "Avg CPU")
	for _, a := range r.Apps {
		tbl.AddRow(
			a.AppName,
			output.DurationSeconds(a.TotalSeconds),
			fmt.Sprintf("%d", a.SwitchCount),
			output.Memory(a.AvgMemoryMB),
			output.Percent(a.AvgCPU),
		)
	}
	tbl.Print()
}

func renderTodaySegments(r todayReport) {
	fmt.Println(output.Section("Recent Segments"))
	fmt.Println()

	tbl := output.NewTable("Start", "Duration", "App", "Category", "Window Title")
	for _, s := range r.Segments {
		tbl.AddRow(
			s.StartTime.Format("15:04:05"),
			output.DurationSeconds(s.DurationSeconds),
			s.AppName,
			styleCategory(s.Category),
			output.Truncate(s.WindowTitle, 40),
		)
	}
	tbl.Print()
}

// styleCategory colors a category name by its productivity weight.
func styleCategory(cat string) string {
	c := category.Category(cat)
	switch {
	case category.IsProductive(c):
		return output.StyleSuccess.Render(cat)
	case c == category.Distraction:
		return output.StyleError.Render(cat)
	default:
		return cat
	}
}
