package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var historyFlagDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show multi-day productivity history",
	Long: `Show one line per tracked day: total time, productive time, the
productivity score with its day-over-day trend, and the top application.

Examples:
  deskwatch history              # the last 7 days
  deskwatch history --days 30    # the last month`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyFlagDays, "days", 7, "Number of days to show")
	rootCmd.AddCommand(historyCmd)
}

type historyReport struct {
	Days   int               `json:"days"`
	Stats  []store.DailyStat `json:"stats"`
	Streak store.StreakInfo  `json:"streak"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	report := historyReport{Days: historyFlagDays}
	if report.Stats, err = db.StatsRange(historyFlagDays); err != nil {
		return fmt.Errorf("reading stats range: %w", err)
	}
	if report.Streak, err = db.Streak(); err != nil {
		return fmt.Errorf("reading streak: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Println(output.Section(fmt.Sprintf("Last %d Days", historyFlagDays)))
	fmt.Println()

	if len(report.Stats) == 0 {
		fmt.Println(output.StyleMuted.Render(" No history yet."))
		fmt.Println()
		return nil
	}

	// Stats come newest first; the trend compares each day to the one before
	// it chronologically, which is the next element.
	tbl := output.NewTable("Date", "Total", "Productive", "Score", "Trend", "Top App")
	for i, day := range report.Stats {
		trend := output.StyleMuted.Render("─")
		if i+1 < len(report.Stats) {
			trend = output.TrendArrow(dayScore(day)-dayScore(report.Stats[i+1]), true)
		}
		tbl.AddRow(
			day.Date,
			output.DurationSeconds(day.TotalSeconds),
			output.DurationSeconds(day.ProductiveSeconds),
			output.ScoreBar(dayScore(day), 10),
			trend,
			output.Truncate(day.TopApp, 20),
		)
	}
	tbl.Print()

	renderHistorySummary(report)
	return nil
}

func renderHistorySummary(r historyReport) {
	var totalSec, prodSec, scoreSum float64
	for _, day := range r.Stats {
		totalSec += day.TotalSeconds
		prodSec += day.ProductiveSeconds
		scoreSum += dayScore(day)
	}
	mean := scoreSum / float64(len(r.Stats))

	fmt.Println(output.Section("Summary"))
	fmt.Println()
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Total tracked:"),
		output.StyleValue.Render(output.DurationSeconds(totalSec)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Productive:"),
		output.StyleSuccess.Render(output.DurationSeconds(prodSec)))
	fmt.Printf(" %s %.0f/100\n",
		output.StyleLabel.Render("Mean score:"),
		mean)
	fmt.Printf(" %s %d days (longest %d, %d tracked)\n",
		output.StyleLabel.Render("Streak:"),
		r.Streak.CurrentStreak, r.Streak.LongestStreak, r.Streak.TotalDaysTracked)

	// With enough days, compare the recent half against the earlier half.
	if n := len(r.Stats); n >= 4 {
		recent := productiveShare(r.Stats[:n/2])
		earlier := productiveShare(r.Stats[n/2:])
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Recent vs earlier:"),
			output.TrendArrowPercent(recent-earlier, true))
	}
	fmt.Println()
}

// dayScore computes the productivity score of one stored day.
func dayScore(d store.DailyStat) float64 {
	if d.TotalSeconds <= 0 {
		return 0
	}
	return d.ProductiveSeconds / d.TotalSeconds * 100
}

// productiveShare is the productive percentage over a set of days.
func productiveShare(days []store.DailyStat) float64 {
	var total, prod float64
	for _, d := range days {
		total += d.TotalSeconds
		prod += d.ProductiveSeconds
	}
	if total <= 0 {
		return 0
	}
	return prod / total * 100
}
