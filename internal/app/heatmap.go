package app

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var heatmapFlagWeeks int

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Show the productivity heatmap",
	Long: `Render a calendar heatmap of daily productivity scores, one column
per week, Monday at the top. Darker cells are less productive days; days
without data stay blank.

Examples:
  deskwatch heatmap              # the last 20 weeks
  deskwatch heatmap --weeks 52   # a full year`,
	RunE: runHeatmap,
}

func init() {
	heatmapCmd.Flags().IntVar(&heatmapFlagWeeks, "weeks", 20, "Number of weeks to display")
	rootCmd.AddCommand(heatmapCmd)
}

type heatmapReport struct {
	Weeks  int                `json:"weeks"`
	Days   []store.HeatmapDay `json:"days"`
	Streak store.StreakInfo   `json:"streak"`
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	report := heatmapReport{Weeks: heatmapFlagWeeks}
	if report.Days, err = db.HeatmapSeries(heatmapFlagWeeks); err != nil {
		return fmt.Errorf("reading heatmap series: %w", err)
	}
	if report.Streak, err = db.Streak(); err != nil {
		return fmt.Errorf("reading streak: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderHeatmap(report)
	return nil
}

func renderHeatmap(r heatmapReport) {
	scores := make(map[string]int, len(r.Days))
	for _, d := range r.Days {
		scores[d.Date] = d.Score
	}

	// The grid starts on the Monday of the earliest displayed week so the
	// columns align with calendar weeks.
	today := time.Now()
	mondayOffset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -mondayOffset-7*(r.Weeks-1))

	fmt.Println(output.Section("Productivity Heatmap"))
	fmt.Println()

	// Month labels above the columns where a new month begins.
	var months strings.Builder
	months.WriteString("     ")
	prevMonth := time.Month(0)
	for w := 0; w < r.Weeks; w++ {
		col := start.AddDate(0, 0, 7*w)
		if col.Month() != prevMonth {
			label := col.Format("Jan")
			months.WriteString(label)
			if pad := 3 - len(label); pad > 0 {
				months.WriteString(strings.Repeat(" ", pad))
			}
			prevMonth = col.Month()
		} else {
			months.WriteString("  ")
		}
	}
	fmt.Println(output.StyleMuted.Render(months.String()))

	dayLabels := []string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}
	for dayIdx := 0; dayIdx < 7; dayIdx++ {
		var row strings.Builder
		row.WriteString(output.StyleMuted.Render(dayLabels[dayIdx] + "  "))
		for w := 0; w < r.Weeks; w++ {
			d := start.AddDate(0, 0, 7*w+dayIdx)
			if d.After(today) {
				row.WriteString("  ")
				continue
			}
			score, hasData := scores[d.Format("2006-01-02")]
			row.WriteString(output.HeatCell(float64(score), hasData))
		}
		fmt.Println(row.String())
	}

	fmt.Println()
	fmt.Printf("     %s\n", output.HeatLegend())
	fmt.Println()
	fmt.Printf(" %s %d days   %s %d days   %s %d days tracked\n",
		output.StyleMuted.Render("Current streak:"),
		r.Streak.CurrentStreak,
		output.StyleMuted.Render("Longest:"),
		r.Streak.LongestStreak,
		output.StyleMuted.Render("Total:"),
		r.Streak.TotalDaysTracked)
	fmt.Println()
}
