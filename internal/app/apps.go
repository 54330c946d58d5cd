package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/category"
	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var (
	appsFlagDate string
	appsFlagDays int
)

var appsCmd = &cobra.Command{
	Use:   "apps [app-name]",
	Short: "List tracked applications or inspect one in depth",
	Long: `Without arguments, list every application ever tracked with its
all-time totals. With an application name, show the deep per-app view:
totals, resource envelope, top window titles, and recent-day history.

Examples:
  deskwatch apps                     # all tracked applications
  deskwatch apps code                # today's analytics for 'code'
  deskwatch apps code -d 2026-08-20  # a past day
  deskwatch apps code --days 14      # include 14 days of history`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApps,
}

func init() {
	appsCmd.Flags().StringVarP(&appsFlagDate, "date", "d", "", "Date (YYYY-MM-DD), defaults to today")
	appsCmd.Flags().IntVar(&appsFlagDays, "days", 7, "Days of history in the deep-dive view")
	rootCmd.AddCommand(appsCmd)
}

func runApps(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 0 {
		return runAppsList(db)
	}
	return runAppsDetail(db, args[0])
}

func runAppsList(db *store.DB) error {
	apps, err := db.TrackedApps()
	if err != nil {
		return fmt.Errorf("reading tracked apps: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(apps)
	}

	fmt.Println(output.Section("Tracked Applications"))
	fmt.Println()

	if len(apps) == 0 {
		fmt.Println(output.StyleMuted.Render(" Nothing tracked yet."))
		fmt.Println()
		return nil
	}

	tbl := output.NewTable("App", "Role", "Category", "Total Time", "Sessions", "Avg Mem", "Peak Mem")
	for _, a := range apps {
		tbl.AddRow(
			output.StyleBold.Render(a.AppName),
			category.Role(a.AppName),
			styleCategory(a.Category),
			output.DurationSeconds(a.TotalSeconds),
			fmt.Sprintf("%d", a.TotalSessions),
			output.Memory(a.AvgMemoryMB),
			output.Memory(a.PeakMemoryMB),
		)
	}
	tbl.Print()
	fmt.Println()
	return nil
}

type appDetail struct {
	Analytics *store.AppAnalytics `json:"analytics"`
	History   []store.AppDayUsage `json:"history,omitempty"`
}

func runAppsDetail(db *store.DB, name string) error {
	date, err := parseDate(appsFlagDate)
	if err != nil {
		return err
	}

	detail := appDetail{}
	if detail.Analytics, err = db.AppAnalytics(name, date); err != nil {
		return fmt.Errorf("reading app analytics: %w", err)
	}
	if appsFlagDays > 0 {
		if detail.History, err = db.AppHistory(name, appsFlagDays); err != nil {
			return fmt.Errorf("reading app history: %w", err)
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	}

	if detail.Analytics == nil {
		fmt.Printf("\nNo data for %q on %s.\n\n", name, date.Format("2006-01-02"))
		return nil
	}

	a := detail.Analytics
	fmt.Println(output.Section(fmt.Sprintf("%s on %s", a.AppName, a.Date)))
	fmt.Println()

	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Total time:"),
		output.StyleValue.Render(output.DurationSeconds(a.TotalSeconds)))
	fmt.Printf(" %s %d\n",
		output.StyleLabel.Render("Segments:"),
		a.SessionCount)
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Category:"),
		styleCategory(a.Category))
	fmt.Printf(" %s %s / %s\n",
		output.StyleLabel.Render("First / last seen:"),
		a.FirstSeen.Format("15:04:05"), a.LastSeen.Format("15:04:05"))
	fmt.Printf(" %s %s avg, %s peak\n",
		output.StyleLabel.Render("Memory:"),
		output.Memory(a.AvgMemoryMB), output.Memory(a.PeakMemoryMB))
	fmt.Printf(" %s %s avg, %s peak\n",
		output.StyleLabel.Render("CPU:"),
		output.Percent(a.AvgCPU), output.Percent(a.PeakCPU))

	if len(a.TopTitles) > 0 {
		fmt.Println(output.Section("Top Window Titles"))
		fmt.Println()
		tbl := output.NewTable("Window Title", "Time", "Count")
		for _, ts := range a.TopTitles {
			tbl.AddRow(
				output.Truncate(ts.WindowTitle, 50),
				output.DurationSeconds(ts.TotalSeconds),
				fmt.Sprintf("%d", ts.Count),
			)
		}
		tbl.Print()
	}

	if len(detail.History) > 0 {
		fmt.Println(output.Section(fmt.Sprintf("Last %d Days", appsFlagDays)))
		fmt.Println()
		tbl := output.NewTable("Date", "Time", "Segments", "Avg Mem", "Avg CPU")
		for _, day := range detail.History {
			tbl.AddRow(
				day.Date,
				output.DurationSeconds(day.TotalSeconds),
				fmt.Sprintf("%d", day.SessionCount),
				output.Memory(day.AvgMemoryMB),
				output.Percent(day.AvgCPU),
			)
		}
		tbl.Print()
	}

	fmt.Println()
	return nil
}
