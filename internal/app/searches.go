package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/deskwatch/internal/output"
	"github.com/blackwell-systems/deskwatch/internal/store"
)

var (
	searchesFlagDate  string
	searchesFlagLimit int
	visitsFlagDate    string
	visitsFlagLimit   int
	visitsFlagDomains bool
)

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List searches extracted from browser window titles",
	Long: `List the search queries deskwatch extracted from browser window
titles for one day, newest first.

Examples:
  deskwatch searches                 # today's searches
  deskwatch searches -d 2026-08-20   # a past day`,
	RunE: runSearches,
}

var visitsCmd = &cobra.Command{
	Use:   "visits",
	Short: "List recorded browser page visits",
	Long: `List browser page visits supplied by a history producer, newest
first, or aggregate them per domain.

Examples:
  deskwatch visits                   # today's visits
  deskwatch visits --domains         # time per domain instead`,
	RunE: runVisits,
}

func init() {
	searchesCmd.Flags().StringVarP(&searchesFlagDate, "date", "d", "", "Date (YYYY-MM-DD), defaults to today")
	searchesCmd.Flags().IntVar(&searchesFlagLimit, "limit", 25, "Max records to list")
	visitsCmd.Flags().StringVarP(&visitsFlagDate, "date", "d", "", "Date (YYYY-MM-DD), defaults to today")
	visitsCmd.Flags().IntVar(&visitsFlagLimit, "limit", 25, "Max records to list")
	visitsCmd.Flags().BoolVar(&visitsFlagDomains, "domains", false, "Aggregate by domain instead of listing visits")
	rootCmd.AddCommand(searchesCmd)
	rootCmd.AddCommand(visitsCmd)
}

func runSearches(cmd *cobra.Command, args []string) error {
	date, err := parseDate(searchesFlagDate)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.SearchesForDate(date, searchesFlagLimit)
	if err != nil {
		return fmt.Errorf("reading searches: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	fmt.Println(output.Section("Searches " + date.Format("2006-01-02")))
	fmt.Println()

	if len(records) == 0 {
		fmt.Println(output.StyleMuted.Render(" No searches recorded for this date."))
		fmt.Println()
		return nil
	}

	tbl := output.NewTable("Time", "Browser", "Query", "Source")
	for _, r := range records {
		tbl.AddRow(
			r.Timestamp.Format("15:04:05"),
			r.Browser,
			output.StyleBold.Render(output.Truncate(r.Query, 50)),
			output.StyleMuted.Render(r.Source),
		)
	}
	tbl.Print()
	fmt.Println()
	return nil
}

func runVisits(cmd *cobra.Command, args []string) error {
	date, err := parseDate(visitsFlagDate)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if visitsFlagDomains {
		return runDomainBreakdown(db, date)
	}

	visits, err := db.VisitsForDate(date, visitsFlagLimit)
	if err != nil {
		return fmt.Errorf("reading visits: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(visits)
	}

	fmt.Println(output.Section("Page Visits " + date.Format("2006-01-02")))
	fmt.Println()

	if len(visits) == 0 {
		fmt.Println(output.StyleMuted.Render(" No visits recorded for this date."))
		fmt.Println()
		return nil
	}

	tbl := output.NewTable("Time", "Browser", "Domain", "Title", "Duration")
	for _, v := range visits {
		title := v.Title
		if title == "" {
			title = v.URL
		}
		tbl.AddRow(
			v.Timestamp.Format("15:04:05"),
			v.Browser,
			v.Domain,
			output.Truncate(title, 40),
			output.DurationSeconds(v.DurationSeconds),
		)
	}
	tbl.Print()
	fmt.Println()
	return nil
}

func runDomainBreakdown(db *store.DB, date time.Time) error {
	domains, err := db.DomainBreakdown(date)
	if err != nil {
		return fmt.Errorf("reading domain breakdown: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(domains)
	}

	fmt.Println(output.Section("Domains " + date.Format("2006-01-02")))
	fmt.Println()

	if len(domains) == 0 {
		fmt.Println(output.StyleMuted.Render(" No visits recorded for this date."))
		fmt.Println()
		return nil
	}

	tbl := output.NewTable("Domain", "Visits", "Time")
	for _, d := range domains {
		tbl.AddRow(
			output.StyleBold.Render(d.Domain),
			fmt.Sprintf("%d", d.VisitCount),
			output.DurationSeconds(d.TotalDuration),
		)
	}
	tbl.Print()
	fmt.Println()
	return nil
}
