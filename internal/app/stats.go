package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/output"
	"github.com/blackwell-systems/codepulse/internal/query"
)

var (
	statsTimeframe string
	statsDaily     int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Overall activity statistics for a timeframe",
	Long: `Show overall activity statistics: event counts, edit volume, unique
files and languages, and estimated active time. The timeframe is one of
day, week, month, year, or custom (a 30-day window).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsTimeframe, "timeframe", "day", "Timeframe: day, week, month, year, custom")
	statsCmd.Flags().IntVar(&statsDaily, "daily", 0, "Also show a per-day rollup for the last N days")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		summary, err := q.Summary(ctx, user, query.Timeframe(statsTimeframe))
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(summary)
		}

		fmt.Println(output.Section(fmt.Sprintf("Activity (%s)", statsTimeframe)))
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Total activities"),
			output.StyleValue.Render(fmt.Sprintf("%d", summary.TotalActivities)))
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Edits"),
			output.StyleValue.Render(fmt.Sprintf("%d", summary.EditActivities)))
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Change size"),
			output.StyleValue.Render(fmt.Sprintf("%d", summary.TotalChangeSize)))
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Unique files"),
			output.StyleValue.Render(fmt.Sprintf("%d", summary.UniqueFiles)))
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Unique languages"),
			output.StyleValue.Render(fmt.Sprintf("%d", summary.UniqueLanguages)))
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Active time"),
			output.StyleValue.Render(summary.ActiveTime))
		fmt.Println()

		if statsDaily > 0 {
			days, err := q.DailySummary(ctx, user, statsDaily)
			if err != nil {
				return err
			}
			fmt.Println(output.Section(fmt.Sprintf("Daily rollup (last %d days)", statsDaily)))
			tbl := output.NewTable("Date", "Total", "Types").AlignRight(1)
			for _, d := range days {
				types := ""
				for i, tc := range d.Activities {
					if i > 0 {
						types += ", "
					}
					types += fmt.Sprintf("%s %d", tc.Type, tc.Count)
				}
				tbl.AddRow(d.Date, fmt.Sprintf("%d", d.TotalCount), types)
			}
			fmt.Println(tbl.Render())
		}

		return nil
	})
}
