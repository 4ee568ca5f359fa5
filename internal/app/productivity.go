package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/output"
	"github.com/blackwell-systems/codepulse/internal/query"
)

var productivityDays int

var productivityCmd = &cobra.Command{
	Use:   "productivity",
	Short: "Per-day productivity scores",
	Long: `Score each day's output on a 0-10 scale from activity volume, edit
size, and file spread.`,
	RunE: runProductivity,
}

func init() {
	productivityCmd.Flags().IntVar(&productivityDays, "days", 0, "Lookback window in days (default 30)")
	rootCmd.AddCommand(productivityCmd)
}

func runProductivity(cmd *cobra.Command, args []string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		days, err := q.Productivity(ctx, user, productivityDays)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(days)
		}

		fmt.Println(output.Section("Productivity"))
		if len(days) == 0 {
			fmt.Printf(" %s\n\n", output.StyleMuted.Render("No activity recorded"))
			return nil
		}

		for _, d := range days {
			fmt.Printf(" %s %s %s\n",
				output.StyleMuted.Render(d.Date),
				output.ScoreBar(d.Score, 10),
				output.StyleMuted.Render(fmt.Sprintf("%d events, %d files, %dm", d.ActivityCount, d.FileCount, d.SessionMinutes)))
		}
		fmt.Println()
		return nil
	})
}
