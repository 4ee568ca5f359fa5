package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/aggregate"
	"github.com/blackwell-systems/codepulse/internal/output"
	"github.com/blackwell-systems/codepulse/internal/query"
)

var (
	trendsInterval string
	trendsDays     int
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Activity trends over time",
	Long:  `Bucket activity by day, week, or month and show volume over time.`,
	RunE:  runTrends,
}

func init() {
	trendsCmd.Flags().StringVar(&trendsInterval, "interval", "day", "Bucket size: day, week, month")
	trendsCmd.Flags().IntVar(&trendsDays, "days", 0, "Lookback window in days (default 90)")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		trends, err := q.Trends(ctx, user, aggregate.Interval(trendsInterval), trendsDays)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(trends)
		}

		fmt.Println(output.Section(fmt.Sprintf("Trends (%s)", trendsInterval)))
		if len(trends) == 0 {
			fmt.Printf(" %s\n\n", output.StyleMuted.Render("No activity recorded"))
			return nil
		}

		max := 0
		for _, p := range trends {
			if p.Count > max {
				max = p.Count
			}
		}

		for _, p := range trends {
			fmt.Printf(" %s %s %s\n",
				output.StyleMuted.Render(fmt.Sprintf("%-10s", p.Interval)),
				output.CountBar(p.Count, max, 40),
				output.StyleBold.Render(fmt.Sprintf("%d", p.Count)))
		}
		fmt.Println()
		return nil
	})
}
