package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/output"
	"github.com/blackwell-systems/codepulse/internal/query"
)

var distributionDays int

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Hour-of-day distribution",
	RunE:  runHours,
}

var weekdaysCmd = &cobra.Command{
	Use:   "weekdays",
	Short: "Day-of-week distribution",
	RunE:  runWeekdays,
}

func init() {
	hoursCmd.Flags().IntVar(&distributionDays, "days", 0, "Lookback window in days (default 30)")
	weekdaysCmd.Flags().IntVar(&distributionDays, "days", 0, "Lookback window in days (default 90)")
	rootCmd.AddCommand(hoursCmd)
	rootCmd.AddCommand(weekdaysCmd)
}

func runHours(cmd *cobra.Command, args []string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		hours, err := q.Hourly(ctx, user, distributionDays)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(hours)
		}

		max := 0
		for _, h := range hours {
			if h.Count > max {
				max = h.Count
			}
		}

		fmt.Println(output.Section("Activity by hour"))
		for _, h := range hours {
			fmt.Printf(" %s %s %s\n",
				output.StyleMuted.Render(fmt.Sprintf("%02d:00", h.Hour)),
				output.CountBar(h.Count, max, 40),
				output.StyleBold.Render(fmt.Sprintf("%d", h.Count)))
		}
		fmt.Println()
		return nil
	})
}

func runWeekdays(cmd *cobra.Command, args []string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		weekdays, err := q.Weekday(ctx, user, distributionDays)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(weekdays)
		}

		max := 0
		for _, d := range weekdays {
			if d.Count > max {
				max = d.Count
			}
		}

		fmt.Println(output.Section("Activity by weekday"))
		for _, d := range weekdays {
			fmt.Printf(" %s %s %s\n",
				output.StyleMuted.Render(fmt.Sprintf("%-9s", d.DayName)),
				output.CountBar(d.Count, max, 40),
				output.StyleBold.Render(fmt.Sprintf("%d", d.Count)))
		}
		fmt.Println()
		return nil
	})
}
