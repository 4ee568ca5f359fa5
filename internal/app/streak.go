package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/output"
	"github.com/blackwell-systems/codepulse/internal/query"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Coding streaks",
	Long: `Show the current and longest consecutive-day coding streaks over the
trailing year. The current streak stays alive until a full day passes
with no activity.`,
	RunE: runStreak,
}

func init() {
	rootCmd.AddCommand(streakCmd)
}

func runStreak(cmd *cobra.Command, args []string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		streaks, err := q.Streak(ctx, user)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(streaks)
		}

		fmt.Println(output.Section("Streaks"))
		current := fmt.Sprintf("%d days", streaks.CurrentStreak)
		if streaks.CurrentStreak > 0 {
			current = output.StyleSuccess.Render(current)
		} else {
			current = output.StyleMuted.Render(current)
		}
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Current streak"), current)
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Longest streak"),
			output.StyleValue.Render(fmt.Sprintf("%d days", streaks.LongestStreak)))
		fmt.Printf(" %s %s\n",
			output.StyleLabel.Render("Active days"),
			output.StyleValue.Render(fmt.Sprintf("%d", streaks.TotalActiveDays)))
		fmt.Println()
		return nil
	})
}
