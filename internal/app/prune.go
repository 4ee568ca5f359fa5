package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/query"
)

var (
	pruneFrom string
	pruneTo   string
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete activity data",
	Long: `Delete a user's recorded activities, optionally bounded by a time
range. Without --from or --to, all of the user's activities are removed.`,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVar(&pruneFrom, "from", "", "Only delete activities at or after this RFC 3339 timestamp")
	pruneCmd.Flags().StringVar(&pruneTo, "to", "", "Only delete activities at or before this RFC 3339 timestamp")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	var from, to time.Time
	if pruneFrom != "" {
		t, err := time.Parse(time.RFC3339, pruneFrom)
		if err != nil {
			return fmt.Errorf("parsing --from: %w", err)
		}
		from = t
	}
	if pruneTo != "" {
		t, err := time.Parse(time.RFC3339, pruneTo)
		if err != nil {
			return fmt.Errorf("parsing --to: %w", err)
		}
		to = t
	}

	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		deleted, err := q.Delete(ctx, user, from, to)
		if err != nil {
			return err
		}
		fmt.Printf("%d activities deleted\n", deleted)
		return nil
	})
}
