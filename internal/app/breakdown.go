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
	breakdownDays int
	filesLimit    int
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "Language breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBreakdown(aggregate.ByLanguage, "Languages")
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Project breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBreakdown(aggregate.ByProject, "Projects")
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Most-touched files",
	RunE:  runFiles,
}

func init() {
	for _, cmd := range []*cobra.Command{languagesCmd, projectsCmd, filesCmd} {
		cmd.Flags().IntVar(&breakdownDays, "days", 0, "Lookback window in days (default 30)")
		rootCmd.AddCommand(cmd)
	}
	filesCmd.Flags().IntVar(&filesLimit, "limit", 0, "Maximum files to show (default 50)")
}

func runBreakdown(kind aggregate.BreakdownKind, title string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		groups, err := q.Breakdown(ctx, user, kind, breakdownDays)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(groups)
		}

		fmt.Println(output.Section(title))
		if len(groups) == 0 {
			fmt.Printf(" %s\n\n", output.StyleMuted.Render("No activity recorded"))
			return nil
		}

		tbl := output.NewTable("Name", "Count", "Change", "Files", "Share", "Time").
			AlignRight(1, 2, 3, 4, 5)
		for _, g := range groups {
			tbl.AddRow(
				g.Key,
				fmt.Sprintf("%d", g.Count),
				fmt.Sprintf("%d", g.ChangeSize),
				fmt.Sprintf("%d", g.FileCount),
				fmt.Sprintf("%d%%", g.Percentage),
				fmt.Sprintf("%dm", g.TimeSpent),
			)
		}
		fmt.Println(tbl.Render())
		return nil
	})
}

func runFiles(cmd *cobra.Command, args []string) error {
	return withQuery(func(ctx context.Context, q *query.Service, user string) error {
		files, err := q.Files(ctx, user, breakdownDays, filesLimit)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(files)
		}

		fmt.Println(output.Section("Files"))
		if len(files) == 0 {
			fmt.Printf(" %s\n\n", output.StyleMuted.Render("No activity recorded"))
			return nil
		}

		tbl := output.NewTable("File", "Language", "Project", "Count", "Edits", "Change").
			AlignRight(3, 4, 5)
		for _, f := range files {
			tbl.AddRow(
				f.FileName,
				f.Language,
				f.Project,
				fmt.Sprintf("%d", f.Count),
				fmt.Sprintf("%d", f.EditCount),
				fmt.Sprintf("%d", f.ChangeSize),
			)
		}
		fmt.Println(tbl.Render())
		return nil
	})
}
