package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/codepulse/internal/output"
)

var (
	userTracking     bool
	userSyncInterval int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Register a username",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

var userShowCmd = &cobra.Command{
	Use:   "show <username>",
	Short: "Show a user's settings and last activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserShow,
}

var userSetCmd = &cobra.Command{
	Use:   "set <username>",
	Short: "Update a user's tracking settings",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserSet,
}

func init() {
	userSetCmd.Flags().BoolVar(&userTracking, "tracking", true, "Enable or disable activity tracking")
	userSetCmd.Flags().IntVar(&userSyncInterval, "sync-interval", 5, "Client sync interval in minutes")
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSetCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.CreateUser(context.Background(), args[0]); err != nil {
		return fmt.Errorf("creating user %q: %w", args[0], err)
	}
	fmt.Printf("user %q created\n", args[0])
	return nil
}

func runUserShow(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	u, err := db.GetUser(context.Background(), args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(u)
	}

	fmt.Println(output.Section(u.Username))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Created"),
		output.StyleValue.Render(u.CreatedAt.Format("2006-01-02")))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Last active"),
		output.StyleValue.Render(u.LastActive.Format("2006-01-02 15:04")))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Tracking"),
		output.StyleValue.Render(fmt.Sprintf("%t", u.TrackingEnabled)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Sync interval"),
		output.StyleValue.Render(fmt.Sprintf("%dm", u.SyncIntervalMinutes)))
	fmt.Println()
	return nil
}

func runUserSet(cmd *cobra.Command, args []string) error {
	_, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.UpdateUserSettings(context.Background(), args[0], userTracking, userSyncInterval); err != nil {
		return err
	}
	fmt.Printf("user %q updated\n", args[0])
	return nil
}
