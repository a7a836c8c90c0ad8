package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/ui"
)

// logoutCmd is the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "remove the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	logoutCmd.SilenceUsage = true
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Auth.IsLoggedIn() {
		ui.PrintInfo("No active session.")
		return nil
	}

	if err := a.Auth.Logout(); err != nil {
		ui.PrintError("failed to clear session: %v", err)
		return fmt.Errorf("logout failed")
	}

	ui.PrintSuccess("Logged out")
	return nil
}
