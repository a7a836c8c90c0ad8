package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/ui"
)

// statusCmd is the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show the current session",
	Long: `Show who is signed in, against which server, and when the token
expires if it carries an expiry claim.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.SilenceUsage = true
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Auth.IsLoggedIn() {
		fmt.Println(ui.RenderSessionStatus(nil, nil, a.Client.BaseURL(), time.Now()))
		fmt.Println("\nRun 'triagectl login' to authenticate.")
		return nil
	}

	// Opaque tokens have no readable claims; the session is still shown
	info, err := a.Auth.TokenClaims()
	if err != nil {
		a.Logger.Debug("token claims unavailable", "error", err)
		info = nil
	}

	fmt.Println(ui.RenderSessionStatus(a.Auth.CurrentUser(), info, a.Client.BaseURL(), time.Now()))
	return nil
}
