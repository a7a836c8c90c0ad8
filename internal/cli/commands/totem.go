package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/tui"
)

// totemCmd is the kiosk command
var totemCmd = &cobra.Command{
	Use:   "totem",
	Short: "run the self-service kiosk",
	Long: `Run the self-service kiosk. Each visitor describes their symptoms and
receives a ticket with a triage code to present at the intake desk.`,
	Example: `  $ triagectl totem

  # Keyboard controls:
  • Enter sends the description
  • Ctrl+N starts the next visitor
  • Esc quits`,
	Args: cobra.NoArgs,
	RunE: runTotem,
}

func init() {
	totemCmd.SilenceUsage = true
}

func runTotem(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	program := tui.NewTotemProgram(a.NewChatService())
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run totem TUI: %w", err)
	}
	return nil
}
