package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/ui"
	"github.com/lvyanru/triagectl/internal/domain"
)

// askCmd sends one free-text description to the AI triage
var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "classify a symptom description with the AI triage",
	Long: `Send a free-text symptom description to the AI triage and print the
result: triage code, risk level, confidence and the recommended next step.`,
	Example: `  $ triagectl ask "febre alta e dor de garganta há 2 dias"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runAsk,
}

func init() {
	askCmd.SilenceUsage = true
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	message := strings.Join(args, " ")

	ctx, cancel := a.Context()
	defer cancel()

	chat := a.NewChatService()
	resp, err := chat.Send(ctx, message)
	if err != nil {
		ui.PrintErrorBox("Triage Failed", domain.UserMessage(err))
		if domain.IsSessionExpired(err) || domain.IsNotAuthenticated(err) {
			fmt.Println("\nRun 'triagectl login' to authenticate.")
		}
		return fmt.Errorf("triage failed")
	}

	fmt.Println(ui.RenderTriageResult(resp))
	return nil
}
