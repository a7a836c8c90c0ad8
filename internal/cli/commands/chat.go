package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/triage"
	"github.com/lvyanru/triagectl/internal/cli/tui"
	"github.com/lvyanru/triagectl/internal/cli/ui"
)

// chatCmd is the intake chat command
var chatCmd = &cobra.Command{
	Use:     "chat",
	Aliases: []string{"home"},
	Short:   "start the intake chat",
	Long: `Start the scripted intake chat. The bot asks for your main symptom,
how long you have had it and any other symptoms, shows a summary and sends it
to the hospital when you are signed in.

Type "corrigir" at any point to change an answer.`,
	Example: `  # Start the intake chat
  $ triagectl chat

  # Keyboard controls:
  • Enter sends a message
  • Ctrl+L starts over
  • Esc quits`,
	RunE: runChat,
}

func init() {
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Println("\nRun 'triagectl chat' to start an interactive session.")
		return fmt.Errorf("invalid arguments")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	program := tui.NewChatProgram(a.NewFlow(), tui.ChatOptions{
		TypingDelay:  a.Config.Chat.TypingDelay,
		SummaryDelay: a.Config.Chat.SummaryDelay,
		Greeting:     triage.MsgGreeting,
	})
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}
