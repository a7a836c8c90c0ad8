package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/guard"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/cli/ui"
	"github.com/lvyanru/triagectl/internal/domain"
)

var (
	loginEmail string
)

// loginCmd is the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "sign in to the triage service",
	Long: `Sign in with your e-mail and password and save the session locally.

The bearer token and your user record are kept in the session storage
configured under storage (~/.triagectl/session.json by default) and sent
with every later request until you log out or the server rejects it.`,
	Example: `  # Login (prompts for e-mail and password)
  $ triagectl login

  # Login with e-mail (prompts for password)
  $ triagectl login -e maria@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "E-mail for authentication")

	// Silence usage to avoid showing help on every error
	loginCmd.SilenceUsage = true
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// 1. Prompt for e-mail if not provided
	if loginEmail == "" {
		prompt := &survey.Input{
			Message: "E-mail:",
		}
		if err := survey.AskOne(prompt, &loginEmail, survey.WithValidator(survey.Required)); err != nil {
			ui.PrintError("failed to read e-mail: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	// 2. Prompt for password (hidden input)
	var password string
	prompt := &survey.Password{
		Message: "Senha:",
	}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.Required)); err != nil {
		ui.PrintError("failed to read password: %v", err)
		return fmt.Errorf("input failed")
	}

	ctx, cancel := a.Context()
	defer cancel()

	ui.PrintInfo("Connecting to %s...", a.Client.BaseURL())

	// 3. Call login API; the session is stored on success
	user, err := a.Auth.Login(ctx, types.LoginRequest{Email: loginEmail, Password: password})
	if err != nil {
		ui.PrintErrorBox("Login Failed", domain.UserMessage(err))
		return fmt.Errorf("authentication failed")
	}

	// 4. Display success message
	landing := guard.Resolve(string(guard.RouteRoot), a.Auth)
	successContent := fmt.Sprintf(`Nome:           %s
E-mail:         %s
Perfil:         %s
Sessão salva:   %s`,
		user.Name,
		user.Email,
		user.Role,
		a.Config.Storage.Path,
	)

	ui.PrintSuccessBox("✓ Login Successful", successContent)

	// 5. Display usage hints for the landing screen
	fmt.Println()
	ui.PrintInfo("You can now use the following commands:")
	if landing == guard.RouteDashboard {
		ui.PrintBold("  triagectl dashboard      # Review waiting patients")
	} else {
		ui.PrintBold("  triagectl chat           # Start the intake chat")
		ui.PrintBold("  triagectl profile        # Complete your profile")
	}
	ui.PrintBold("  triagectl status         # Show the current session")

	return nil
}
