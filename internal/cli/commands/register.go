package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/auth"
	"github.com/lvyanru/triagectl/internal/cli/mask"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/cli/ui"
	"github.com/lvyanru/triagectl/internal/domain"
)

var (
	registerRole string
)

// registerCmd is the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "create a patient or doctor account",
	Long: `Create an account and sign in with it.

Patients may give a CPF and phone number; doctors must give their CRM.
CPF and phone are typed freely and stored as digits only.`,
	Example: `  # Register as a patient
  $ triagectl register

  # Register as a doctor
  $ triagectl register --role doctor`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerRole, "role", "r", "", "Account role: patient or doctor")

	registerCmd.SilenceUsage = true
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req, err := askRegistration()
	if err != nil {
		ui.PrintError("failed to read registration: %v", err)
		return fmt.Errorf("input failed")
	}

	// Local rules first so nothing is sent for an invalid form
	if _, err := auth.NormalizeRegister(*req); err != nil {
		ui.PrintErrorBox("Registration Failed", domain.UserMessage(err))
		return fmt.Errorf("invalid registration")
	}

	ctx, cancel := a.Context()
	defer cancel()

	ui.PrintInfo("Connecting to %s...", a.Client.BaseURL())

	user, err := a.Auth.Register(ctx, *req)
	if err != nil {
		ui.PrintErrorBox("Registration Failed", domain.UserMessage(err))
		return fmt.Errorf("registration failed")
	}

	content := fmt.Sprintf(`Nome:     %s
E-mail:   %s
Perfil:   %s`, user.Name, user.Email, user.Role)
	if cpf := mask.CPF(req.Identifier); cpf != "" {
		content += "\nCPF:      " + mask.FormatCPF(cpf)
	}
	if phone := mask.Phone(req.Phone); phone != "" {
		content += "\nTelefone: " + mask.FormatPhone(phone)
	}
	ui.PrintSuccessBox("✓ Registration Successful", content)

	fmt.Println()
	if user.IsDoctor() {
		ui.PrintInfo("Run 'triagectl dashboard' to review waiting patients.")
	} else {
		ui.PrintInfo("Run 'triagectl profile' to complete your profile.")
	}
	return nil
}

// askRegistration prompts for every registration field
func askRegistration() (*types.RegisterRequest, error) {
	req := &types.RegisterRequest{Role: types.Role(registerRole)}

	if req.Role == "" {
		var role string
		prompt := &survey.Select{
			Message: "Tipo de conta:",
			Options: []string{string(types.RolePatient), string(types.RoleDoctor)},
			Default: string(types.RolePatient),
		}
		if err := survey.AskOne(prompt, &role); err != nil {
			return nil, err
		}
		req.Role = types.Role(role)
	}
	if req.Role != types.RolePatient && req.Role != types.RoleDoctor {
		return nil, fmt.Errorf("invalid role '%s', must be 'patient' or 'doctor'", req.Role)
	}

	questions := []*survey.Question{
		{Name: "name", Prompt: &survey.Input{Message: "Nome completo:"}, Validate: survey.Required},
		{Name: "email", Prompt: &survey.Input{Message: "E-mail:"}, Validate: survey.Required},
		{Name: "password", Prompt: &survey.Password{Message: fmt.Sprintf("Senha (mínimo %d caracteres):", auth.MinPasswordLength)}, Validate: survey.Required},
		{Name: "confirm", Prompt: &survey.Password{Message: "Confirme a senha:"}, Validate: survey.Required},
	}
	answers := struct {
		Name     string `survey:"name"`
		Email    string `survey:"email"`
		Password string `survey:"password"`
		Confirm  string `survey:"confirm"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}
	req.Name = answers.Name
	req.Email = answers.Email
	req.Password = answers.Password
	req.ConfirmPassword = answers.Confirm

	if req.Role == types.RoleDoctor {
		prompt := &survey.Input{Message: "CRM:"}
		if err := survey.AskOne(prompt, &req.License, survey.WithValidator(survey.Required)); err != nil {
			return nil, err
		}
	}

	cpfPrompt := &survey.Input{Message: "CPF (opcional):", Help: "000.000.000-00"}
	if err := survey.AskOne(cpfPrompt, &req.Identifier, survey.WithValidator(digitsAtMost(mask.CPFDigits))); err != nil {
		return nil, err
	}

	phonePrompt := &survey.Input{Message: "Telefone (opcional):", Help: "(00) 00000-0000"}
	if err := survey.AskOne(phonePrompt, &req.Phone, survey.WithValidator(digitsAtMost(mask.PhoneDigits))); err != nil {
		return nil, err
	}

	return req, nil
}

// digitsAtMost rejects masked input holding more than max digits
func digitsAtMost(max int) survey.Validator {
	return func(ans interface{}) error {
		s, _ := ans.(string)
		if n := len(mask.OnlyDigits(s)); n > max {
			return fmt.Errorf("no máximo %d dígitos (recebidos %d)", max, n)
		}
		return nil
	}
}
