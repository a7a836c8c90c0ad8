package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/cli/ui"
	"github.com/lvyanru/triagectl/internal/domain"
)

var (
	profileAge       int
	profileBloodType string
	profileAllergy   string
)

const bloodTypeNone = "Não informar"

var bloodTypes = []string{bloodTypeNone, "A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// profileCmd is the complete-profile command
var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"complete-profile"},
	Short:   "complete your patient profile",
	Long: `Save your age, blood type and allergies. Every field is optional;
blank fields are not sent. Without flags the fields are prompted.`,
	Example: `  # Prompt for every field
  $ triagectl profile

  # Set fields directly
  $ triagectl profile --age 34 --blood-type O+ --allergy dipirona`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().IntVar(&profileAge, "age", 0, "Age in years")
	profileCmd.Flags().StringVar(&profileBloodType, "blood-type", "", "Blood type (e.g. O+)")
	profileCmd.Flags().StringVar(&profileAllergy, "allergy", "", "Known allergies")

	profileCmd.SilenceUsage = true
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.Auth.IsLoggedIn() {
		ui.PrintError("not authenticated, please login first")
		fmt.Println("\nRun 'triagectl login' to authenticate.")
		return fmt.Errorf("authentication required")
	}

	details := types.PatientDetails{
		BloodType: profileBloodType,
		Allergy:   profileAllergy,
	}
	if cmd.Flags().Changed("age") {
		details.Age = &profileAge
	}

	if !anyChanged(cmd, "age", "blood-type", "allergy") {
		if err := askProfile(&details); err != nil {
			ui.PrintError("failed to read profile: %v", err)
			return fmt.Errorf("input failed")
		}
	}

	ctx, cancel := a.Context()
	defer cancel()

	if err := a.Auth.SavePatientDetails(ctx, details); err != nil {
		ui.PrintErrorBox("Profile Update Failed", domain.UserMessage(err))
		return fmt.Errorf("profile update failed")
	}

	ui.PrintSuccess("Perfil atualizado com sucesso!")
	return nil
}

func askProfile(details *types.PatientDetails) error {
	var age string
	agePrompt := &survey.Input{Message: "Idade (opcional):"}
	if err := survey.AskOne(agePrompt, &age, survey.WithValidator(optionalAge)); err != nil {
		return err
	}
	if age = strings.TrimSpace(age); age != "" {
		n, _ := strconv.Atoi(age)
		details.Age = &n
	}

	bloodPrompt := &survey.Select{
		Message: "Tipo sanguíneo (opcional):",
		Options: bloodTypes,
		Default: bloodTypeNone,
	}
	if err := survey.AskOne(bloodPrompt, &details.BloodType); err != nil {
		return err
	}
	if details.BloodType == bloodTypeNone {
		details.BloodType = ""
	}

	allergyPrompt := &survey.Input{Message: "Alergias (opcional):"}
	return survey.AskOne(allergyPrompt, &details.Allergy)
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func optionalAge(ans interface{}) error {
	s, _ := ans.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 150 {
		return fmt.Errorf("idade inválida: %s", s)
	}
	return nil
}
