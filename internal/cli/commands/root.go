package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/app"
	"github.com/lvyanru/triagectl/internal/cli/ui"
)

const version = "0.1.0"

var configPath string

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "triagectl",
	Short:   "Medical pre-triage client",
	Version: version,
	Long: `A terminal client for the pre-triage service. Patients describe their
symptoms in a scripted chat and receive a risk classification; doctors review
waiting patients on a sortable dashboard.`,
	Example: `  # Create an account and sign in
  $ triagectl register
  $ triagectl login -e maria@example.com

  # Start the intake chat
  $ triagectl chat

  # Ask the AI triage directly
  $ triagectl ask "dor no peito há 2 horas"

  # Open the doctor dashboard sorted by age
  $ triagectl dashboard --sort age --dir asc

  # Open whatever screen a route resolves to
  $ triagectl open /dashboard`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.triagectl/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(totemCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(openCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}` + ui.Styles.Bold.Render("GLOBAL OPTIONS") + `
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("triagectl version %s\n", version)
}

// loadApp loads the configuration and opens the session
func loadApp() (*app.App, error) {
	a, err := app.New(configPath)
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, fmt.Errorf("config load failed")
	}
	return a, nil
}
