package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/dashboard"
	"github.com/lvyanru/triagectl/internal/cli/guard"
	"github.com/lvyanru/triagectl/internal/cli/loader"
	"github.com/lvyanru/triagectl/internal/cli/tui"
	"github.com/lvyanru/triagectl/internal/cli/types"
	"github.com/lvyanru/triagectl/internal/cli/ui"
	"github.com/lvyanru/triagectl/internal/domain"
)

var (
	dashboardRoster string
	dashboardSort   string
	dashboardDir    string
	dashboardView   string
	dashboardPrint  bool
)

// dashboardCmd is the doctor dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "review waiting patients (doctors only)",
	Long: `Open the doctor dashboard with the patients waiting for care.

Patients can be shown as a grid grouped by urgency, a list or a carousel,
sorted by urgency, name, age or symptom duration. Marking a patient as
completed removes them from the board.

Without --roster the built-in demo roster is shown.`,
	Example: `  # Open the dashboard
  $ triagectl dashboard

  # Load patients from a file, youngest first, as a list
  $ triagectl dashboard -f roster.yaml --sort age --dir asc --view list

  # Print the board once without the interactive screen
  $ triagectl dashboard --print`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardRoster, "roster", "f", "", "Path to a roster YAML file")
	dashboardCmd.Flags().StringVar(&dashboardSort, "sort", string(dashboard.SortByUrgency), "Sort key: urgency, name, age or duration")
	dashboardCmd.Flags().StringVar(&dashboardDir, "dir", string(dashboard.Desc), "Sort direction: asc or desc")
	dashboardCmd.Flags().StringVar(&dashboardView, "view", string(dashboard.ViewGrid), "View mode: grid, list or carousel")
	dashboardCmd.Flags().BoolVar(&dashboardPrint, "print", false, "Print the board and exit")

	dashboardCmd.SilenceUsage = true
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Only doctors reach the board
	if err := guard.Require(guard.RouteDashboard, a.Auth); err != nil {
		ui.PrintError("%s", domain.UserMessage(err))
		if domain.IsNotAuthenticated(err) {
			fmt.Println("\nRun 'triagectl login' to authenticate.")
			return fmt.Errorf("authentication required")
		}
		fmt.Println("\nRun 'triagectl chat' to start the intake chat.")
		return fmt.Errorf("permission denied")
	}

	key, err := dashboard.ParseSortKey(dashboardSort)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid arguments")
	}
	dir, err := dashboard.ParseDirection(dashboardDir)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid arguments")
	}
	view, err := dashboard.ParseViewMode(dashboardView)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid arguments")
	}

	roster, err := loadRoster(dashboardRoster)
	if err != nil {
		ui.PrintError("failed to load roster: %v", err)
		return fmt.Errorf("roster load failed")
	}

	board := dashboard.NewBoard(roster, a.Logger)
	if err := board.SetSort(key, dir); err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid arguments")
	}
	if err := board.SetView(view); err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid arguments")
	}

	doctorName := "Médico"
	if user := a.Auth.CurrentUser(); user != nil && user.Name != "" {
		doctorName = user.Name
	}

	if dashboardPrint {
		printBoard(board, doctorName)
		return nil
	}

	program := tui.NewDashboardProgram(board, doctorName)
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard TUI: %w", err)
	}
	return nil
}

func loadRoster(path string) ([]types.Patient, error) {
	if path == "" {
		return dashboard.SeedRoster(), nil
	}
	file, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return file.Patients, nil
}

// printBoard renders the board once in its current view
func printBoard(board *dashboard.Board, doctorName string) {
	key, dir := board.Sort()
	fmt.Println(ui.RenderBoardHeader(doctorName, key, dir, board.View(), board.Len()))
	fmt.Println()

	switch board.View() {
	case dashboard.ViewList:
		fmt.Println(ui.RenderPatientTable(board.Patients(), -1))
	case dashboard.ViewCarousel:
		if p, ok := board.Current(); ok {
			fmt.Println(ui.RenderPatientCard(p, board.Slide(), board.Len()))
		} else {
			fmt.Println(ui.RenderPatientGrid(nil))
		}
	default:
		fmt.Println(ui.RenderPatientGrid(board.Patients()))
	}
}
