package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lvyanru/triagectl/internal/cli/guard"
	"github.com/lvyanru/triagectl/internal/cli/ui"
)

var (
	openDryRun bool
)

// openCmd opens the screen a route resolves to
var openCmd = &cobra.Command{
	Use:   "open [route]",
	Short: "open the screen for a route",
	Long: `Resolve a route against the current session and open the screen it
lands on. Without a route the startup screen is opened: the dashboard for
doctors, the intake chat for everyone else.

Routes: ` + routeList(),
	Example: `  # Open the startup screen
  $ triagectl open

  # Show where /dashboard leads without opening it
  $ triagectl open /dashboard --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	openCmd.Flags().BoolVar(&openDryRun, "dry-run", false, "Print the resolved route and exit")

	openCmd.SilenceUsage = true
}

func runOpen(cmd *cobra.Command, args []string) error {
	route := string(guard.RouteRoot)
	if len(args) > 0 {
		route = args[0]
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	target := guard.Resolve(route, a.Auth)
	a.Close()

	if openDryRun {
		fmt.Println(target)
		return nil
	}
	if requested := guard.Normalize(route); requested != guard.RouteRoot && requested != target {
		ui.PrintInfo("%s → %s", requested, target)
	}

	// every screen loads its own session
	switch target {
	case guard.RouteLogin:
		return runLogin(cmd, nil)
	case guard.RouteRegister:
		return runRegister(cmd, nil)
	case guard.RouteCompleteProfile:
		return runProfile(cmd, nil)
	case guard.RouteDashboard:
		return runDashboard(cmd, nil)
	case guard.RouteTotem:
		return runTotem(cmd, nil)
	default:
		return runChat(cmd, nil)
	}
}

func routeList() string {
	routes := make([]string, 0, len(guard.Routes))
	for _, r := range guard.Routes {
		routes = append(routes, string(r))
	}
	return strings.Join(routes, ", ")
}
