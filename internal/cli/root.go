package cli

import (
	"time"

	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans  service.PlanService
	Nodes  service.NodeService
	Import service.ImportService

	// IsInteractive reports whether stdin is a terminal. Forms and
	// confirmations are only shown when it returns true.
	IsInteractive func() bool
	// Now is the clock used for relative dates; defaults to time.Now.
	Now func() time.Time
	// Limits bounds nodes built outside the services, as in the editor.
	Limits domain.Limits
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) limits() domain.Limits {
	if a.Limits == (domain.Limits{}) {
		return domain.DefaultLimits()
	}
	return a.Limits
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// ConfigDirFlag names the persistent flag selecting the configuration
// directory.
const ConfigDirFlag = "config-dir"

// NewRootCmd creates the top-level "planforge" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planforge",
		Short:         "Release and workflow plan editor",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	// Consumed by main before the tree is built.
	root.PersistentFlags().String(ConfigDirFlag, "", "Configuration directory (default ~/.planforge)")

	root.AddCommand(
		newPlanCmd(app),
		newNodeCmd(app),
		newSearchCmd(app),
		newStatsCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newEditCmd(app),
	)

	return root
}
