package cli

import (
	"github.com/alexanderramin/falsework/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Schedule service.ScheduleService
	Edits    service.EditService
	Import   service.ImportService
}

// NewRootCmd creates the top-level "falsework" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "falsework",
		Short: "Construction schedule editor and dependency engine",
	}

	// Consumed in main before command dispatch, since the calendar feeds
	// service construction; registered here so it parses and shows in help.
	root.PersistentFlags().String("calendar", "", "Calendar TOML file overriding the discovered config")

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newScheduleCmd(app),
		newViewCmd(app),
		newReorganizeCmd(app),
	)

	return root
}
