package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/pybootstrap/internal/alembic"
	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/python"
)

// NewUpgradeCommand creates the "upgrade" cobra command, which applies
// pending migrations via `alembic upgrade head`.
func NewUpgradeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade [dir]",
		Short: "Apply pending database migrations",
		Long: `Apply all pending Alembic migrations to the configured database
(alembic upgrade head), then print the resulting revision.

Examples:
  pybootstrap upgrade
  pybootstrap upgrade myservice`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(args)
		},
	}

	return cmd
}

func runUpgrade(args []string) error {
	_, proj, err := resolveProject(args)
	if err != nil {
		return err
	}

	venv := python.NewVenv(proj.VenvDir)
	runner := alembic.NewRunner(venv, proj.Root)

	if !runner.IsInitialized(proj.MigrationsDir) {
		return model.NewCLIError(model.ExitAlembicFailed,
			fmt.Sprintf("migrations are not initialized in %s — run `pybootstrap init` first", proj.MigrationsDir))
	}

	VerboseLog("Applying migrations for %s...", proj.Name)
	if err := runner.Upgrade(); err != nil {
		return err
	}

	current, err := runner.Current()
	if err != nil {
		return err
	}

	fmt.Printf("Database is up to date.\n")
	if current != "" {
		fmt.Printf("Current revision: %s\n", current)
	}
	return nil
}
