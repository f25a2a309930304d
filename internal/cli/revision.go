package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/pybootstrap/internal/alembic"
	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/python"
)

// NewRevisionCommand creates the "revision" cobra command, a thin wrapper
// around `alembic revision` through the project venv.
func NewRevisionCommand() *cobra.Command {
	var message string
	var noAutogenerate bool

	cmd := &cobra.Command{
		Use:   "revision [dir]",
		Short: "Create a new Alembic migration revision",
		Long: `Create a new Alembic migration revision in the project's migrations
directory. By default the revision is autogenerated by comparing the ORM
metadata against the database; --no-autogenerate creates an empty revision
skeleton instead.

Examples:
  pybootstrap revision -m "add users table"
  pybootstrap revision -m "manual data fix" --no-autogenerate`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRevision(args, message, !noAutogenerate)
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Revision message (required)")
	cmd.Flags().BoolVar(&noAutogenerate, "no-autogenerate", false, "Create an empty revision instead of autogenerating")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runRevision(args []string, message string, autogenerate bool) error {
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

	VerboseLog("Creating revision %q (autogenerate=%t)...", message, autogenerate)
	if err := runner.Revision(message, autogenerate); err != nil {
		return err
	}

	fmt.Printf("Created revision %q in %s\n", message, proj.MigrationsDir)
	return nil
}
