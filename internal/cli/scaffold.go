package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/pybootstrap/internal/scaffold"
)

// NewScaffoldCommand creates the "scaffold" cobra command. It runs only
// the file-creation step of the pipeline: no venv, no pip, no alembic.
func NewScaffoldCommand() *cobra.Command {
	var starter bool

	cmd := &cobra.Command{
		Use:   "scaffold [dir]",
		Short: "Create the application skeleton files",
		Long: `Create the app/ package with its fixed source file set plus the
root-level files (.env, .gitignore, requirements.txt) without touching the
virtual environment or migrations.

Existing files are never overwritten, so scaffold is safe to re-run on a
project that already has code.

Examples:
  pybootstrap scaffold
  pybootstrap scaffold myservice --starter`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(args, starter)
		},
	}

	cmd.Flags().BoolVar(&starter, "starter", false, "Render runnable starter content instead of empty placeholders")

	return cmd
}

func runScaffold(args []string, starter bool) error {
	cfg, proj, err := resolveProject(args)
	if err != nil {
		return err
	}
	VerboseLog("Scaffolding %s...", proj.Root)

	result, err := scaffold.Run(proj.Root, scaffold.Options{
		ProjectName:  proj.Name,
		DatabaseURL:  proj.DatabaseURL,
		Starter:      starter,
		Requirements: cfg.Requirements,
	})
	if err != nil {
		return err
	}
	if err := writeComposeFile(proj, cfg); err != nil {
		return err
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	for _, path := range result.Created {
		fmt.Printf("  created  %s\n", path)
	}
	for _, path := range result.Skipped {
		fmt.Printf("  exists   %s\n", path)
	}
	fmt.Printf("Scaffolded %q: %d created, %d already present\n",
		proj.Name, len(result.Created), len(result.Skipped))
	return nil
}
