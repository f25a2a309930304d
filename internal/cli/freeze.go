package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/pybootstrap/internal/python"
)

// NewFreezeCommand creates the "freeze" cobra command. It pins the venv's
// installed package versions back into requirements.txt.
func NewFreezeCommand() *cobra.Command {
	var print bool

	cmd := &cobra.Command{
		Use:   "freeze [dir]",
		Short: "Pin installed package versions into requirements.txt",
		Long: `Run pip freeze in the project's virtual environment and write the
pinned versions into requirements.txt, replacing its contents.

With --print the frozen list goes to stdout instead and the file is left
untouched.

Examples:
  pybootstrap freeze
  pybootstrap freeze --print`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreeze(args, print)
		},
	}

	cmd.Flags().BoolVar(&print, "print", false, "Print the frozen list instead of writing requirements.txt")

	return cmd
}

func runFreeze(args []string, print bool) error {
	_, proj, err := resolveProject(args)
	if err != nil {
		return err
	}

	venv := python.NewVenv(proj.VenvDir)

	if print {
		frozen, err := venv.Freeze()
		if err != nil {
			return err
		}
		fmt.Print(frozen)
		return nil
	}

	VerboseLog("Freezing %s into %s...", proj.VenvDir, proj.RequirementsFile)
	if err := venv.WriteFreeze(proj.RequirementsFile); err != nil {
		return err
	}

	if IsJSONOutput() {
		out := map[string]string{
			"requirementsFile": proj.RequirementsFile,
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Wrote pinned versions to %s\n", proj.RequirementsFile)
	return nil
}
