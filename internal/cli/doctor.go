package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/pybootstrap/internal/alembic"
	"github.com/shinji-kodama/pybootstrap/internal/docker"
	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/python"
	"github.com/shinji-kodama/pybootstrap/internal/scaffold"
)

// doctorCheck is one diagnostic result row.
type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail"`
}

// NewDoctorCommand creates the "doctor" cobra command, which inspects the
// project and its environment and reports what is present and what is
// missing. Doctor never modifies anything.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor [dir]",
		Short: "Diagnose the project's bootstrap state",
		Long: `Inspect the project directory and report the state of every bootstrap
concern: Python interpreter, virtual environment, installed tooling,
scaffolded files, Alembic migrations, and the Docker dev database.

Doctor is read-only. It exits non-zero when any check fails, so scripts can
gate on it; the JSON output carries per-check status.

Examples:
  pybootstrap doctor
  pybootstrap doctor myservice --json`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(args)
		},
	}

	return cmd
}

func runDoctor(args []string) error {
	_, proj, err := resolveProject(args)
	if err != nil {
		return err
	}

	var checks []doctorCheck
	add := func(name string, ok bool, detail string) {
		checks = append(checks, doctorCheck{Name: name, OK: ok, Detail: detail})
	}

	// Interpreter.
	interpreter, err := python.FindInterpreter(proj.Python)
	if err != nil {
		add("python", false, err.Error())
	} else {
		version, verr := python.Version(interpreter)
		if verr != nil {
			add("python", false, verr.Error())
		} else {
			add("python", true, fmt.Sprintf("%s (%s)", version, interpreter))
		}
	}

	// Virtual environment and its tooling.
	venv := python.NewVenv(proj.VenvDir)
	if !venv.Exists() {
		add("venv", false, "not created: "+proj.VenvDir)
		add("pip", false, "virtual environment missing")
		add("alembic", false, "virtual environment missing")
	} else {
		add("venv", true, proj.VenvDir)

		if pipVersion, perr := venv.PipVersion(); perr != nil {
			add("pip", false, perr.Error())
		} else {
			add("pip", true, pipVersion)
		}

		if venv.HasExecutable("alembic") {
			add("alembic", true, venv.Executable("alembic"))
		} else {
			add("alembic", false, "not installed in venv — run the install step first")
		}
	}

	// Scaffolded files.
	if missing := scaffold.MissingFiles(proj.Root); len(missing) > 0 {
		add("scaffold", false, "missing: "+strings.Join(missing, ", "))
	} else {
		add("scaffold", true, "all files present")
	}

	// Migrations.
	runner := alembic.NewRunner(venv, proj.Root)
	if runner.IsInitialized(proj.MigrationsDir) {
		add("migrations", true, proj.MigrationsDir)
	} else {
		add("migrations", false, "not initialized: "+proj.MigrationsDir)
	}

	// Docker daemon and dev database. Docker being down is a finding like
	// any other: many projects use the SQLite default and never touch
	// Docker, but the report should say so either way.
	checkDockerDatabase(proj, add)

	printDoctorResult(proj, checks)

	failed := 0
	for _, c := range checks {
		if !c.OK {
			failed++
		}
	}
	if failed > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%d of %d checks failed", failed, len(checks)))
	}
	return nil
}

// checkDockerDatabase probes the Docker daemon and looks up the project's
// dev database container, appending one or two check rows.
func checkDockerDatabase(proj *model.Project, add func(name string, ok bool, detail string)) {
	cli, err := docker.NewClient()
	if err != nil {
		add("docker", false, err.Error())
		return
	}
	defer func() { _ = cli.Close() }()

	ctx := context.Background()
	if err := cli.Ping(ctx); err != nil {
		add("docker", false, err.Error())
		return
	}
	add("docker", true, "daemon is responding")

	info, err := docker.FindDatabase(ctx, cli, proj.Name)
	if err != nil {
		add("database", false, err.Error())
		return
	}
	if info == nil {
		add("database", false, "no dev database container — run `pybootstrap db up`")
		return
	}
	add("database", info.Status == "running",
		fmt.Sprintf("%s (%s) on 127.0.0.1:%d", info.ContainerName, info.Status, info.HostPort))
}

// printDoctorResult outputs the diagnostic report in text or JSON.
func printDoctorResult(proj *model.Project, checks []doctorCheck) {
	if IsJSONOutput() {
		out := struct {
			Name   string        `json:"name"`
			Root   string        `json:"root"`
			Checks []doctorCheck `json:"checks"`
		}{Name: proj.Name, Root: proj.Root, Checks: checks}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Project %q (%s)\n\n", proj.Name, proj.Root)
	healthy := true
	for _, c := range checks {
		mark := "ok"
		if !c.OK {
			mark = "--"
			healthy = false
		}
		fmt.Printf("  [%s] %-11s %s\n", mark, c.Name, c.Detail)
	}
	if healthy {
		fmt.Println("\nEverything looks good.")
	}
}
