// Package cli — init.go implements the "pybootstrap init" command.
//
// The init command is the primary user-facing operation. It runs the full
// bootstrap pipeline for a project directory, fail-fast:
//
//	1. Create the virtual environment
//	2. Install dependencies from requirements.txt
//	3. Scaffold the app/ package and root-level files
//	4. Initialize Alembic and create the initial revision
//	5. Freeze installed versions back into requirements.txt
//
// A failing step aborts the pipeline immediately. Steps that find their
// work already done (existing venv, initialized migrations) are skipped,
// so re-running init on a half-bootstrapped project completes it.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/pybootstrap/internal/alembic"
	"github.com/shinji-kodama/pybootstrap/internal/docker"
	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/project"
	"github.com/shinji-kodama/pybootstrap/internal/python"
	"github.com/shinji-kodama/pybootstrap/internal/scaffold"
)

// initFlags holds the flag values for the init command.
type initFlags struct {
	python         string // --python: interpreter override
	venv           string // --venv: virtual environment directory override
	name           string // --name: project name override
	starter        bool   // --starter: render starter content into source files
	noInstall      bool   // --no-install: skip dependency installation (and freeze)
	skipMigrations bool   // --skip-migrations: skip alembic init/revision
}

// NewInitCommand creates the "init" cobra command.
func NewInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Bootstrap a Python web-service project",
		Long: `Bootstrap a complete Python web-service project in the given directory
(default: current directory).

The command runs the full pipeline: virtual environment creation, dependency
installation, application scaffolding, Alembic migration setup, and
requirements freezing. It is fail-fast — the first failing step aborts the
run — and idempotent: re-running it completes whatever is missing.

Examples:
  pybootstrap init
  pybootstrap init myservice --starter
  pybootstrap init --python python3.12 --venv env
  pybootstrap init --no-install --skip-migrations`,

		Args: cobra.MaximumNArgs(1),

		// RunE is used instead of Run so errors flow to the Execute
		// error handler in root.go.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.python, "python", "", "Python interpreter to use (default: python3 on PATH)")
	cmd.Flags().StringVar(&flags.venv, "venv", "", "Virtual environment directory (default: .venv)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Project name (default: directory name)")
	cmd.Flags().BoolVar(&flags.starter, "starter", false, "Render runnable starter content instead of empty placeholders")
	cmd.Flags().BoolVar(&flags.noInstall, "no-install", false, "Skip dependency installation and freezing")
	cmd.Flags().BoolVar(&flags.skipMigrations, "skip-migrations", false, "Skip Alembic initialization and revision")

	return cmd
}

// runInit is the main orchestration function for the init command.
func runInit(args []string, flags *initFlags) error {
	cfg, proj, err := resolveProject(args)
	if err != nil {
		return err
	}
	applyInitOverrides(proj, flags)
	VerboseLog("Project root: %s", proj.Root)

	// Interpreter discovery happens once, up front: if no usable Python
	// exists there is no point touching the filesystem at all.
	interpreter, err := python.FindInterpreter(proj.Python)
	if err != nil {
		return err
	}
	VerboseLog("Using interpreter: %s", interpreter)

	var results []model.StepResult
	record := func(step model.BootstrapStep, status model.StepStatus, detail string) {
		results = append(results, model.StepResult{Step: step, Status: status, Detail: detail})
	}

	// Step 1: virtual environment.
	venv := python.NewVenv(proj.VenvDir)
	if venv.Exists() {
		record(model.StepVenv, model.StatusSkipped, "already exists: "+proj.VenvDir)
		VerboseLog("Virtual environment already exists at %s", proj.VenvDir)
	} else {
		VerboseLog("Creating virtual environment at %s...", proj.VenvDir)
		if err := venv.Create(interpreter); err != nil {
			return failInit(proj, results, model.StepVenv, err)
		}
		record(model.StepVenv, model.StatusDone, proj.VenvDir)
	}

	// Step 2: install dependencies. A fresh directory has no
	// requirements.txt yet; the declared default list is written first so
	// the install step always has a manifest to work from.
	if flags.noInstall {
		record(model.StepInstall, model.StatusSkipped, "--no-install")
	} else {
		if err := ensureRequirements(proj.RequirementsFile, cfg.Requirements); err != nil {
			return failInit(proj, results, model.StepInstall, err)
		}
		VerboseLog("Installing dependencies from %s...", proj.RequirementsFile)
		if err := venv.InstallRequirements(proj.RequirementsFile); err != nil {
			return failInit(proj, results, model.StepInstall, err)
		}
		record(model.StepInstall, model.StatusDone, proj.RequirementsFile)
	}

	// Step 3: scaffold the application package.
	VerboseLog("Scaffolding application files...")
	scaffoldResult, err := scaffold.Run(proj.Root, scaffold.Options{
		ProjectName:  proj.Name,
		DatabaseURL:  proj.DatabaseURL,
		Starter:      flags.starter,
		Requirements: cfg.Requirements,
	})
	if err != nil {
		return failInit(proj, results, model.StepScaffold, err)
	}
	if err := writeComposeFile(proj, cfg); err != nil {
		return failInit(proj, results, model.StepScaffold, err)
	}
	record(model.StepScaffold, model.StatusDone,
		fmt.Sprintf("%d created, %d existing", len(scaffoldResult.Created), len(scaffoldResult.Skipped)))

	// Step 4: migrations.
	if flags.skipMigrations {
		record(model.StepMigrations, model.StatusSkipped, "--skip-migrations")
	} else if flags.noInstall {
		// Without the install step alembic is not available in the venv.
		record(model.StepMigrations, model.StatusSkipped, "requires installed dependencies (--no-install)")
	} else {
		status, detail, err := runMigrationsStep(proj, venv, flags.starter)
		if err != nil {
			return failInit(proj, results, model.StepMigrations, err)
		}
		record(model.StepMigrations, status, detail)
	}

	// Step 5: freeze.
	if flags.noInstall {
		record(model.StepFreeze, model.StatusSkipped, "--no-install")
	} else {
		VerboseLog("Freezing installed versions into %s...", proj.RequirementsFile)
		if err := venv.WriteFreeze(proj.RequirementsFile); err != nil {
			return failInit(proj, results, model.StepFreeze, err)
		}
		record(model.StepFreeze, model.StatusDone, proj.RequirementsFile)
	}

	printInitResult(proj, results, nil)
	return nil
}

// applyInitOverrides applies command-line flag overrides on top of the
// resolved project. Flags beat the config file, which beats defaults.
func applyInitOverrides(proj *model.Project, flags *initFlags) {
	if flags.python != "" {
		proj.Python = flags.python
	}
	if flags.venv != "" {
		dir := flags.venv
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(proj.Root, dir)
		}
		proj.VenvDir = dir
	}
	if flags.name != "" {
		proj.Name = flags.name
	}
}

// ensureRequirements writes the declared dependency list to the
// requirements file if it does not exist yet. An existing file — whether
// hand-written or frozen by a previous run — is left untouched.
func ensureRequirements(requirementsFile string, requirements []string) error {
	if _, err := os.Stat(requirementsFile); err == nil {
		return nil
	}

	reqs := requirements
	if len(reqs) == 0 {
		reqs = scaffold.DefaultRequirements
	}

	content := ""
	for _, r := range reqs {
		content += r + "\n"
	}
	if err := os.WriteFile(requirementsFile, []byte(content), 0644); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", requirementsFile), err)
	}
	return nil
}

// runMigrationsStep initializes the Alembic environment and creates the
// initial revision.
//
// Autogenerate only works when the app package actually defines ORM
// metadata, which is the case in starter mode. In placeholder mode the
// source files are empty, so a plain (empty) initial revision is created
// instead — the developer autogenerates real ones once models exist.
func runMigrationsStep(proj *model.Project, venv *python.Venv, starter bool) (model.StepStatus, string, error) {
	runner := alembic.NewRunner(venv, proj.Root)

	if runner.IsInitialized(proj.MigrationsDir) {
		return model.StatusSkipped, "already initialized: " + proj.MigrationsDir, nil
	}

	VerboseLog("Initializing Alembic in %s...", proj.MigrationsDir)
	if err := runner.Init(proj.MigrationsDir); err != nil {
		return "", "", err
	}
	if err := alembic.SetDatabaseURL(proj.Root, proj.DatabaseURL); err != nil {
		return "", "", err
	}

	if starter {
		if err := alembic.PatchEnv(proj.MigrationsDir); err != nil {
			return "", "", err
		}
		VerboseLog("Autogenerating initial revision...")
		if err := runner.Revision("initial schema", true); err != nil {
			return "", "", err
		}
		return model.StatusDone, "initialized with autogenerated revision", nil
	}

	VerboseLog("Creating empty initial revision...")
	if err := runner.Revision("initial schema", false); err != nil {
		return "", "", err
	}
	return model.StatusDone, "initialized with empty revision", nil
}

// writeComposeFile writes docker-compose.dev.yml into the project root
// unless it already exists. The compose file mirrors the dev database
// the db command manages.
func writeComposeFile(proj *model.Project, cfg *project.Config) error {
	path := filepath.Join(proj.Root, docker.ComposeFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	db := cfg.ResolveDatabase(proj.Name)
	data, err := docker.GenerateCompose(proj.Name, db, db.Port)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// initReport is the structure emitted on stdout in --json mode. Success
// and failure share it, so scripts parse one shape for both outcomes;
// Error is set only when the pipeline aborted.
type initReport struct {
	Name      string             `json:"name"`
	Root      string             `json:"root"`
	VenvDir   string             `json:"venvDir"`
	CreatedAt time.Time          `json:"createdAt"`
	Steps     []model.StepResult `json:"steps"`
	Error     string             `json:"error,omitempty"`
}

// buildInitReport assembles the report from the resolved project, the
// step outcomes collected so far, and the pipeline error, if any.
func buildInitReport(proj *model.Project, results []model.StepResult, runErr error) initReport {
	report := initReport{
		Name:      proj.Name,
		Root:      proj.Root,
		VenvDir:   proj.VenvDir,
		CreatedAt: proj.CreatedAt,
		Steps:     results,
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	return report
}

// failInit records the failing step, prints the partial results, and
// returns the error for Execute to translate into an exit code. Later
// steps are never attempted — the fail-fast contract.
func failInit(proj *model.Project, results []model.StepResult, step model.BootstrapStep, err error) error {
	results = append(results, model.StepResult{
		Step:   step,
		Status: model.StatusFailed,
		Detail: err.Error(),
	})
	printInitResult(proj, results, err)
	return err
}

// printInitResult outputs the init summary in text or JSON format.
func printInitResult(proj *model.Project, results []model.StepResult, runErr error) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(buildInitReport(proj, results, runErr), "", "  ")
		fmt.Println(string(data))
		return
	}

	if runErr != nil {
		// The error itself is reported by Execute on stderr; stdout gets
		// the step rows so the user sees how far the pipeline got.
		printStepResults(results)
		return
	}

	fmt.Printf("Bootstrapped project %q\n", proj.Name)
	fmt.Printf("  Path: %s\n", proj.Root)
	fmt.Printf("  Venv: %s\n", proj.VenvDir)
	fmt.Println()
	printStepResults(results)
	fmt.Println()
	fmt.Printf("Run the API with:\n  %s -m uvicorn app.main:app --reload\n",
		python.NewVenv(proj.VenvDir).Python())
}

// printStepResults prints the per-step outcomes as aligned text rows.
func printStepResults(results []model.StepResult) {
	for _, r := range results {
		fmt.Printf("  %-12s %-8s %s\n", r.Step, r.Status, r.Detail)
	}
}
