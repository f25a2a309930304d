package alembic

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/python"
)

// IniFileName is the Alembic configuration file created by `alembic init`
// at the project root.
const IniFileName = "alembic.ini"

// Runner drives the Alembic CLI for one project. The executable is
// resolved from the project's virtual environment, never from PATH, so
// the migrations always run against the project's own dependency set.
type Runner struct {
	// venv is the project's virtual environment, which must have the
	// alembic package installed before any Runner method is called.
	venv *python.Venv

	// projectRoot is the working directory for all alembic commands.
	projectRoot string
}

// NewRunner creates a Runner for the given venv and project root.
func NewRunner(venv *python.Venv, projectRoot string) *Runner {
	return &Runner{venv: venv, projectRoot: projectRoot}
}

// IsInitialized reports whether the migration environment already exists:
// both alembic.ini at the project root and the migrations directory with
// its env.py must be present.
func (r *Runner) IsInitialized(migrationsDir string) bool {
	if _, err := os.Stat(filepath.Join(r.projectRoot, IniFileName)); err != nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(migrationsDir, "env.py")); err != nil {
		return false
	}
	return true
}

// Init runs `alembic init <dir>`, creating the migration environment
// (alembic.ini, env.py, script template, versions/ directory).
//
// The directory argument is passed relative to the project root, which is
// how alembic records it in alembic.ini's script_location.
func (r *Runner) Init(migrationsDir string) error {
	rel, err := filepath.Rel(r.projectRoot, migrationsDir)
	if err != nil {
		// A migrations dir outside the project root cannot be expressed
		// relative to alembic.ini; pass it absolute instead.
		rel = migrationsDir
	}

	_, runErr := r.run("init", rel)
	return runErr
}

// Revision runs `alembic revision -m <message>`, with --autogenerate
// when requested. Autogenerate produces a migration script from the
// difference between the ORM metadata and the database schema; it
// requires env.py to expose the metadata (see PatchEnv). Without
// autogenerate an empty revision skeleton is created.
func (r *Runner) Revision(message string, autogenerate bool) error {
	args := []string{"revision", "-m", message}
	if autogenerate {
		args = []string{"revision", "--autogenerate", "-m", message}
	}
	_, err := r.run(args...)
	return err
}

// Upgrade runs `alembic upgrade head`, applying all pending migrations.
func (r *Runner) Upgrade() error {
	_, err := r.run("upgrade", "head")
	return err
}

// Current returns the output of `alembic current`, the revision the
// database is at. Used by the doctor command.
func (r *Runner) Current() (string, error) {
	out, err := r.run("current")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// run executes the venv's alembic executable with the given arguments in
// the project root. On failure it returns a CLIError with ExitAlembicFailed
// and the tool's stderr included in the message.
func (r *Runner) run(args ...string) (string, error) {
	if !r.venv.HasExecutable("alembic") {
		return "", model.NewCLIError(model.ExitAlembicFailed,
			fmt.Sprintf("alembic is not installed in %s — run the install step first", r.venv.Dir))
	}

	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command(r.venv.Executable("alembic"), args...)
	cmd.Dir = r.projectRoot

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("alembic %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(model.ExitAlembicFailed, message, err)
	}

	return stdout.String(), nil
}
