package python

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shinji-kodama/pybootstrap/internal/model"
)

// Venv represents a Python virtual environment directory and provides
// access to the executables installed inside it.
//
// The layout differs by platform:
//
//	Unix:    <dir>/bin/python, <dir>/bin/alembic, ...
//	Windows: <dir>\Scripts\python.exe, <dir>\Scripts\alembic.exe, ...
//
// Every method that needs a tool from the venv resolves it through this
// struct, so platform differences are handled in exactly one place.
type Venv struct {
	// Dir is the absolute path to the virtual environment directory.
	Dir string
}

// NewVenv creates a Venv handle for the given directory. The directory
// does not need to exist yet — call Create to make it.
func NewVenv(dir string) *Venv {
	return &Venv{Dir: dir}
}

// Create creates the virtual environment by running
// `<interpreter> -m venv <dir>`.
//
// If the venv already exists (detected via pyvenv.cfg), Create returns
// nil without re-running venv. Re-running `python -m venv` on an existing
// environment is technically harmless but slow, and skipping it makes
// init idempotent.
func (v *Venv) Create(interpreter string) error {
	if v.Exists() {
		return nil
	}

	cmd := exec.Command(interpreter, "-m", "venv", v.Dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return model.WrapCLIError(model.ExitVenvFailed,
			fmt.Sprintf("failed to create virtual environment at %s: %s",
				v.Dir, strings.TrimSpace(string(output))),
			err)
	}
	return nil
}

// Exists reports whether the directory contains a virtual environment.
//
// The check looks for pyvenv.cfg, which `python -m venv` always writes at
// the environment root. Checking for the directory alone is not enough:
// an empty or unrelated directory must not be mistaken for a venv.
func (v *Venv) Exists() bool {
	info, err := os.Stat(filepath.Join(v.Dir, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// BinDir returns the directory inside the venv that holds executables:
// bin/ on Unix-like systems, Scripts/ on Windows.
func (v *Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Dir, "Scripts")
	}
	return filepath.Join(v.Dir, "bin")
}

// Python returns the path to the venv's own interpreter.
func (v *Venv) Python() string {
	return v.Executable("python")
}

// Executable returns the path to a named tool inside the venv,
// appending .exe on Windows.
func (v *Venv) Executable(name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(v.BinDir(), name)
}

// HasExecutable reports whether the named tool is installed in the venv.
// Used by the doctor command and by the alembic wrapper to produce a
// clear error when a dependency has not been installed yet.
func (v *Venv) HasExecutable(name string) bool {
	info, err := os.Stat(v.Executable(name))
	return err == nil && !info.IsDir()
}

// run executes the venv's interpreter with the given arguments in the
// specified working directory. It captures stdout and stderr separately,
// returning stdout on success and wrapping stderr into the error on
// failure.
//
// The exit code to use on failure is supplied by the caller because the
// same helper serves pip (ExitPipFailed) and other module invocations.
func (v *Venv) run(workDir string, code model.ExitCode, args ...string) (string, error) {
	// #nosec G204 — args are constructed internally, not from user input
	cmd := exec.Command(v.Python(), args...)
	cmd.Dir = workDir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		message := fmt.Sprintf("python %s failed", strings.Join(args, " "))
		if stderrStr != "" {
			message = fmt.Sprintf("%s: %s", message, stderrStr)
		}
		return "", model.WrapCLIError(code, message, err)
	}

	return stdout.String(), nil
}
