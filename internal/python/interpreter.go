package python

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/pybootstrap/internal/model"
)

// EnvInterpreter is the environment variable that overrides interpreter
// discovery. It sits between the --python flag (highest priority) and
// PATH lookup (lowest).
const EnvInterpreter = "PYBOOTSTRAP_PYTHON"

// candidateNames are the interpreter command names probed on PATH, in
// preference order. python3 comes first because on many Linux
// distributions plain `python` is either absent or Python 2.
var candidateNames = []string{"python3", "python"}

// FindInterpreter locates a Python interpreter to create the virtual
// environment with.
//
// The resolution order is:
//  1. The explicit argument (from the --python flag), if non-empty.
//     A path containing a separator must exist on disk; a bare command
//     name is resolved via PATH.
//  2. The PYBOOTSTRAP_PYTHON environment variable, same rules.
//  3. python3, then python, on PATH.
//
// Returns a model.CLIError with ExitPythonNotFound if nothing resolves.
func FindInterpreter(explicit string) (string, error) {
	// Explicit flag and environment variable go through the same
	// resolution; only the error message differs.
	if explicit != "" {
		path, err := resolveInterpreter(explicit)
		if err != nil {
			return "", model.WrapCLIError(model.ExitPythonNotFound,
				fmt.Sprintf("python interpreter %q not found", explicit), err)
		}
		return path, nil
	}

	if fromEnv := os.Getenv(EnvInterpreter); fromEnv != "" {
		path, err := resolveInterpreter(fromEnv)
		if err != nil {
			return "", model.WrapCLIError(model.ExitPythonNotFound,
				fmt.Sprintf("python interpreter %q (from %s) not found", fromEnv, EnvInterpreter), err)
		}
		return path, nil
	}

	// Probe PATH for the well-known command names.
	for _, name := range candidateNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", model.NewCLIError(model.ExitPythonNotFound,
		fmt.Sprintf("no Python interpreter found on PATH (tried %s)", strings.Join(candidateNames, ", ")))
}

// resolveInterpreter resolves a user-supplied interpreter value to an
// executable path. Values containing a path separator are treated as
// filesystem paths and must exist; bare names are resolved via PATH.
func resolveInterpreter(value string) (string, error) {
	if strings.ContainsAny(value, `/\`) {
		info, err := os.Stat(value)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory, not an executable", value)
		}
		return value, nil
	}
	return exec.LookPath(value)
}

// Version returns the version string reported by the given interpreter,
// e.g. "Python 3.12.1". Used by the doctor command for diagnostics.
//
// Python historically printed its version to stderr (fixed in 3.4), so we
// capture combined output to be safe with unusual interpreters.
func Version(interpreter string) (string, error) {
	cmd := exec.Command(interpreter, "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", model.WrapCLIError(model.ExitPythonNotFound,
			fmt.Sprintf("failed to run %s --version", interpreter), err)
	}
	return strings.TrimSpace(string(output)), nil
}
