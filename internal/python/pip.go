package python

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/pybootstrap/internal/model"
)

// InstallRequirements installs the dependencies listed in the given
// requirements file into the venv by running
// `<venv python> -m pip install -r <file>`.
//
// The working directory is set to the directory containing the
// requirements file so that any relative paths inside it (e.g. local
// `-e .` installs) resolve as pip users expect.
func (v *Venv) InstallRequirements(requirementsFile string) error {
	if _, err := os.Stat(requirementsFile); err != nil {
		return model.WrapCLIError(model.ExitPipFailed,
			fmt.Sprintf("requirements file not found: %s", requirementsFile), err)
	}

	_, err := v.run(filepath.Dir(requirementsFile), model.ExitPipFailed, "-m", "pip", "install", "-r", requirementsFile)
	return err
}

// Install installs the named packages into the venv via
// `<venv python> -m pip install <pkgs...>`.
func (v *Venv) Install(packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	args := append([]string{"-m", "pip", "install"}, packages...)
	_, err := v.run(v.Dir, model.ExitPipFailed, args...)
	return err
}

// Freeze returns the output of `<venv python> -m pip freeze`: one pinned
// requirement per line (e.g. "fastapi==0.115.0").
func (v *Venv) Freeze() (string, error) {
	return v.run(v.Dir, model.ExitPipFailed, "-m", "pip", "freeze")
}

// WriteFreeze runs pip freeze and writes the result to the given
// requirements file, replacing its contents. This pins the exact
// installed versions back into the dependency manifest, which is the
// final step of the bootstrap pipeline.
func (v *Venv) WriteFreeze(requirementsFile string) error {
	frozen, err := v.Freeze()
	if err != nil {
		return err
	}

	// pip freeze output already ends with a newline when non-empty;
	// normalize so the file always has a trailing newline.
	content := strings.TrimRight(frozen, "\n") + "\n"

	if err := os.WriteFile(requirementsFile, []byte(content), 0644); err != nil {
		return model.WrapCLIError(model.ExitPipFailed,
			fmt.Sprintf("failed to write %s", requirementsFile), err)
	}
	return nil
}

// PipVersion returns the venv pip's version string, for doctor output.
func (v *Venv) PipVersion() (string, error) {
	out, err := v.run(v.Dir, model.ExitPipFailed, "-m", "pip", "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
