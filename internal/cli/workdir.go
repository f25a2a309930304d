package cli

import (
	"os"
	"path/filepath"

	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/project"
)

// resolveProject determines the project root from the optional positional
// argument (default: current directory), loads the project configuration,
// and resolves it into a model.Project.
//
// Every subcommand accepts the same optional [dir] argument, so this
// helper is the common entry point for all of them. The returned Config
// is also needed by callers that read scaffold or database settings.
func resolveProject(args []string) (*project.Config, *model.Project, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, model.WrapCLIError(model.ExitGeneralError, "failed to resolve project directory", err)
	}

	// The project directory is created on demand: `pybootstrap init
	// myproject` on a fresh checkout should just work.
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, nil, model.WrapCLIError(model.ExitGeneralError, "failed to create project directory", err)
	}

	cfg, err := project.Load(root)
	if err != nil {
		return nil, nil, err
	}

	proj, err := cfg.Resolve(root)
	if err != nil {
		return nil, nil, err
	}

	return cfg, proj, nil
}
