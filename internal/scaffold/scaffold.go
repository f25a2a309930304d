package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shinji-kodama/pybootstrap/internal/model"
)

// AppDirName is the name of the application package directory created
// inside the project root.
const AppDirName = "app"

// appFiles is the fixed set of source files created inside the app/
// package. The set mirrors a minimal FastAPI + SQLAlchemy service layout:
// entry point, DB session setup, ORM models, pydantic schemas, and data
// access functions.
var appFiles = []string{
	"__init__.py",
	"main.py",
	"database.py",
	"models.py",
	"schemas.py",
	"crud.py",
}

// DefaultRequirements is the dependency list written into a fresh
// requirements.txt. After `pip install` and `pip freeze` these loose
// specifiers are replaced by exact pins.
var DefaultRequirements = []string{
	"fastapi",
	"uvicorn[standard]",
	"sqlalchemy",
	"alembic",
	"pydantic",
	"pydantic-settings",
	"python-dotenv",
}

// Options controls scaffolding behavior.
type Options struct {
	// ProjectName is used in rendered starter content (application title).
	ProjectName string

	// DatabaseURL is the SQLAlchemy URL written into .env and starter
	// content. Empty selects the SQLite default.
	DatabaseURL string

	// Starter renders starter content into the app/ source files instead
	// of creating them empty.
	Starter bool

	// Requirements overrides the dependency list written into a fresh
	// requirements.txt. Nil selects DefaultRequirements.
	Requirements []string
}

// Result reports what Run did, path by path. Paths are relative to the
// project root and sorted for deterministic output.
type Result struct {
	// Created lists files and directories that were newly created.
	Created []string

	// Skipped lists files that already existed and were left untouched.
	Skipped []string
}

// AppFiles returns the relative paths of the fixed app/ file set,
// e.g. "app/main.py". The returned slice is a copy.
func AppFiles() []string {
	files := make([]string, len(appFiles))
	for i, name := range appFiles {
		files[i] = filepath.Join(AppDirName, name)
	}
	return files
}

// Run scaffolds the project skeleton under root. It creates the app/
// directory, the fixed source file set, and the root-level files
// (.env, .gitignore, requirements.txt). Existing files are recorded as
// skipped and never modified.
func Run(root string, opts Options) (*Result, error) {
	if opts.DatabaseURL == "" {
		opts.DatabaseURL = DefaultDatabaseURL
	}

	result := &Result{}

	// Create the app/ package directory. MkdirAll is a no-op when the
	// directory already exists, which keeps Run idempotent.
	appDir := filepath.Join(root, AppDirName)
	if _, err := os.Stat(appDir); os.IsNotExist(err) {
		result.Created = append(result.Created, AppDirName+string(os.PathSeparator))
	}
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create %s directory", appDir), err)
	}

	// Source files: empty placeholders, or rendered starter content.
	for _, name := range appFiles {
		var content []byte
		if opts.Starter {
			rendered, err := RenderStarter(name, opts)
			if err != nil {
				return nil, err
			}
			content = rendered
		}

		if err := writeIfAbsent(root, filepath.Join(AppDirName, name), content, result); err != nil {
			return nil, err
		}
	}

	// Root-level files always get content: an empty .gitignore or
	// requirements.txt would defeat their purpose.
	reqs := opts.Requirements
	if len(reqs) == 0 {
		reqs = DefaultRequirements
	}
	rootFiles := map[string][]byte{
		".gitignore":       []byte(gitignoreContent),
		".env":             []byte(renderEnv(opts)),
		"requirements.txt": []byte(strings.Join(reqs, "\n") + "\n"),
	}
	for _, name := range []string{".env", ".gitignore", "requirements.txt"} {
		if err := writeIfAbsent(root, name, rootFiles[name], result); err != nil {
			return nil, err
		}
	}

	sort.Strings(result.Created)
	sort.Strings(result.Skipped)
	return result, nil
}

// MissingFiles returns the relative paths of the fixed file set that do
// not exist under root. Used by the doctor command to report scaffold
// completeness.
func MissingFiles(root string) []string {
	var missing []string

	checks := append(AppFiles(), ".env", ".gitignore", "requirements.txt")
	for _, rel := range checks {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			missing = append(missing, rel)
		}
	}
	return missing
}

// writeIfAbsent writes content to root/rel unless the file already
// exists. nil content creates an empty file. The result is updated with
// the relative path under Created or Skipped.
func writeIfAbsent(root, rel string, content []byte, result *Result) error {
	path := filepath.Join(root, rel)

	if _, err := os.Stat(path); err == nil {
		result.Skipped = append(result.Skipped, rel)
		return nil
	}

	if content == nil {
		content = []byte{}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to create %s", path), err)
	}

	result.Created = append(result.Created, rel)
	return nil
}
