package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BootstrapStep identifies one stage of the init pipeline. The pipeline is
// strictly sequential and fail-fast:
//
//	venv → install → scaffold → migrations → freeze
//
// A failing step aborts the pipeline; later steps are never attempted and
// the filesystem is left in whatever state the earlier steps produced.
type BootstrapStep string

const (
	// StepVenv creates the project's virtual environment directory.
	StepVenv BootstrapStep = "venv"

	// StepInstall installs the declared dependencies into the virtual
	// environment from the requirements file.
	StepInstall BootstrapStep = "install"

	// StepScaffold creates the application package directory and its
	// fixed set of source files.
	StepScaffold BootstrapStep = "scaffold"

	// StepMigrations initializes the Alembic migration environment and
	// autogenerates the initial revision.
	StepMigrations BootstrapStep = "migrations"

	// StepFreeze re-freezes the installed package set back into the
	// requirements file, pinning exact versions.
	StepFreeze BootstrapStep = "freeze"
)

// String returns the string representation of BootstrapStep.
// This satisfies fmt.Stringer for CLI output and error messages.
func (s BootstrapStep) String() string {
	return string(s)
}

// IsValid checks whether the BootstrapStep value is one of the
// predefined pipeline stages.
func (s BootstrapStep) IsValid() bool {
	switch s {
	case StepVenv, StepInstall, StepScaffold, StepMigrations, StepFreeze:
		return true
	default:
		return false
	}
}

// ParseBootstrapStep converts a string to a BootstrapStep.
// Returns an error if the string does not match any pipeline stage.
func ParseBootstrapStep(s string) (BootstrapStep, error) {
	step := BootstrapStep(strings.ToLower(s))
	if !step.IsValid() {
		return "", fmt.Errorf("invalid bootstrap step: %q (valid: venv, install, scaffold, migrations, freeze)", s)
	}
	return step, nil
}

// Steps returns all pipeline steps in execution order.
func Steps() []BootstrapStep {
	return []BootstrapStep{StepVenv, StepInstall, StepScaffold, StepMigrations, StepFreeze}
}

// StepStatus is the outcome of a single pipeline step.
type StepStatus string

const (
	// StatusDone indicates the step completed successfully.
	StatusDone StepStatus = "done"

	// StatusSkipped indicates the step was intentionally not run,
	// either via a flag (--no-install, --skip-migrations) or because
	// its work already existed (e.g., an initialized migration dir).
	StatusSkipped StepStatus = "skipped"

	// StatusFailed indicates the step aborted the pipeline.
	StatusFailed StepStatus = "failed"
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// StepResult records the outcome of one pipeline step for reporting.
// The init command collects these and prints them in text or JSON form.
type StepResult struct {
	// Step is the pipeline stage this result belongs to.
	Step BootstrapStep `json:"step"`

	// Status is the outcome of the step.
	Status StepStatus `json:"status"`

	// Detail is an optional human-readable note (e.g., the venv path,
	// the number of files created, or the skip reason).
	Detail string `json:"detail,omitempty"`
}

// Project describes a bootstrapped Python project on disk. It is constructed
// from the project configuration (or defaults) before the pipeline runs and
// passed to every domain package.
type Project struct {
	// Name is the project identifier. Used for the application title,
	// the dev database container name, and Docker labels.
	Name string `json:"name"`

	// Root is the absolute path to the project directory.
	Root string `json:"root"`

	// VenvDir is the absolute path to the virtual environment directory.
	// Defaults to <root>/.venv.
	VenvDir string `json:"venvDir"`

	// Python is the interpreter used to create the virtual environment.
	// May be a bare command name ("python3") or an absolute path.
	Python string `json:"python"`

	// RequirementsFile is the absolute path to the dependency manifest.
	// Defaults to <root>/requirements.txt.
	RequirementsFile string `json:"requirementsFile"`

	// MigrationsDir is the absolute path to the Alembic migration
	// environment. Defaults to <root>/alembic.
	MigrationsDir string `json:"migrationsDir"`

	// DatabaseURL is the SQLAlchemy connection URL written into the
	// scaffolded settings and the Alembic configuration.
	DatabaseURL string `json:"databaseUrl"`

	// CreatedAt is the timestamp when the project was bootstrapped.
	CreatedAt time.Time `json:"createdAt"`
}

// nameRegex validates project names: alphanumeric plus hyphens and
// underscores, starting with a letter. The name feeds into container
// names and Python identifiers, so the character set is conservative.
var nameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateName checks if the given name is a valid project name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("project name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only alphanumeric characters, hyphens, and underscores", name)
	}
	return nil
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine which stage of the bootstrap failed.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitPythonNotFound indicates no usable Python interpreter was found
	// on PATH or at the configured location.
	ExitPythonNotFound ExitCode = 2

	// ExitVenvFailed indicates the virtual environment could not be created.
	ExitVenvFailed ExitCode = 3

	// ExitPipFailed indicates a pip operation (install or freeze) failed.
	ExitPipFailed ExitCode = 4

	// ExitAlembicFailed indicates an Alembic operation failed.
	ExitAlembicFailed ExitCode = 5

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 6

	// ExitConfigInvalid indicates the project configuration file could
	// not be parsed or failed validation.
	ExitConfigInvalid ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
