package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/scaffold"
)

// configFileNames are the config file locations probed in the project
// root, in priority order.
var configFileNames = []string{"pybootstrap.jsonc", "pybootstrap.json"}

// Config is the on-disk configuration schema. All fields are optional;
// zero values select defaults in Resolve.
type Config struct {
	// Name is the project name. Defaults to the project directory name.
	Name string `json:"name,omitempty"`

	// Python is the interpreter used to create the venv. May be a bare
	// command name or a path. Defaults to interpreter discovery
	// (python3/python on PATH).
	Python string `json:"python,omitempty"`

	// VenvDir is the virtual environment directory, relative to the
	// project root unless absolute. Defaults to ".venv".
	VenvDir string `json:"venvDir,omitempty"`

	// MigrationsDir is the Alembic environment directory, relative to
	// the project root unless absolute. Defaults to "alembic".
	MigrationsDir string `json:"migrationsDir,omitempty"`

	// Requirements overrides the default dependency list written into a
	// fresh requirements.txt.
	Requirements []string `json:"requirements,omitempty"`

	// Database configures the SQLAlchemy URL and the dev database
	// container managed by the db command.
	Database DatabaseConfig `json:"database,omitempty"`
}

// DatabaseConfig describes the project database. The URL feeds the
// scaffolded settings and alembic.ini; the remaining fields configure the
// dev Postgres container started by `pybootstrap db up`.
type DatabaseConfig struct {
	// URL is the SQLAlchemy connection URL. Defaults to a local SQLite
	// file so a fresh project runs without any server.
	URL string `json:"url,omitempty"`

	// Image is the container image for the dev database.
	// Defaults to "postgres:16".
	Image string `json:"image,omitempty"`

	// Port is the host port the dev database publishes. Defaults to 5432.
	// When the port is taken, db up picks the next free one.
	Port int `json:"port,omitempty"`

	// Name is the database name created inside the container.
	// Defaults to the project name with hyphens replaced by underscores.
	Name string `json:"dbName,omitempty"`

	// User and Password are the container's superuser credentials.
	// Both default to "postgres". These are development credentials for
	// a localhost-only container, not secrets.
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

// Defaults for DatabaseConfig fields.
const (
	DefaultDatabaseImage = "postgres:16"
	DefaultDatabasePort  = 5432
	DefaultDatabaseUser  = "postgres"
)

// Load reads the project config from root, if present. A missing config
// file is not an error — it returns an empty Config that Resolve fills
// with defaults. A present but unparsable config is an error with
// ExitConfigInvalid.
func Load(root string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("failed to read %s", path), err)
		}

		// Strip comments and trailing commas before standard JSON parsing.
		var cfg Config
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return nil, model.WrapCLIError(model.ExitConfigInvalid,
				fmt.Sprintf("failed to parse %s", path), err)
		}
		return &cfg, nil
	}

	return &Config{}, nil
}

// Resolve turns a Config into a fully populated model.Project rooted at
// the given absolute path, applying defaults for every unset field and
// validating the result.
func (c *Config) Resolve(root string) (*model.Project, error) {
	name := c.Name
	if name == "" {
		name = filepath.Base(root)
	}
	if err := model.ValidateName(name); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigInvalid, "invalid project configuration", err)
	}

	venvDir := c.VenvDir
	if venvDir == "" {
		venvDir = ".venv"
	}
	if !filepath.IsAbs(venvDir) {
		venvDir = filepath.Join(root, venvDir)
	}

	migrationsDir := c.MigrationsDir
	if migrationsDir == "" {
		migrationsDir = "alembic"
	}
	if !filepath.IsAbs(migrationsDir) {
		migrationsDir = filepath.Join(root, migrationsDir)
	}

	databaseURL := c.Database.URL
	if databaseURL == "" {
		databaseURL = scaffold.DefaultDatabaseURL
	}

	return &model.Project{
		Name:             name,
		Root:             root,
		VenvDir:          venvDir,
		Python:           c.Python,
		RequirementsFile: filepath.Join(root, "requirements.txt"),
		MigrationsDir:    migrationsDir,
		DatabaseURL:      databaseURL,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// ResolveDatabase returns the dev database container settings with
// defaults applied. The project name is needed for the default database
// name, which must be a valid Postgres identifier.
func (c *Config) ResolveDatabase(projectName string) DatabaseConfig {
	db := c.Database

	if db.Image == "" {
		db.Image = DefaultDatabaseImage
	}
	if db.Port == 0 {
		db.Port = DefaultDatabasePort
	}
	if db.Name == "" {
		db.Name = identifier(projectName)
	}
	if db.User == "" {
		db.User = DefaultDatabaseUser
	}
	if db.Password == "" {
		db.Password = DefaultDatabaseUser
	}
	return db
}

// identifier converts a project name into a conservative SQL identifier:
// hyphens become underscores. Project names are already restricted to
// alphanumerics, hyphens, and underscores by model.ValidateName.
func identifier(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '-' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}
