package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/pybootstrap/internal/model"
)

// TestLoadMissingConfig verifies that a project without a config file
// loads an empty config rather than failing.
func TestLoadMissingConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

// TestLoadJSONC verifies parsing of a config with comments and trailing
// commas, which plain encoding/json would reject.
func TestLoadJSONC(t *testing.T) {
	root := t.TempDir()
	content := `{
  // Project identity
  "name": "task-manager",
  "python": "python3.12",
  "venvDir": "env",
  "requirements": [
    "fastapi",
    "sqlalchemy", // trailing comma below is fine too
  ],
  "database": {
    "url": "postgresql://localhost:5432/tasks",
    "port": 5433,
  },
}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "pybootstrap.jsonc"), []byte(content), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "task-manager", cfg.Name)
	assert.Equal(t, "python3.12", cfg.Python)
	assert.Equal(t, "env", cfg.VenvDir)
	assert.Equal(t, []string{"fastapi", "sqlalchemy"}, cfg.Requirements)
	assert.Equal(t, "postgresql://localhost:5432/tasks", cfg.Database.URL)
	assert.Equal(t, 5433, cfg.Database.Port)
}

// TestLoadInvalidJSON verifies the ExitConfigInvalid error path.
func TestLoadInvalidJSON(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pybootstrap.json"), []byte("{not json"), 0644))

	_, err := Load(root)
	require.Error(t, err)

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitConfigInvalid, cliErr.Code)
}

// TestLoadPrefersJSONC verifies the probe order when both file names exist.
func TestLoadPrefersJSONC(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pybootstrap.jsonc"), []byte(`{"name":"from-jsonc"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pybootstrap.json"), []byte(`{"name":"from-json"}`), 0644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "from-jsonc", cfg.Name)
}

// TestResolveDefaults verifies that an empty config resolves to the
// documented defaults, anchored at the project root.
func TestResolveDefaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "myproject")
	require.NoError(t, os.MkdirAll(root, 0755))

	proj, err := (&Config{}).Resolve(root)
	require.NoError(t, err)

	assert.Equal(t, "myproject", proj.Name)
	assert.Equal(t, filepath.Join(root, ".venv"), proj.VenvDir)
	assert.Equal(t, filepath.Join(root, "alembic"), proj.MigrationsDir)
	assert.Equal(t, filepath.Join(root, "requirements.txt"), proj.RequirementsFile)
	assert.Equal(t, "sqlite:///./app.db", proj.DatabaseURL)
	assert.Empty(t, proj.Python, "interpreter discovery is deferred to the python package")
	assert.False(t, proj.CreatedAt.IsZero())
}

// TestResolveRelativeDirs verifies that relative venv/migrations dirs are
// anchored at the project root while absolute ones pass through.
func TestResolveRelativeDirs(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	proj, err := (&Config{Name: "demo", VenvDir: "env", MigrationsDir: abs}).Resolve(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "env"), proj.VenvDir)
	assert.Equal(t, abs, proj.MigrationsDir)
}

// TestResolveInvalidName verifies that a bad configured name is rejected
// with ExitConfigInvalid.
func TestResolveInvalidName(t *testing.T) {
	_, err := (&Config{Name: "9lives"}).Resolve(t.TempDir())
	require.Error(t, err)

	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitConfigInvalid, cliErr.Code)
}

// TestResolveDatabaseDefaults verifies the dev database defaults,
// including the hyphen-to-underscore database name conversion.
func TestResolveDatabaseDefaults(t *testing.T) {
	db := (&Config{}).ResolveDatabase("task-manager")

	assert.Equal(t, DefaultDatabaseImage, db.Image)
	assert.Equal(t, DefaultDatabasePort, db.Port)
	assert.Equal(t, "task_manager", db.Name)
	assert.Equal(t, DefaultDatabaseUser, db.User)
	assert.Equal(t, DefaultDatabaseUser, db.Password)
}

// TestResolveDatabaseOverrides verifies configured values pass through
// untouched.
func TestResolveDatabaseOverrides(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Image:    "postgres:15",
		Port:     15432,
		Name:     "tasks",
		User:     "dev",
		Password: "devpass",
	}}

	db := cfg.ResolveDatabase("demo")
	assert.Equal(t, "postgres:15", db.Image)
	assert.Equal(t, 15432, db.Port)
	assert.Equal(t, "tasks", db.Name)
	assert.Equal(t, "dev", db.User)
	assert.Equal(t, "devpass", db.Password)
}
