package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunCreatesFixedFileSet verifies the core scaffold property: after a
// run on an empty directory, the app/ package contains exactly the fixed
// file set, and all source files are empty placeholders.
func TestRunCreatesFixedFileSet(t *testing.T) {
	root := t.TempDir()

	result, err := Run(root, Options{ProjectName: "demo"})
	require.NoError(t, err)
	assert.Empty(t, result.Skipped, "fresh directory should have nothing to skip")

	// The app/ directory contains exactly the fixed set.
	entries, err := os.ReadDir(filepath.Join(root, AppDirName))
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"__init__.py", "main.py", "database.py", "models.py", "schemas.py", "crud.py",
	}, names)

	// Placeholder mode: every source file is empty.
	for _, rel := range AppFiles() {
		info, err := os.Stat(filepath.Join(root, rel))
		require.NoError(t, err)
		assert.Zero(t, info.Size(), "%s should be an empty placeholder", rel)
	}

	// Root-level files exist and are non-empty.
	for _, rel := range []string{".env", ".gitignore", "requirements.txt"} {
		info, err := os.Stat(filepath.Join(root, rel))
		require.NoError(t, err)
		assert.NotZero(t, info.Size(), "%s should have content", rel)
	}
}

// TestRunNeverOverwrites verifies that existing files survive a re-run
// byte for byte and are reported as skipped.
func TestRunNeverOverwrites(t *testing.T) {
	root := t.TempDir()

	// Pre-populate main.py with user content.
	require.NoError(t, os.MkdirAll(filepath.Join(root, AppDirName), 0755))
	userContent := []byte("print('mine')\n")
	mainPy := filepath.Join(root, AppDirName, "main.py")
	require.NoError(t, os.WriteFile(mainPy, userContent, 0644))

	result, err := Run(root, Options{ProjectName: "demo", Starter: true})
	require.NoError(t, err)

	got, err := os.ReadFile(mainPy)
	require.NoError(t, err)
	assert.Equal(t, userContent, got, "existing file must not be overwritten, even with --starter")
	assert.Contains(t, result.Skipped, filepath.Join(AppDirName, "main.py"))
}

// TestRunIdempotent verifies that a second run skips everything the first
// run created.
func TestRunIdempotent(t *testing.T) {
	root := t.TempDir()

	first, err := Run(root, Options{ProjectName: "demo"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Created)

	second, err := Run(root, Options{ProjectName: "demo"})
	require.NoError(t, err)
	assert.Empty(t, second.Created, "second run should create nothing")
	assert.Len(t, second.Skipped, len(AppFiles())+3, "second run should skip every file")
}

// TestRunStarterRendersContent verifies starter mode produces non-empty
// source files with the project name substituted.
func TestRunStarterRendersContent(t *testing.T) {
	root := t.TempDir()

	_, err := Run(root, Options{ProjectName: "task-manager", Starter: true})
	require.NoError(t, err)

	mainPy, err := os.ReadFile(filepath.Join(root, AppDirName, "main.py"))
	require.NoError(t, err)
	assert.Contains(t, string(mainPy), `title="task-manager"`)

	// __init__.py stays empty even in starter mode.
	info, err := os.Stat(filepath.Join(root, AppDirName, "__init__.py"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

// TestRunCustomRequirements verifies that the configured dependency list
// replaces the default one in a fresh requirements.txt.
func TestRunCustomRequirements(t *testing.T) {
	root := t.TempDir()

	_, err := Run(root, Options{
		ProjectName:  "demo",
		Requirements: []string{"flask", "gunicorn"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(root, "requirements.txt"))
	require.NoError(t, err)
	assert.Equal(t, "flask\ngunicorn\n", string(content))
}

// TestMissingFiles verifies scaffold completeness reporting for doctor.
func TestMissingFiles(t *testing.T) {
	root := t.TempDir()

	missing := MissingFiles(root)
	assert.Len(t, missing, len(AppFiles())+3, "everything is missing before scaffolding")

	_, err := Run(root, Options{ProjectName: "demo"})
	require.NoError(t, err)

	assert.Empty(t, MissingFiles(root), "nothing should be missing after scaffolding")
}

// TestDefaultRequirementsCoverToolchain pins the presence of the packages
// the pipeline itself depends on: alembic must be installable or the
// migrations step cannot run.
func TestDefaultRequirementsCoverToolchain(t *testing.T) {
	assert.Contains(t, DefaultRequirements, "alembic")
	assert.Contains(t, DefaultRequirements, "fastapi")
	assert.Contains(t, DefaultRequirements, "sqlalchemy")
}
