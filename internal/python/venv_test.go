package python

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requirePython returns a real python3 interpreter path or skips the test.
// Venv integration tests need an actual interpreter; everything else in
// this file is pure path logic.
func requirePython(t *testing.T) string {
	t.Helper()

	path, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not on PATH")
	}
	return path
}

// TestBinDir verifies the platform-specific executable directory layout.
func TestBinDir(t *testing.T) {
	v := NewVenv(filepath.Join("proj", ".venv"))

	if runtime.GOOS == "windows" {
		assert.Equal(t, filepath.Join("proj", ".venv", "Scripts"), v.BinDir())
	} else {
		assert.Equal(t, filepath.Join("proj", ".venv", "bin"), v.BinDir())
	}
}

// TestExecutable verifies tool path resolution, including the .exe suffix
// on Windows.
func TestExecutable(t *testing.T) {
	v := NewVenv(filepath.Join("proj", ".venv"))

	path := v.Executable("alembic")
	assert.True(t, strings.HasPrefix(path, v.BinDir()), "executable should live in the bin dir")

	if runtime.GOOS == "windows" {
		assert.True(t, strings.HasSuffix(path, "alembic.exe"))
	} else {
		assert.True(t, strings.HasSuffix(path, "alembic"))
	}
}

// TestExistsOnEmptyDir verifies that an arbitrary directory is not
// mistaken for a virtual environment.
func TestExistsOnEmptyDir(t *testing.T) {
	v := NewVenv(t.TempDir())
	assert.False(t, v.Exists(), "empty directory must not count as a venv")
}

// TestCreate verifies end-to-end venv creation with a real interpreter:
// the venv directory appears, pyvenv.cfg exists, and the venv's own
// python is runnable.
func TestCreate(t *testing.T) {
	interp := requirePython(t)

	v := NewVenv(filepath.Join(t.TempDir(), ".venv"))
	require.NoError(t, v.Create(interp))

	assert.True(t, v.Exists(), "venv should exist after Create")
	assert.True(t, v.HasExecutable("python"), "venv should contain a python executable")

	// The venv's interpreter must be runnable.
	out, err := exec.Command(v.Python(), "--version").CombinedOutput()
	require.NoError(t, err, "venv python --version failed: %s", out)

	// Create is idempotent: a second call must be a no-op, not an error.
	require.NoError(t, v.Create(interp))
}

// TestFreeze verifies pip freeze inside a freshly created venv. A fresh
// venv has no third-party packages, so freeze output is empty (or contains
// only seed packages on older pip versions) — the important property is
// that the command succeeds and WriteFreeze produces the manifest file.
func TestFreeze(t *testing.T) {
	interp := requirePython(t)

	v := NewVenv(filepath.Join(t.TempDir(), ".venv"))
	require.NoError(t, v.Create(interp))

	_, err := v.Freeze()
	require.NoError(t, err)

	reqFile := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, v.WriteFreeze(reqFile))
	assert.FileExists(t, reqFile)
}

// TestInstallRequirementsMissingFile verifies the error path when the
// requirements file does not exist — pip must not even be invoked.
func TestInstallRequirementsMissingFile(t *testing.T) {
	v := NewVenv(filepath.Join(t.TempDir(), ".venv"))

	err := v.InstallRequirements(filepath.Join(t.TempDir(), "requirements.txt"))
	assert.Error(t, err)
}
