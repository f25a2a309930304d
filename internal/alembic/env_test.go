package alembic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generatedEnvPy approximates the env.py that `alembic init` writes,
// reduced to the lines PatchEnv cares about.
const generatedEnvPy = `from alembic import context

config = context.config

# add your model's MetaData object here
# for 'autogenerate' support
target_metadata = None


def run_migrations_offline() -> None:
    pass
`

// TestPatchEnv verifies the placeholder replacement and idempotency.
func TestPatchEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.py")
	require.NoError(t, os.WriteFile(envPath, []byte(generatedEnvPy), 0644))

	require.NoError(t, PatchEnv(dir))

	data, err := os.ReadFile(envPath)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "target_metadata = Base.metadata")
	assert.Contains(t, content, "from app.database import Base")
	assert.NotContains(t, content, "target_metadata = None")
	assert.Contains(t, content, "run_migrations_offline", "surrounding code must be preserved")

	// Second patch is a no-op.
	require.NoError(t, PatchEnv(dir))
	again, err := os.ReadFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, content, string(again))
}

// TestPatchEnvCustomized verifies that a hand-edited env.py without the
// placeholder is left alone, with an explanatory error.
func TestPatchEnvCustomized(t *testing.T) {
	dir := t.TempDir()
	custom := "target_metadata = my_custom_metadata\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "env.py"), []byte(custom), 0644))

	err := PatchEnv(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customized")

	data, readErr := os.ReadFile(filepath.Join(dir, "env.py"))
	require.NoError(t, readErr)
	assert.Equal(t, custom, string(data), "customized env.py must not be modified")
}

// TestPatchEnvMissing verifies the error when env.py does not exist.
func TestPatchEnvMissing(t *testing.T) {
	assert.Error(t, PatchEnv(t.TempDir()))
}
