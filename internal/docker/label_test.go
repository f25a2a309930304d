package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/pybootstrap/internal/project"
)

// testDatabaseConfig returns a fully resolved database config for tests.
func testDatabaseConfig() project.DatabaseConfig {
	return project.DatabaseConfig{
		Image:    "postgres:16",
		Port:     5432,
		Name:     "task_manager",
		User:     "postgres",
		Password: "postgres",
	}
}

// TestBuildParseLabelsRoundTrip verifies that ParseLabels is the exact
// inverse of BuildLabels for every encoded field.
func TestBuildParseLabelsRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	labels := BuildLabels("task-manager", testDatabaseConfig(), 5433, createdAt)

	info, err := ParseLabels(labels)
	require.NoError(t, err)

	assert.Equal(t, "task-manager", info.Project)
	assert.Equal(t, "postgres:16", info.Image)
	assert.Equal(t, 5433, info.HostPort)
	assert.Equal(t, "task_manager", info.Database)
	assert.Equal(t, createdAt, info.CreatedAt)
}

// TestParseLabelsMissing verifies that all missing labels are reported in
// a single error message.
func TestParseLabelsMissing(t *testing.T) {
	_, err := ParseLabels(map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelProject:   "demo",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), LabelRole)
	assert.Contains(t, err.Error(), LabelHostPort)
	assert.Contains(t, err.Error(), LabelCreatedAt)
}

// TestParseLabelsWrongManager verifies containers labeled by other tools
// are rejected even if they carry all required keys.
func TestParseLabelsWrongManager(t *testing.T) {
	labels := BuildLabels("demo", testDatabaseConfig(), 5432, time.Now())
	labels[LabelManagedBy] = "someone-else"

	_, err := ParseLabels(labels)
	assert.Error(t, err)
}

// TestParseLabelsBadPort verifies the host port value must be numeric.
func TestParseLabelsBadPort(t *testing.T) {
	labels := BuildLabels("demo", testDatabaseConfig(), 5432, time.Now())
	labels[LabelHostPort] = "not-a-port"

	_, err := ParseLabels(labels)
	assert.Error(t, err)
}

// TestContainerName pins the deterministic container naming scheme.
func TestContainerName(t *testing.T) {
	assert.Equal(t, "pybootstrap-task-manager-db", ContainerName("task-manager"))
}
