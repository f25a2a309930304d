package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestGenerateCompose verifies the generated compose file parses back as
// YAML and carries the expected service definition and labels.
func TestGenerateCompose(t *testing.T) {
	data, err := GenerateCompose("task-manager", testDatabaseConfig(), 5433)
	require.NoError(t, err)

	// The header comment must survive at the top of the file.
	assert.Contains(t, string(data), "# Dev database for project \"task-manager\"")

	var parsed struct {
		Name     string `yaml:"name"`
		Services map[string]struct {
			Image       string            `yaml:"image"`
			Environment map[string]string `yaml:"environment"`
			Ports       []string          `yaml:"ports"`
			Volumes     []string          `yaml:"volumes"`
			Labels      map[string]string `yaml:"labels"`
		} `yaml:"services"`
		Volumes map[string]interface{} `yaml:"volumes"`
	}
	require.NoError(t, yaml.Unmarshal(data, &parsed))

	assert.Equal(t, "task-manager", parsed.Name)

	db, ok := parsed.Services["db"]
	require.True(t, ok, "compose file must define a db service")
	assert.Equal(t, "postgres:16", db.Image)
	assert.Equal(t, "task_manager", db.Environment["POSTGRES_DB"])
	assert.Equal(t, []string{"127.0.0.1:5433:5432"}, db.Ports)
	assert.Equal(t, []string{"db-data:/var/lib/postgresql/data"}, db.Volumes)
	assert.Equal(t, ManagedByValue, db.Labels[LabelManagedBy])
	assert.Equal(t, "task-manager", db.Labels[LabelProject])

	_, hasVolume := parsed.Volumes["db-data"]
	assert.True(t, hasVolume, "db-data volume must be declared")
}
