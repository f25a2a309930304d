package scaffold

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden tests pin the exact bytes of rendered starter content.
// Regenerate with:
//
//	go test ./internal/scaffold -update
func TestRenderStarterGolden(t *testing.T) {
	g := goldie.New(t)

	opts := Options{ProjectName: "task-manager", DatabaseURL: DefaultDatabaseURL}

	mainPy, err := RenderStarter("main.py", opts)
	require.NoError(t, err)
	g.Assert(t, "starter_main", mainPy)

	databasePy, err := RenderStarter("database.py", opts)
	require.NoError(t, err)
	g.Assert(t, "starter_database", databasePy)
}

// TestRenderEnvGolden pins the .env content.
func TestRenderEnvGolden(t *testing.T) {
	g := goldie.New(t)

	content := renderEnv(Options{DatabaseURL: DefaultDatabaseURL})
	g.Assert(t, "dotenv", []byte(content))
}

// TestRenderStarterUnknownFile verifies that files without starter
// content render empty rather than erroring.
func TestRenderStarterUnknownFile(t *testing.T) {
	content, err := RenderStarter("__init__.py", Options{ProjectName: "x"})
	require.NoError(t, err)
	assert.Empty(t, content)
}

// TestStarterTemplatesRender verifies every registered template renders
// without error and references its own module correctly.
func TestStarterTemplatesRender(t *testing.T) {
	opts := Options{ProjectName: "demo", DatabaseURL: DefaultDatabaseURL}

	for name := range starterTemplates {
		content, err := RenderStarter(name, opts)
		require.NoError(t, err, "template %s should render", name)
		assert.NotEmpty(t, content, "template %s should produce content", name)
	}
}
