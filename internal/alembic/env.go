package alembic

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/pybootstrap/internal/model"
)

// envMetadataPlaceholder is the line `alembic init` writes into env.py.
// Autogenerate cannot work until it is replaced with the application's
// actual MetaData object.
const envMetadataPlaceholder = "target_metadata = None"

// envMetadataReplacement wires env.py to the scaffolded application: it
// imports the declarative Base and the models module (so every table is
// registered on Base.metadata before autogenerate compares schemas).
const envMetadataReplacement = `from app.database import Base
from app import models  # noqa: F401

target_metadata = Base.metadata`

// PatchEnv rewrites the generated <migrationsDir>/env.py so that
// autogenerate sees the application's ORM metadata. Only the
// target_metadata placeholder line is replaced; the rest of the file is
// preserved.
//
// Calling PatchEnv on an already-patched env.py is a no-op, so the
// migrations step stays idempotent.
func PatchEnv(migrationsDir string) error {
	envPath := filepath.Join(migrationsDir, "env.py")

	data, err := os.ReadFile(envPath)
	if err != nil {
		return model.WrapCLIError(model.ExitAlembicFailed,
			fmt.Sprintf("failed to read %s", envPath), err)
	}

	content := string(data)
	if strings.Contains(content, "target_metadata = Base.metadata") {
		return nil
	}
	if !strings.Contains(content, envMetadataPlaceholder) {
		return model.NewCLIError(model.ExitAlembicFailed,
			fmt.Sprintf("no target_metadata placeholder found in %s — env.py was customized, not patching", envPath))
	}

	patched := strings.Replace(content, envMetadataPlaceholder, envMetadataReplacement, 1)

	if err := os.WriteFile(envPath, []byte(patched), 0644); err != nil {
		return model.WrapCLIError(model.ExitAlembicFailed,
			fmt.Sprintf("failed to write %s", envPath), err)
	}
	return nil
}
