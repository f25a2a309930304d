// Package alembic wraps the Alembic migration CLI installed inside the
// project's virtual environment.
//
// Alembic is only driven, never reimplemented: this package shells out to
// the venv's alembic executable for init, revision autogeneration, and
// upgrade, and patches the generated alembic.ini so the migration
// environment points at the project's database URL.
//
// All commands run with the project root as working directory, which is
// where alembic expects to find alembic.ini.
package alembic
