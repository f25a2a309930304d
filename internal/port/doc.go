// Package port implements host port availability scanning for the dev
// database container.
//
// The db command prefers the database's conventional port (5432 for
// Postgres) and falls back to the next free port when it is taken, so a
// second project — or a system Postgres — on the same machine never
// causes a publish conflict.
package port
