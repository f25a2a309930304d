// Package project loads the optional pybootstrap.jsonc configuration file
// and resolves it into a model.Project plus scaffold/database settings.
//
// The config file supports JSONC (JSON with comments and trailing commas)
// via github.com/tidwall/jsonc, because a hand-edited per-project config
// benefits from inline commentary the same way devcontainer.json does.
// Every field is optional; a project with no config file at all gets the
// same defaults the original bootstrap produced.
package project
