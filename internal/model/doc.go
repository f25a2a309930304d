// Package model defines the domain types shared across the pybootstrap CLI:
// the project descriptor, bootstrap pipeline steps, exit codes, and the
// CLIError type that carries exit codes from domain packages to main.
package model
