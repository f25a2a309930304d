// Package docker manages the project's dev database container through the
// Docker Engine SDK.
//
// The container is identified purely by labels (pybootstrap.* prefix) —
// there is no state file. The db command discovers, starts, stops, and
// removes the container by querying the Docker API with a label filter,
// and the compose generator emits an equivalent docker-compose.dev.yml
// for developers who prefer running the database themselves.
package docker
