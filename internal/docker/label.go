package docker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shinji-kodama/pybootstrap/internal/project"
)

// Label key constants define the Docker label keys that identify the dev
// database container and persist its settings. Labels are the sole
// persistence mechanism — there is no state file; `db status` rebuilds
// everything from container inspection.
//
// All keys share the "pybootstrap." prefix to namespace them and avoid
// collisions with labels set by other tools.
const (
	// LabelPrefix is the common prefix for all pybootstrap labels.
	LabelPrefix = "pybootstrap."

	// LabelManagedBy identifies containers managed by pybootstrap.
	// Key: "pybootstrap.managed-by", Value: always "pybootstrap".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelProject stores the project name the container belongs to.
	LabelProject = LabelPrefix + "project"

	// LabelRole stores the container's role. Currently always
	// "database"; the key exists so future roles (cache, broker) can
	// share the label schema.
	LabelRole = LabelPrefix + "role"

	// LabelImage stores the configured database image.
	LabelImage = LabelPrefix + "image"

	// LabelHostPort stores the host port the database publishes.
	LabelHostPort = LabelPrefix + "host-port"

	// LabelDatabase stores the database name created in the container.
	LabelDatabase = LabelPrefix + "database"

	// LabelCreatedAt stores the RFC3339 timestamp of container creation.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "pybootstrap"

// RoleDatabase is the LabelRole value for the dev database container.
const RoleDatabase = "database"

// DatabaseInfo is the dev database state reconstructed from container
// labels plus runtime container state.
type DatabaseInfo struct {
	// ContainerID is the Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// Project is the owning project's name.
	Project string `json:"project"`

	// Image is the database container image.
	Image string `json:"image"`

	// HostPort is the published host port.
	HostPort int `json:"hostPort"`

	// Database is the database name inside the container.
	Database string `json:"database"`

	// Status is the Docker container state ("running", "exited", ...).
	Status string `json:"status"`

	// CreatedAt is when the container was created by pybootstrap.
	CreatedAt time.Time `json:"createdAt"`
}

// BuildLabels constructs the Docker label map for a dev database
// container from the resolved database config. The full configuration is
// encoded so `db status` can report it without reading any project file.
func BuildLabels(projectName string, db project.DatabaseConfig, hostPort int, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelProject:   projectName,
		LabelRole:      RoleDatabase,
		LabelImage:     db.Image,
		LabelHostPort:  strconv.Itoa(hostPort),
		LabelDatabase:  db.Name,
		LabelCreatedAt: createdAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reconstructs DatabaseInfo from a container's labels.
// This is the inverse of BuildLabels. The ContainerID, ContainerName,
// and Status fields are filled in by the caller from container state.
//
// Missing required labels cause an error listing all of them at once,
// which makes debugging a mislabeled container easier than failing on
// the first.
func ParseLabels(labels map[string]string) (*DatabaseInfo, error) {
	requiredKeys := []string{
		LabelManagedBy,
		LabelProject,
		LabelRole,
		LabelImage,
		LabelHostPort,
		LabelDatabase,
		LabelCreatedAt,
	}

	var missing []string
	for _, key := range requiredKeys {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}
	if labels[LabelRole] != RoleDatabase {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelRole, labels[LabelRole], RoleDatabase,
		)
	}

	hostPort, err := strconv.Atoi(labels[LabelHostPort])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s=%q: %w", LabelHostPort, labels[LabelHostPort], err)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &DatabaseInfo{
		Project:   labels[LabelProject],
		Image:     labels[LabelImage],
		HostPort:  hostPort,
		Database:  labels[LabelDatabase],
		CreatedAt: createdAt,
	}, nil
}

// ContainerName returns the deterministic name for a project's dev
// database container, e.g. "pybootstrap-task-manager-db".
func ContainerName(projectName string) string {
	return fmt.Sprintf("pybootstrap-%s-db", projectName)
}
