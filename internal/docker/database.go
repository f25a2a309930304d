// database.go implements the dev database container lifecycle: discovery
// by label, creation (including image pull), start, stop, and removal.
//
// One container per project, named deterministically and labeled with the
// full database configuration. The container publishes the database port
// on 127.0.0.1 only — it is a local development convenience, not a
// network service.
package docker

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/go-connections/nat"

	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/project"
)

// databaseContainerPort is the port Postgres listens on inside the
// container. The host side varies (see port.Scanner); the container side
// is fixed by the image.
const databaseContainerPort = 5432

// FindDatabase queries the Docker daemon for the project's dev database
// container. Stopped containers are included, because `db up` must
// restart an existing stopped container rather than create a duplicate.
//
// Returns nil (not an error) when the project has no database container.
func FindDatabase(ctx context.Context, cli *Client, projectName string) (*DatabaseInfo, error) {
	// Server-side label filtering: cheaper than listing everything and
	// filtering in Go.
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
		filters.Arg("label", LabelProject+"="+projectName),
		filters.Arg("label", LabelRole+"="+RoleDatabase),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	if len(containers) == 0 {
		return nil, nil
	}

	return summaryToInfo(containers[0])
}

// summaryToInfo converts a Docker API container summary into
// DatabaseInfo by parsing its labels and attaching runtime state.
func summaryToInfo(c types.Container) (*DatabaseInfo, error) {
	info, err := ParseLabels(c.Labels)
	if err != nil {
		return nil, fmt.Errorf("container %s has invalid pybootstrap labels: %w", c.ID[:12], err)
	}

	info.ContainerID = c.ID
	info.Status = c.State
	if len(c.Names) > 0 {
		// The API prefixes names with "/"; strip it for display.
		info.ContainerName = c.Names[0][1:]
	}
	return info, nil
}

// CreateDatabase pulls the configured image and creates + starts the dev
// database container for the project. The caller must have verified no
// container exists yet (via FindDatabase) and picked a free host port.
//
// Returns the new container's ID.
func CreateDatabase(ctx context.Context, cli *Client, projectName string, db project.DatabaseConfig, hostPort int) (string, error) {
	if err := pullImage(ctx, cli, db.Image); err != nil {
		return "", err
	}

	containerPort := nat.Port(fmt.Sprintf("%d/tcp", databaseContainerPort))
	labels := BuildLabels(projectName, db, hostPort, time.Now().UTC())

	config := &container.Config{
		Image: db.Image,
		Env: []string{
			"POSTGRES_USER=" + db.User,
			"POSTGRES_PASSWORD=" + db.Password,
			"POSTGRES_DB=" + db.Name,
		},
		Labels:       labels,
		ExposedPorts: nat.PortSet{containerPort: struct{}{}},
	}

	hostConfig := &container.HostConfig{
		PortBindings: nat.PortMap{
			containerPort: []nat.PortBinding{{
				// Bind to loopback only: the dev database should not be
				// reachable from other hosts.
				HostIP:   "127.0.0.1",
				HostPort: strconv.Itoa(hostPort),
			}},
		},
		RestartPolicy: container.RestartPolicy{Name: container.RestartPolicyUnlessStopped},
	}

	created, err := cli.Inner().ContainerCreate(ctx, config, hostConfig, nil, nil, ContainerName(projectName))
	if err != nil {
		return "", model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to create database container for project %q", projectName),
			err,
		)
	}

	if err := StartDatabase(ctx, cli, created.ID); err != nil {
		return "", err
	}

	return created.ID, nil
}

// pullImage pulls the image if not already present. The pull stream must
// be drained to completion — the Docker API performs the pull lazily as
// the response body is read.
func pullImage(ctx context.Context, cli *Client, ref string) error {
	reader, err := cli.Inner().ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to pull image %q", ref),
			err,
		)
	}
	defer func() { _ = reader.Close() }()

	if _, err := io.Copy(io.Discard, reader); err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("image pull for %q was interrupted", ref),
			err,
		)
	}
	return nil
}

// StartDatabase starts a stopped database container by ID.
func StartDatabase(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerStart(ctx, containerID, container.StartOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to start container %q", containerID),
			err,
		)
	}
	return nil
}

// StopDatabase stops a running database container by ID. Docker sends
// SIGTERM and escalates to SIGKILL after its default timeout, which is
// enough for Postgres to shut down cleanly.
func StopDatabase(ctx context.Context, cli *Client, containerID string) error {
	err := cli.Inner().ContainerStop(ctx, containerID, container.StopOptions{})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to stop container %q", containerID),
			err,
		)
	}
	return nil
}

// RemoveDatabase removes a database container by ID. With force, the
// container is killed first; data in the container's volume is lost
// either way, which is acceptable for a dev database.
func RemoveDatabase(ctx context.Context, cli *Client, containerID string, force bool) error {
	err := cli.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force: force,
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID),
			err,
		)
	}
	return nil
}
