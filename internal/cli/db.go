package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/pybootstrap/internal/docker"
	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/port"
	"github.com/shinji-kodama/pybootstrap/internal/project"
)

// NewDBCommand creates the "db" command group managing the project's
// Docker dev database container.
func NewDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the Docker dev database container",
		Long: `Manage a per-project Postgres container for local development.

The container is named deterministically (pybootstrap-<project>-db), labeled
with its full configuration, and publishes its port on 127.0.0.1 only. There
is no state file: status is reconstructed from the container's labels.`,
	}

	cmd.AddCommand(newDBUpCommand())
	cmd.AddCommand(newDBDownCommand())
	cmd.AddCommand(newDBStatusCommand())

	return cmd
}

func newDBUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up [dir]",
		Short: "Create or start the dev database container",
		Long: `Create the project's dev database container, pulling the image if
necessary, or start it if it already exists but is stopped. If the preferred
host port is taken, the next free port is picked by scanning upward.

Examples:
  pybootstrap db up
  pybootstrap db up myservice`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBUp(cmd.Context(), args)
		},
	}
}

func newDBDownCommand() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "down [dir]",
		Short: "Stop the dev database container",
		Long: `Stop the project's dev database container. The container and its data
are kept so "db up" can restart it; --remove deletes the container entirely.

Examples:
  pybootstrap db down
  pybootstrap db down --remove`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBDown(cmd.Context(), args, remove)
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the container after stopping it")

	return cmd
}

func newDBStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [dir]",
		Short: "Show the dev database container status",
		Long: `Show the project's dev database container: name, image, state, host
port, and connection URL. All information is read from the container's
labels and runtime state.`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBStatus(cmd.Context(), args)
		},
	}
}

// connectDocker creates a Docker client and verifies the daemon responds.
func connectDocker(ctx context.Context) (*docker.Client, error) {
	cli, err := docker.NewClient()
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, err
	}
	return cli, nil
}

func runDBUp(ctx context.Context, args []string) error {
	cfg, proj, err := resolveProject(args)
	if err != nil {
		return err
	}
	db := cfg.ResolveDatabase(proj.Name)

	cli, err := connectDocker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	info, err := docker.FindDatabase(ctx, cli, proj.Name)
	if err != nil {
		return err
	}

	if info != nil {
		if info.Status == "running" {
			fmt.Printf("Database %s is already running on 127.0.0.1:%d\n", info.ContainerName, info.HostPort)
			printConnectionURL(db, info.HostPort)
			return nil
		}
		VerboseLog("Starting existing container %s...", info.ContainerName)
		if err := docker.StartDatabase(ctx, cli, info.ContainerID); err != nil {
			return err
		}
		fmt.Printf("Started database %s on 127.0.0.1:%d\n", info.ContainerName, info.HostPort)
		printConnectionURL(db, info.HostPort)
		return nil
	}

	hostPort, err := port.NewScanner().PickHostPort(db.Port)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "no free host port for the dev database", err)
	}
	if hostPort != db.Port {
		VerboseLog("Preferred port %d is taken, using %d", db.Port, hostPort)
	}

	VerboseLog("Creating database container %s from %s...", docker.ContainerName(proj.Name), db.Image)
	if _, err := docker.CreateDatabase(ctx, cli, proj.Name, db, hostPort); err != nil {
		return err
	}

	fmt.Printf("Created database %s on 127.0.0.1:%d\n", docker.ContainerName(proj.Name), hostPort)
	printConnectionURL(db, hostPort)
	return nil
}

func runDBDown(ctx context.Context, args []string, remove bool) error {
	_, proj, err := resolveProject(args)
	if err != nil {
		return err
	}

	cli, err := connectDocker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	info, err := docker.FindDatabase(ctx, cli, proj.Name)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Printf("No dev database container for project %q\n", proj.Name)
		return nil
	}

	if info.Status == "running" {
		VerboseLog("Stopping container %s...", info.ContainerName)
		if err := docker.StopDatabase(ctx, cli, info.ContainerID); err != nil {
			return err
		}
	}

	if remove {
		VerboseLog("Removing container %s...", info.ContainerName)
		if err := docker.RemoveDatabase(ctx, cli, info.ContainerID, false); err != nil {
			return err
		}
		fmt.Printf("Removed database %s\n", info.ContainerName)
		return nil
	}

	fmt.Printf("Stopped database %s\n", info.ContainerName)
	return nil
}

func runDBStatus(ctx context.Context, args []string) error {
	cfg, proj, err := resolveProject(args)
	if err != nil {
		return err
	}
	db := cfg.ResolveDatabase(proj.Name)

	cli, err := connectDocker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	info, err := docker.FindDatabase(ctx, cli, proj.Name)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		out := struct {
			Project  string               `json:"project"`
			Database *docker.DatabaseInfo `json:"database"`
		}{Project: proj.Name, Database: info}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if info == nil {
		fmt.Printf("No dev database container for project %q — run `pybootstrap db up`\n", proj.Name)
		return nil
	}

	fmt.Printf("Database for project %q\n", proj.Name)
	fmt.Printf("  Container: %s (%s)\n", info.ContainerName, info.ContainerID[:12])
	fmt.Printf("  Image:     %s\n", info.Image)
	fmt.Printf("  State:     %s\n", info.Status)
	fmt.Printf("  Port:      127.0.0.1:%d\n", info.HostPort)
	fmt.Printf("  Created:   %s\n", info.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	if info.Status == "running" {
		printConnectionURL(db, info.HostPort)
	}
	return nil
}

// printConnectionURL prints the SQLAlchemy connection URL for the dev
// database, ready to paste into .env.
func printConnectionURL(db project.DatabaseConfig, hostPort int) {
	fmt.Printf("  DATABASE_URL=postgresql://%s:%s@127.0.0.1:%d/%s\n",
		db.User, db.Password, hostPort, db.Name)
}
