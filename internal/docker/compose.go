// compose.go generates the docker-compose.dev.yml written into the
// scaffolded project. The file describes the same dev database the db
// command manages, so developers who prefer `docker compose` over this
// tool get an equivalent setup — same image, credentials, port, and
// labels.
package docker

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/pybootstrap/internal/model"
	"github.com/shinji-kodama/pybootstrap/internal/project"
)

// ComposeFileName is the compose file written into the project root.
const ComposeFileName = "docker-compose.dev.yml"

// composeFile is the YAML structure of the generated compose file.
type composeFile struct {
	// Name sets the compose project name, isolating container, network,
	// and volume names between projects.
	Name string `yaml:"name"`

	// Services maps service names to their definitions. The generated
	// file has a single "db" service.
	Services map[string]composeService `yaml:"services"`

	// Volumes declares the named volume holding the database data.
	Volumes map[string]struct{} `yaml:"volumes"`
}

// composeService is the definition of the db service.
type composeService struct {
	Image       string            `yaml:"image"`
	Environment map[string]string `yaml:"environment"`
	Ports       []string          `yaml:"ports"`
	Volumes     []string          `yaml:"volumes"`
	Labels      map[string]string `yaml:"labels"`
}

// GenerateCompose renders the docker-compose.dev.yml content for a
// project. The output carries the same pybootstrap labels as containers
// created by `db up`, so `db status` discovers compose-started databases
// too.
func GenerateCompose(projectName string, db project.DatabaseConfig, hostPort int) ([]byte, error) {
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelProject:   projectName,
		LabelRole:      RoleDatabase,
	}

	file := composeFile{
		Name: projectName,
		Services: map[string]composeService{
			"db": {
				Image: db.Image,
				Environment: map[string]string{
					"POSTGRES_USER":     db.User,
					"POSTGRES_PASSWORD": db.Password,
					"POSTGRES_DB":       db.Name,
				},
				Ports:   []string{fmt.Sprintf("127.0.0.1:%d:%d", hostPort, databaseContainerPort)},
				Volumes: []string{"db-data:/var/lib/postgresql/data"},
				Labels:  labels,
			},
		},
		Volumes: map[string]struct{}{"db-data": {}},
	}

	yamlBytes, err := yaml.Marshal(&file)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError,
			"failed to serialize compose file", err)
	}

	header := fmt.Sprintf(
		"# Dev database for project %q — generated by pybootstrap\n# Start with: docker compose -f %s up -d\n",
		projectName, ComposeFileName,
	)

	return []byte(header + string(yamlBytes)), nil
}
