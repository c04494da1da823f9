// Where: internal/config/project.go
// What: Project configuration load, defaults, and schema validation.
// Why: Make image name, network, and compose conventions explicit configurables.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

// ProjectFile is the well-known name of the project configuration file.
const ProjectFile = "agentbox.yml"

//go:embed schema/agentbox.schema.json
var projectSchema string

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// ServiceConfig describes one compose-managed observability dependency.
type ServiceConfig struct {
	ComposeFile  string `json:"compose_file,omitempty"`
	Service      string `json:"service,omitempty"`
	HealthURL    string `json:"health_url,omitempty"`
	DelaySeconds int    `json:"delay_seconds,omitempty"`
}

// Delay returns the fixed fallback delay used when no health URL is set.
func (s ServiceConfig) Delay() time.Duration {
	return time.Duration(s.DelaySeconds) * time.Second
}

// Project is the agentbox.yml configuration. Every field has a default so
// the tool works in a bare directory with no config file at all.
type Project struct {
	Image        string                   `json:"image,omitempty"`
	Command      []string                 `json:"command,omitempty"`
	LocalCommand []string                 `json:"local_command,omitempty"`
	Network      string                   `json:"network,omitempty"`
	Project      string                   `json:"project,omitempty"`
	Mounts       []string                 `json:"mounts,omitempty"`
	Dirs         []string                 `json:"dirs,omitempty"`
	Services     map[string]ServiceConfig `json:"services,omitempty"`
}

// DefaultProject returns the configuration used when agentbox.yml is absent.
// The compose project name defaults to the directory basename, matching what
// docker compose itself would derive.
func DefaultProject(projectDir string) Project {
	return Project{
		Image:        "agentbox",
		LocalCommand: []string{"python", "local_main.py"},
		Project:      filepath.Base(projectDir),
		Mounts: []string{
			"./logs:/app/logs",
			"./local_traces:/app/traces",
		},
		Dirs: []string{"logs", "local_traces", "exports", "otel-data"},
		Services: map[string]ServiceConfig{
			"jaeger": {
				ComposeFile:  "docker-compose.jaeger.yml",
				Service:      "jaeger",
				HealthURL:    "http://localhost:16686/",
				DelaySeconds: 10,
			},
			"collector": {
				ComposeFile:  "docker-compose.otel.yml",
				Service:      "otel-collector",
				HealthURL:    "http://localhost:13133/",
				DelaySeconds: 30,
			},
		},
	}
}

// LoadProject reads agentbox.yml from projectDir, validates it against the
// embedded schema, and overlays it on the defaults. A missing file yields
// the defaults unchanged.
func LoadProject(projectDir string) (Project, error) {
	cfg := DefaultProject(projectDir)

	path := filepath.Join(projectDir, ProjectFile)
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Project{}, err
	}

	if err := validateProject(payload); err != nil {
		return Project{}, fmt.Errorf("%s: %w", ProjectFile, err)
	}

	var loaded Project
	if err := yaml.Unmarshal(payload, &loaded); err != nil {
		return Project{}, fmt.Errorf("parse %s: %w", ProjectFile, err)
	}

	mergeProject(&cfg, loaded)
	return cfg, nil
}

// validateProject checks the raw YAML payload against the embedded JSON
// schema before unmarshalling, so config mistakes surface with field paths.
func validateProject(payload []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}

	jsonData, err := yaml.YAMLToJSON(payload)
	if err != nil {
		return fmt.Errorf("convert yaml to json: %w", err)
	}

	var document any
	if err := json.Unmarshal(jsonData, &document); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return sch.Validate(document)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("agentbox.schema.json", strings.NewReader(projectSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("agentbox.schema.json")
	})
	return compiledSchema, schemaErr
}

func mergeProject(base *Project, loaded Project) {
	if loaded.Image != "" {
		base.Image = loaded.Image
	}
	if len(loaded.Command) > 0 {
		base.Command = loaded.Command
	}
	if len(loaded.LocalCommand) > 0 {
		base.LocalCommand = loaded.LocalCommand
	}
	if loaded.Network != "" {
		base.Network = loaded.Network
	}
	if loaded.Project != "" {
		base.Project = loaded.Project
	}
	if len(loaded.Mounts) > 0 {
		base.Mounts = loaded.Mounts
	}
	if len(loaded.Dirs) > 0 {
		base.Dirs = loaded.Dirs
	}
	for name, svc := range loaded.Services {
		merged := base.Services[name]
		if svc.ComposeFile != "" {
			merged.ComposeFile = svc.ComposeFile
		}
		if svc.Service != "" {
			merged.Service = svc.Service
		}
		if svc.HealthURL != "" {
			merged.HealthURL = svc.HealthURL
		}
		if svc.DelaySeconds != 0 {
			merged.DelaySeconds = svc.DelaySeconds
		}
		if base.Services == nil {
			base.Services = map[string]ServiceConfig{}
		}
		base.Services[name] = merged
	}
}

// DefaultNetwork returns the conventional compose network name for the
// project. Used only as a fallback when the Docker SDK finds no network
// labeled with the compose project.
func (p Project) DefaultNetwork() string {
	return p.Project + "_default"
}
