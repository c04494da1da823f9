// Where: internal/compose/service.go
// What: Docker compose helpers for observability dependency services.
// Why: Start and stop the tracing/collector stacks the workload attaches to.
package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServiceOptions identifies a compose-managed dependency service.
type ServiceOptions struct {
	ProjectDir  string
	Project     string
	ComposeFile string
	Service     string
}

// DownOptions contains configuration for stopping compose services.
type DownOptions struct {
	ProjectDir   string
	Project      string
	ComposeFiles []string
	Volumes      bool
}

// UpService starts a single dependency service detached. The compose file
// must exist in the project directory; the compose project name is always
// passed explicitly so the network name is deterministic.
func UpService(ctx context.Context, runner CommandRunner, opts ServiceOptions) error {
	if runner == nil {
		return fmt.Errorf("command runner is nil")
	}

	args, err := serviceArgs(opts.ProjectDir, opts.Project, opts.ComposeFile)
	if err != nil {
		return err
	}
	if opts.Service != "" {
		// Compose would report an unknown service too, but only after
		// pulling images; checking here fails fast with a clear message.
		if err := checkServiceDefined(filepath.Join(opts.ProjectDir, opts.ComposeFile), opts.Service); err != nil {
			return err
		}
	}
	args = append(args, "up", "-d")
	if opts.Service != "" {
		args = append(args, opts.Service)
	}

	return runner.Run(ctx, opts.ProjectDir, "docker", args...)
}

// DownProject stops all services across the given compose files. Missing
// files are skipped: down must work even when only one stack was started.
func DownProject(ctx context.Context, runner CommandRunner, opts DownOptions) error {
	if runner == nil {
		return fmt.Errorf("command runner is nil")
	}

	for _, file := range opts.ComposeFiles {
		path := filepath.Join(opts.ProjectDir, file)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		args := []string{"compose", "-p", opts.Project, "-f", path, "down"}
		if opts.Volumes {
			args = append(args, "--volumes")
		}
		// Teardown output is noise unless something goes wrong.
		if err := runner.RunQuiet(ctx, opts.ProjectDir, "docker", args...); err != nil {
			return fmt.Errorf("compose down %s: %w", file, err)
		}
	}
	return nil
}

func checkServiceDefined(path, service string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read compose file: %w", err)
	}

	var doc struct {
		Services map[string]yaml.Node `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse compose file %s: %w", path, err)
	}
	if _, ok := doc.Services[service]; !ok {
		return fmt.Errorf("service %q not defined in %s", service, path)
	}
	return nil
}

func serviceArgs(projectDir, project, composeFile string) ([]string, error) {
	if composeFile == "" {
		return nil, fmt.Errorf("compose file is required")
	}
	path := filepath.Join(projectDir, composeFile)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("compose file not found: %s", path)
	}

	args := []string{"compose"}
	if project != "" {
		args = append(args, "-p", project)
	}
	args = append(args, "-f", path)
	return args, nil
}
