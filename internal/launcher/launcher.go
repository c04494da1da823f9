// Where: internal/launcher/launcher.go
// What: Mode dispatch: compose dependency up, readiness wait, container run.
// Why: Implement the three launch sequences behind a single entry point.
package launcher

import (
	"context"
	"fmt"
	"os"

	"github.com/tracekit-dev/agentbox/internal/compose"
	"github.com/tracekit-dev/agentbox/internal/config"
	"github.com/tracekit-dev/agentbox/internal/runtime"
	"github.com/tracekit-dev/agentbox/internal/ui"
)

// ContainerRunner abstracts the workload container execution for testing.
type ContainerRunner interface {
	Run(ctx context.Context, req runtime.RunRequest) (int, error)
}

// NetworkResolver maps a compose project to the network the run should join.
type NetworkResolver func(ctx context.Context, project, fallback string) string

// Launcher wires the dependencies of a single launch.
type Launcher struct {
	ProjectDir string
	Runner     compose.CommandRunner
	Containers ContainerRunner
	Waiter     Waiter
	Networks   NetworkResolver
	Console    *ui.Console
}

// Launch dispatches one mode to completion and returns the workload's exit
// code. For jaeger/collector modes the dependency service is started first
// and the run attaches to the compose network.
func (l *Launcher) Launch(ctx context.Context, cfg config.Project, mode Mode) (int, error) {
	if l.Containers == nil {
		return 1, fmt.Errorf("container runner not configured")
	}

	req := runtime.RunRequest{
		ProjectDir: l.ProjectDir,
		Image:      cfg.Image,
		Command:    cfg.Command,
		Env:        credentialEnv(),
		Mounts:     cfg.Mounts,
	}

	switch mode {
	case ModeLocal:
		if len(cfg.Command) == 0 {
			req.Command = cfg.LocalCommand
		}
		return l.Containers.Run(ctx, req)

	case ModeJaeger, ModeCollector:
		svc, ok := cfg.Services[string(mode)]
		if !ok {
			return 1, fmt.Errorf("no service configured for mode %s", mode)
		}
		if err := l.startService(ctx, cfg, svc); err != nil {
			return 1, err
		}

		fallback := cfg.Network
		if fallback == "" {
			fallback = cfg.DefaultNetwork()
		}
		req.Network = fallback
		if cfg.Network == "" && l.Networks != nil {
			req.Network = l.Networks(ctx, cfg.Project, fallback)
		}
		return l.Containers.Run(ctx, req)
	}

	return 1, fmt.Errorf("unknown mode: %s", mode)
}

func (l *Launcher) startService(ctx context.Context, cfg config.Project, svc config.ServiceConfig) error {
	if l.Runner == nil {
		return fmt.Errorf("command runner not configured")
	}

	if l.Console != nil {
		l.Console.Info(fmt.Sprintf("Starting %s via docker compose", svc.Service))
	}
	err := compose.UpService(ctx, l.Runner, compose.ServiceOptions{
		ProjectDir:  l.ProjectDir,
		Project:     cfg.Project,
		ComposeFile: svc.ComposeFile,
		Service:     svc.Service,
	})
	if err != nil {
		return fmt.Errorf("start %s: %w", svc.Service, err)
	}

	if l.Waiter != nil {
		if l.Console != nil {
			l.Console.Info(fmt.Sprintf("Waiting for %s to become ready", svc.Service))
		}
		if err := l.Waiter.Wait(ctx, svc); err != nil {
			return err
		}
	}
	return nil
}

// credentialEnv forwards the loaded credential variables into the container.
func credentialEnv() []string {
	var env []string
	for _, key := range config.CredentialKeys {
		if value := os.Getenv(key); value != "" {
			env = append(env, key+"="+value)
		}
	}
	return env
}
