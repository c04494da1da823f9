// Where: cmd/agentbox/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction for testability.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/tracekit-dev/agentbox/internal/app"
	"github.com/tracekit-dev/agentbox/internal/compose"
	"github.com/tracekit-dev/agentbox/internal/interaction"
	"github.com/tracekit-dev/agentbox/internal/launcher"
	"github.com/tracekit-dev/agentbox/internal/runtime"
)

var (
	getwd           = os.Getwd
	newDockerClient = func() (runtime.DockerClient, error) {
		return runtime.NewDockerClient()
	}
)

// buildDependencies constructs all runtime dependencies required by the CLI.
// The Docker client is built best-effort: commands that never touch the
// daemon (env, init, traces, export) must work without one.
func buildDependencies() (app.Dependencies, io.Closer) {
	projectDir, err := getwd()
	if err != nil {
		projectDir = "."
	}

	deps := app.Dependencies{
		ProjectDir: projectDir,
		Out:        os.Stdout,
		Runner:     compose.ExecRunner{},
		Waiter:     launcher.NewHTTPWaiter(),
		Prompter:   selectPrompter(),
	}

	client, err := newDockerClient()
	if err != nil {
		deps.Containers = unavailableRunner{err: err}
		return deps, nil
	}

	deps.Containers = runtime.NewRunner(client, os.Stdout, os.Stderr)
	deps.Networks = func(ctx context.Context, project, fallback string) string {
		return runtime.ResolveNetwork(ctx, client, project, fallback)
	}

	closer, _ := client.(io.Closer)
	return deps, closer
}

// selectPrompter picks the huh selector on a TTY and the plain numbered
// stdin menu otherwise, so piped input keeps working.
func selectPrompter() interaction.Prompter {
	if interaction.IsTerminal(os.Stdin) && interaction.IsTerminal(os.Stdout) {
		return interaction.HuhPrompter{}
	}
	return interaction.StdinPrompter{In: os.Stdin, Out: os.Stdout}
}

// unavailableRunner defers Docker connection errors until a command
// actually needs the daemon.
type unavailableRunner struct {
	err error
}

func (r unavailableRunner) Run(context.Context, runtime.RunRequest) (int, error) {
	return 1, fmt.Errorf("docker unavailable: %w", r.err)
}
