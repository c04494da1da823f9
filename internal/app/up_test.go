// Where: internal/app/up_test.go
// What: Tests for the up/run/build/down handlers.
// Why: Cover the documented launcher contract end to end with fakes.
package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tracekit-dev/agentbox/internal/config"
	"github.com/tracekit-dev/agentbox/internal/interaction"
)

func upDeps(dir string, runner *fakeRunner, containers *fakeContainers, prompter *fakePrompter) Dependencies {
	return Dependencies{
		ProjectDir: dir,
		Out:        &bytes.Buffer{},
		Runner:     runner,
		Containers: containers,
		Waiter:     &fakeWaiter{},
		Prompter:   prompter,
	}
}

func TestRunUpWritesCredentialTemplateAndStops(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	containers := &fakeContainers{}
	deps := upDeps(dir, runner, containers, &fakePrompter{choice: "local"})
	var out bytes.Buffer
	deps.Out = &out

	exitCode := Run([]string{"up"}, deps)
	if exitCode == 0 {
		t.Fatal("expected non-zero exit when credentials are missing")
	}

	payload, err := os.ReadFile(filepath.Join(dir, config.CredentialsFile))
	if err != nil {
		t.Fatalf("expected template written: %v", err)
	}
	for _, key := range config.CredentialKeys {
		if !strings.Contains(string(payload), key+"=") {
			t.Fatalf("template missing key %s", key)
		}
	}

	if len(runner.calls) != 0 {
		t.Fatalf("no build must happen before credentials exist, got %v", runner.calls)
	}
	if len(containers.requests) != 0 {
		t.Fatal("no container run must happen before credentials exist")
	}
}

func TestRunUpLocalBuildsAndRuns(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)

	runner := &fakeRunner{}
	containers := &fakeContainers{}
	deps := upDeps(dir, runner, containers, &fakePrompter{choice: "local"})

	exitCode := Run([]string{"up"}, deps)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}

	// Build invoked once with docker build.
	if len(runner.calls) != 1 {
		t.Fatalf("expected one docker invocation, got %d", len(runner.calls))
	}
	if runner.calls[0].name != "docker" || runner.calls[0].args[0] != "build" {
		t.Fatalf("unexpected build invocation: %+v", runner.calls[0])
	}

	// Exactly one direct run, two mounts, no network.
	if len(containers.requests) != 1 {
		t.Fatalf("expected one container run, got %d", len(containers.requests))
	}
	req := containers.requests[0]
	if len(req.Mounts) != 2 {
		t.Fatalf("expected two mounts, got %v", req.Mounts)
	}
	if req.Network != "" {
		t.Fatalf("local mode must not attach a network, got %q", req.Network)
	}

	// All four directories were provisioned.
	for _, name := range []string{"logs", "local_traces", "exports", "otel-data"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected directory %s: %v", name, err)
		}
	}

	// Mode persisted for next run.
	if got := config.LoadState(dir).LastMode; got != "local" {
		t.Fatalf("expected state last_mode=local, got %q", got)
	}
}

func TestRunUpInvalidChoiceNoDocker(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)

	runner := &fakeRunner{}
	containers := &fakeContainers{}
	// StdinPrompter rejects out-of-range input with ErrInvalidChoice.
	prompter := &fakePrompter{err: interaction.ErrInvalidChoice}
	deps := upDeps(dir, runner, containers, prompter)

	exitCode := Run([]string{"up"}, deps)
	if exitCode == 0 {
		t.Fatal("expected non-zero exit for invalid choice")
	}
	if len(runner.calls) != 0 || len(containers.requests) != 0 {
		t.Fatal("invalid choice must not invoke Docker at all")
	}
}

func TestRunUpJaegerStartsServiceBeforeRun(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)
	writeComposeFixture(t, dir)

	runner := &fakeRunner{}
	containers := &fakeContainers{}
	deps := upDeps(dir, runner, containers, &fakePrompter{choice: "jaeger"})

	exitCode := Run([]string{"up"}, deps)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}

	// docker build + docker compose up.
	if len(runner.calls) != 2 {
		t.Fatalf("expected two docker invocations, got %d", len(runner.calls))
	}
	composeArgs := strings.Join(runner.calls[1].args, " ")
	if !strings.Contains(composeArgs, "compose") || !strings.Contains(composeArgs, "up -d jaeger") {
		t.Fatalf("unexpected compose invocation: %s", composeArgs)
	}
	if !strings.Contains(composeArgs, "-p "+filepath.Base(dir)) {
		t.Fatalf("compose project not pinned to dir basename: %s", composeArgs)
	}

	req := containers.requests[0]
	if req.Network != filepath.Base(dir)+"_default" {
		t.Fatalf("expected compose network, got %q", req.Network)
	}
}

func TestRunUpModeFlagSkipsPrompt(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)

	prompter := &fakePrompter{choice: "jaeger"}
	deps := upDeps(dir, &fakeRunner{}, &fakeContainers{}, prompter)

	exitCode := Run([]string{"up", "--mode", "local"}, deps)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}
	if prompter.called != 0 {
		t.Fatal("prompter must not be called when --mode is given")
	}
}

func TestRunUpRejectsUnknownModeFlag(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)

	runner := &fakeRunner{}
	deps := upDeps(dir, runner, &fakeContainers{}, &fakePrompter{})

	exitCode := Run([]string{"up", "--mode", "turbo"}, deps)
	if exitCode == 0 {
		t.Fatal("expected non-zero exit for unknown mode")
	}
	if len(runner.calls) != 0 {
		t.Fatal("unknown mode must not invoke Docker")
	}
}

func TestRunUpPreselectsLastMode(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)
	if err := config.SaveState(dir, config.State{LastMode: "collector"}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	prompter := &fakePrompter{choice: "local"}
	deps := upDeps(dir, &fakeRunner{}, &fakeContainers{}, prompter)

	if exitCode := Run([]string{"up"}, deps); exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}
	if prompter.preselect != "collector" {
		t.Fatalf("expected preselect collector, got %q", prompter.preselect)
	}
}

func TestRunUpNoBuildSkipsImageBuild(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)

	runner := &fakeRunner{}
	deps := upDeps(dir, runner, &fakeContainers{}, &fakePrompter{choice: "local"})

	if exitCode := Run([]string{"up", "--no-build"}, deps); exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no build, got %v", runner.calls)
	}
}

func TestRunUpPropagatesWorkloadExitCode(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)

	containers := &fakeContainers{exitCode: 7}
	deps := upDeps(dir, &fakeRunner{}, containers, &fakePrompter{choice: "local"})

	if exitCode := Run([]string{"up"}, deps); exitCode != 7 {
		t.Fatalf("expected workload exit code 7, got %d", exitCode)
	}
}

func TestRunBuildOnly(t *testing.T) {
	dir := t.TempDir()
	runner := &fakeRunner{}
	deps := Dependencies{ProjectDir: dir, Out: &bytes.Buffer{}, Runner: runner}

	if exitCode := Run([]string{"build", "--no-cache"}, deps); exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected one invocation, got %d", len(runner.calls))
	}
	args := strings.Join(runner.calls[0].args, " ")
	if !strings.Contains(args, "--no-cache") {
		t.Fatalf("expected --no-cache, got %s", args)
	}
}

func TestRunDownStopsPresentStacks(t *testing.T) {
	dir := t.TempDir()
	writeComposeFixture(t, dir)

	runner := &fakeRunner{}
	deps := Dependencies{ProjectDir: dir, Out: &bytes.Buffer{}, Runner: runner}

	if exitCode := Run([]string{"down"}, deps); exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected both stacks stopped, got %d calls", len(runner.calls))
	}
	for _, call := range runner.calls {
		if call.args[len(call.args)-1] != "down" {
			t.Fatalf("unexpected compose args: %v", call.args)
		}
	}
}

func TestRunDownVolumesResetsState(t *testing.T) {
	dir := t.TempDir()
	writeComposeFixture(t, dir)
	if err := config.SaveState(dir, config.State{LastMode: "jaeger"}); err != nil {
		t.Fatalf("save state: %v", err)
	}

	runner := &fakeRunner{}
	deps := Dependencies{ProjectDir: dir, Out: &bytes.Buffer{}, Runner: runner}

	if exitCode := Run([]string{"down", "--volumes"}, deps); exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}
	for _, call := range runner.calls {
		if call.args[len(call.args)-1] != "--volumes" {
			t.Fatalf("expected --volumes appended, got %v", call.args)
		}
	}
	if got := config.LoadState(dir).LastMode; got != "" {
		t.Fatalf("expected state cleared, still %q", got)
	}
}

func TestRunRunSkipsBuild(t *testing.T) {
	dir := t.TempDir()
	writeCredentialsFixture(t, dir)

	runner := &fakeRunner{}
	containers := &fakeContainers{}
	deps := upDeps(dir, runner, containers, &fakePrompter{choice: "local"})

	if exitCode := Run([]string{"run"}, deps); exitCode != 0 {
		t.Fatalf("expected exit 0, got %d", exitCode)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("run must not build, got %v", runner.calls)
	}
	if len(containers.requests) != 1 {
		t.Fatalf("expected one container run, got %d", len(containers.requests))
	}
}
