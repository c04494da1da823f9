// Where: internal/app/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/tracekit-dev/agentbox/internal/compose"
	"github.com/tracekit-dev/agentbox/internal/interaction"
	"github.com/tracekit-dev/agentbox/internal/launcher"
	"github.com/tracekit-dev/agentbox/internal/traces"
	"github.com/tracekit-dev/agentbox/internal/version"
)

// ObjectStoreFactory builds an object store client for trace export.
type ObjectStoreFactory func(ctx context.Context, endpoint string) (traces.ObjectStore, error)

// Dependencies holds all injected dependencies required for CLI command
// execution. This structure enables dependency injection for testing and
// allows swapping implementations of various subsystems.
type Dependencies struct {
	ProjectDir   string
	Out          io.Writer
	Runner       compose.CommandRunner
	Containers   launcher.ContainerRunner
	Waiter       launcher.Waiter
	Networks     launcher.NetworkResolver
	Prompter     interaction.Prompter
	ObjectStores ObjectStoreFactory
}

// CLI defines the command-line interface structure parsed by Kong.
type CLI struct {
	Up      UpCmd      `cmd:"" help:"Provision, build, and launch the demo"`
	Build   BuildCmd   `cmd:"" help:"Build the workload image"`
	Run     RunCmd     `cmd:"" help:"Run the workload (image must exist)"`
	Down    DownCmd    `cmd:"" help:"Stop observability services"`
	Env     EnvCmd     `cmd:"" name:"env" help:"Inspect the credentials file"`
	Init    InitCmd    `cmd:"" help:"Scaffold config and compose files"`
	Traces  TracesCmd  `cmd:"" help:"View the local trace file"`
	Export  ExportCmd  `cmd:"" help:"Upload traces to object storage"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type UpCmd struct {
	Mode    string `help:"Launch mode: local, jaeger, or collector (default: ask)"`
	NoBuild bool   `name:"no-build" help:"Skip the image build"`
	NoCache bool   `name:"no-cache" help:"Do not use cache when building the image"`
	Verbose bool   `short:"v" help:"Enable verbose build output"`
}

type BuildCmd struct {
	NoCache bool `name:"no-cache" help:"Do not use cache when building the image"`
	Verbose bool `short:"v" help:"Enable verbose build output"`
}

type RunCmd struct {
	Mode string `help:"Launch mode: local, jaeger, or collector (default: ask)"`
}

type DownCmd struct {
	Volumes bool `short:"v" help:"Remove named volumes"`
}

type EnvCmd struct {
	Create bool `help:"Write the credentials template if the file is missing"`
}

type InitCmd struct {
	Force bool `help:"Overwrite existing scaffold files"`
}

type TracesCmd struct {
	File   string `arg:"" optional:"" help:"Trace file (default: local_traces/local_agent_traces.jsonl)"`
	Follow bool   `short:"f" help:"Keep watching the file for new entries"`
}

type ExportCmd struct {
	Bucket   string `required:"" help:"Target bucket"`
	Prefix   string `help:"Key prefix inside the bucket"`
	Endpoint string `help:"S3-compatible endpoint (e.g. a local MinIO)"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution. It parses the
// arguments and dispatches to the matching handler. Returns 0 on success,
// 1 on error.
func Run(args []string, deps Dependencies) int {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	if deps.ProjectDir == "" {
		deps.ProjectDir = "."
	}

	cli := CLI{}
	parser, err := kong.New(&cli)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return exitWithError(out, err)
	}

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps, out); handled {
		return exitCode
	}

	fmt.Fprintln(out, "unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies, io.Writer) int

func dispatchCommand(command string, cli CLI, deps Dependencies, out io.Writer) (int, bool) {
	handlers := map[string]commandHandler{
		"up":            runUp,
		"build":         runBuild,
		"run":           runRun,
		"down":          runDown,
		"env":           runEnv,
		"init":          runInit,
		"traces":        runTraces,
		"traces <file>": runTraces,
		"export":        runExport,
		"version":       func(_ CLI, _ Dependencies, out io.Writer) int { return runVersion(out) },
	}

	if handler, ok := handlers[command]; ok {
		return handler(cli, deps, out), true
	}
	return 1, false
}

func runVersion(out io.Writer) int {
	fmt.Fprintln(out, version.GetVersion())
	return 0
}

func exitWithError(out io.Writer, err error) int {
	fmt.Fprintf(out, "Error: %v\n", err)
	return 1
}
