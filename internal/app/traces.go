// Where: internal/app/traces.go
// What: Handlers for traces view and export.
// Why: Surface the workload's local trace file and push archives to storage.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/tracekit-dev/agentbox/internal/traces"
	"github.com/tracekit-dev/agentbox/internal/ui"
)

// traceDir is the host directory the container's /app/traces mount points at.
const traceDir = "local_traces"

func runTraces(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	path := cli.Traces.File
	if path == "" {
		path = filepath.Join(deps.ProjectDir, traceDir, traces.DefaultTraceFile)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(deps.ProjectDir, path)
	}

	if cli.Traces.Follow {
		console.Header("📊", fmt.Sprintf("Following traces in: %s", path))
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err := traces.Follow(ctx, out, path, traces.DefaultFollowInterval)
		if err != nil && !errors.Is(err, context.Canceled) {
			return exitWithError(out, err)
		}
		return 0
	}

	entries, bad, err := traces.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			console.Error(fmt.Sprintf("Trace file not found: %s", path))
			return 1
		}
		return exitWithError(out, err)
	}

	console.Header("📊", fmt.Sprintf("Reading traces from: %s", path))
	traces.Render(out, entries, bad)

	if len(entries) == 0 {
		console.Info("No trace entries yet")
	}
	return 0
}

func runExport(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	factory := deps.ObjectStores
	if factory == nil {
		factory = func(ctx context.Context, endpoint string) (traces.ObjectStore, error) {
			return traces.NewObjectStore(ctx, endpoint)
		}
	}

	ctx := context.Background()
	store, err := factory(ctx, cli.Export.Endpoint)
	if err != nil {
		return exitWithError(out, err)
	}

	count, err := traces.Export(ctx, store, traces.ExportOptions{
		TraceDir: filepath.Join(deps.ProjectDir, traceDir),
		Bucket:   cli.Export.Bucket,
		Prefix:   cli.Export.Prefix,
	})
	if err != nil {
		return exitWithError(out, err)
	}

	console.Success(fmt.Sprintf("Uploaded %d trace file(s) to %s", count, cli.Export.Bucket))
	return 0
}
