// Where: internal/runtime/runner.go
// What: Workload container execution via the Docker SDK.
// Why: Replace ad-hoc docker run shelling with created/started/waited
//      containers whose exit codes the CLI can report faithfully.
package runtime

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/google/uuid"
)

const (
	labelManagedBy = "agentbox.managed-by"
	namePrefix     = "agentbox-"
)

// RunRequest describes one workload container run.
type RunRequest struct {
	ProjectDir string
	Image      string
	Command    []string // empty = image default
	Env        []string
	Mounts     []string // host:container[:ro], host paths relative to ProjectDir
	Network    string   // empty = default bridge, no explicit attach
}

// Runner creates, starts, streams, and reaps workload containers.
type Runner struct {
	client DockerClient
	out    io.Writer
	errOut io.Writer
}

// NewRunner creates a Runner streaming container output to the given writers.
func NewRunner(client DockerClient, out, errOut io.Writer) *Runner {
	return &Runner{client: client, out: out, errOut: errOut}
}

// Run executes the workload container to completion and returns its exit
// code. The container is always removed afterwards; a non-zero exit code is
// reported through the return value, not as an error.
func (r *Runner) Run(ctx context.Context, req RunRequest) (int, error) {
	if r.client == nil {
		return 1, fmt.Errorf("docker client is nil")
	}
	if req.Image == "" {
		return 1, fmt.Errorf("image is required")
	}

	mounts, err := parseMounts(req.ProjectDir, req.Mounts)
	if err != nil {
		return 1, err
	}

	containerCfg := &container.Config{
		Image: req.Image,
		Env:   req.Env,
		Cmd:   req.Command,
		Labels: map[string]string{
			labelManagedBy: "agentbox",
		},
	}
	hostCfg := &container.HostConfig{
		Mounts: mounts,
	}

	var networkCfg *network.NetworkingConfig
	if req.Network != "" {
		networkCfg = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				req.Network: {},
			},
		}
	}

	name := namePrefix + uuid.NewString()[:8]
	created, err := r.client.ContainerCreate(ctx, containerCfg, hostCfg, networkCfg, nil, name)
	if err != nil {
		return 1, fmt.Errorf("create container: %w", err)
	}
	defer func() {
		_ = r.client.ContainerRemove(context.Background(), created.ID, container.RemoveOptions{Force: true})
	}()

	if err := r.client.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return 1, fmt.Errorf("start container: %w", err)
	}

	logs, err := r.client.ContainerLogs(ctx, created.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return 1, fmt.Errorf("attach logs: %w", err)
	}
	defer logs.Close()

	streamDone := make(chan error, 1)
	go func() {
		_, copyErr := stdcopy.StdCopy(r.out, r.errOut, logs)
		streamDone <- copyErr
	}()

	waitCh, errCh := r.client.ContainerWait(ctx, created.ID, container.WaitConditionNotRunning)
	select {
	case status := <-waitCh:
		<-streamDone
		if status.Error != nil {
			return 1, fmt.Errorf("container wait: %s", status.Error.Message)
		}
		return int(status.StatusCode), nil
	case err := <-errCh:
		return 1, fmt.Errorf("container wait: %w", err)
	case <-ctx.Done():
		return 1, ctx.Err()
	}
}

// parseMounts converts host:container[:ro] specs into SDK bind mounts.
// Relative host paths are resolved against the project directory.
func parseMounts(projectDir string, specs []string) ([]mount.Mount, error) {
	mounts := make([]mount.Mount, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid mount spec: %q", spec)
		}
		if len(parts) == 3 && parts[2] != "ro" {
			return nil, fmt.Errorf("invalid mount option in %q: %s", spec, parts[2])
		}

		source := parts[0]
		if !filepath.IsAbs(source) {
			source = filepath.Join(projectDir, source)
		}
		abs, err := filepath.Abs(source)
		if err != nil {
			return nil, fmt.Errorf("resolve mount source %q: %w", parts[0], err)
		}

		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeBind,
			Source:   abs,
			Target:   parts[1],
			ReadOnly: len(parts) == 3,
		})
	}
	return mounts, nil
}
