// Where: internal/runtime/client.go
// What: Docker SDK client construction and network resolution.
// Why: Centralize SDK initialization and replace the assumed network naming
//      convention with an actual lookup.
package runtime

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const composeProjectLabel = "com.docker.compose.project"

// DockerClient defines the subset of Docker SDK methods used by this package.
// This interface enables mocking the Docker client in tests.
type DockerClient interface {
	ContainerCreate(
		ctx context.Context,
		config *container.Config,
		hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig,
		platform *ocispec.Platform,
		containerName string,
	) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error)
}

// NewDockerClient constructs a Docker SDK client using environment defaults
// and verifies the daemon is reachable.
func NewDockerClient() (*client.Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := cli.Ping(ctx); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("docker daemon not reachable: %w", err)
	}
	return cli, nil
}

// ResolveNetwork finds the network created by docker compose for the given
// project by label, falling back to the conventional name when the lookup
// finds nothing. The fallback keeps older compose versions working.
func ResolveNetwork(ctx context.Context, cli DockerClient, project, fallback string) string {
	networks, err := cli.NetworkList(ctx, network.ListOptions{
		Filters: filters.NewArgs(filters.Arg("label", composeProjectLabel+"="+project)),
	})
	if err != nil || len(networks) == 0 {
		return fallback
	}
	return networks[0].Name
}
