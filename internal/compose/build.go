// Where: internal/compose/build.go
// What: Docker image build helper.
// Why: Build the workload image from the project directory in a consistent way.
package compose

import (
	"context"
	"fmt"
	"os"
)

// BuildOptions contains configuration for building the workload image.
type BuildOptions struct {
	ProjectDir string
	Image      string
	NoCache    bool
	Verbose    bool
}

// BuildImage runs docker build against the project directory. Build failures
// are propagated untouched; there is no retry or interpretation of the
// external tool's exit status.
func BuildImage(ctx context.Context, runner CommandRunner, opts BuildOptions) error {
	if runner == nil {
		return fmt.Errorf("command runner is nil")
	}
	if opts.Image == "" {
		return fmt.Errorf("image name is required")
	}

	args := []string{"build", "-t", opts.Image}
	if opts.NoCache {
		args = append(args, "--no-cache")
	}
	args = append(args, ".")

	if opts.Verbose {
		return runner.Run(ctx, opts.ProjectDir, "docker", args...)
	}
	output, err := runner.RunOutput(ctx, opts.ProjectDir, "docker", args...)
	if err != nil {
		if len(output) > 0 {
			_, _ = os.Stderr.Write(output)
		}
		return fmt.Errorf("image build failed: %w", err)
	}
	return nil
}
