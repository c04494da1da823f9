// Where: internal/app/up.go
// What: Handlers for up, run, build, and down.
// Why: Implement the launcher flow: credentials, dirs, mode, build, dispatch.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tracekit-dev/agentbox/internal/compose"
	"github.com/tracekit-dev/agentbox/internal/config"
	"github.com/tracekit-dev/agentbox/internal/interaction"
	"github.com/tracekit-dev/agentbox/internal/launcher"
	"github.com/tracekit-dev/agentbox/internal/ui"
	"github.com/tracekit-dev/agentbox/internal/workspace"
)

func runUp(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	cfg, code := prepareProject(deps, console)
	if code != 0 {
		return code
	}

	mode, code := selectMode(cli.Up.Mode, deps, console)
	if code != 0 {
		return code
	}

	if !cli.Up.NoBuild {
		if deps.Runner == nil {
			console.Error("command runner not configured")
			return 1
		}
		console.Header("🔨", fmt.Sprintf("Building image %s", cfg.Image))
		err := compose.BuildImage(context.Background(), deps.Runner, compose.BuildOptions{
			ProjectDir: deps.ProjectDir,
			Image:      cfg.Image,
			NoCache:    cli.Up.NoCache,
			Verbose:    cli.Up.Verbose,
		})
		if err != nil {
			return exitWithError(out, err)
		}
		console.Success("Image built")
	}

	return launch(deps, console, cfg, mode)
}

func runRun(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	cfg, code := prepareProject(deps, console)
	if code != 0 {
		return code
	}

	mode, code := selectMode(cli.Run.Mode, deps, console)
	if code != 0 {
		return code
	}

	return launch(deps, console, cfg, mode)
}

func runBuild(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)
	if deps.Runner == nil {
		console.Error("command runner not configured")
		return 1
	}

	cfg, err := config.LoadProject(deps.ProjectDir)
	if err != nil {
		return exitWithError(out, err)
	}

	console.Header("🔨", fmt.Sprintf("Building image %s", cfg.Image))
	buildErr := compose.BuildImage(context.Background(), deps.Runner, compose.BuildOptions{
		ProjectDir: deps.ProjectDir,
		Image:      cfg.Image,
		NoCache:    cli.Build.NoCache,
		Verbose:    cli.Build.Verbose,
	})
	if buildErr != nil {
		return exitWithError(out, buildErr)
	}
	console.Success("Image built")
	return 0
}

func runDown(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)
	if deps.Runner == nil {
		console.Error("command runner not configured")
		return 1
	}

	cfg, err := config.LoadProject(deps.ProjectDir)
	if err != nil {
		return exitWithError(out, err)
	}

	var composeFiles []string
	for _, svc := range cfg.Services {
		composeFiles = append(composeFiles, svc.ComposeFile)
	}

	downErr := compose.DownProject(context.Background(), deps.Runner, compose.DownOptions{
		ProjectDir:   deps.ProjectDir,
		Project:      cfg.Project,
		ComposeFiles: composeFiles,
		Volumes:      cli.Down.Volumes,
	})
	if downErr != nil {
		return exitWithError(out, downErr)
	}

	if cli.Down.Volumes {
		// A volume wipe is a full reset; forget the remembered mode too.
		if err := config.RemoveState(deps.ProjectDir); err != nil {
			console.Warn(fmt.Sprintf("could not remove state: %v", err))
		}
	}
	console.Success("Observability services stopped")
	return 0
}

// prepareProject runs the shared preamble: credentials gate, config load,
// and directory provisioning.
func prepareProject(deps Dependencies, console *ui.Console) (config.Project, int) {
	if err := config.EnsureCredentials(deps.ProjectDir); err != nil {
		if errors.Is(err, config.ErrCredentialsCreated) {
			console.Error(".env file not found!")
			console.Success("Template .env file created")
			console.ItemPlain("Edit .env with your Azure OpenAI credentials, then re-run.")
			return config.Project{}, 1
		}
		return config.Project{}, exitWithError(console.Out, err)
	}

	cfg, err := config.LoadProject(deps.ProjectDir)
	if err != nil {
		return config.Project{}, exitWithError(console.Out, err)
	}

	if err := workspace.EnsureDirs(deps.ProjectDir, cfg.Dirs); err != nil {
		return config.Project{}, exitWithError(console.Out, err)
	}

	return cfg, 0
}

// selectMode resolves the launch mode from the flag or the interactive menu.
// The last-used mode is preselected; the choice is persisted on success.
func selectMode(flag string, deps Dependencies, console *ui.Console) (launcher.Mode, int) {
	if flag != "" {
		mode, err := launcher.ParseMode(flag)
		if err != nil {
			return "", exitWithError(console.Out, err)
		}
		return mode, 0
	}

	if deps.Prompter == nil {
		console.Error("no mode given and no prompt available; use --mode")
		return "", 1
	}

	options := make([]interaction.SelectOption, 0, len(launcher.Modes()))
	for _, mode := range launcher.Modes() {
		options = append(options, interaction.SelectOption{Label: mode.Label(), Value: string(mode)})
	}

	preselect := config.LoadState(deps.ProjectDir).LastMode
	choice, err := deps.Prompter.SelectValue("🎯 Choose demo type:", options, preselect)
	if err != nil {
		if errors.Is(err, interaction.ErrInvalidChoice) {
			console.Error("Invalid choice")
			return "", 1
		}
		return "", exitWithError(console.Out, err)
	}

	mode, err := launcher.ParseMode(choice)
	if err != nil {
		return "", exitWithError(console.Out, err)
	}

	if err := config.SaveState(deps.ProjectDir, config.State{LastMode: string(mode)}); err != nil {
		console.Warn(fmt.Sprintf("could not save state: %v", err))
	}
	return mode, 0
}

func launch(deps Dependencies, console *ui.Console, cfg config.Project, mode launcher.Mode) int {
	l := &launcher.Launcher{
		ProjectDir: deps.ProjectDir,
		Runner:     deps.Runner,
		Containers: deps.Containers,
		Waiter:     deps.Waiter,
		Networks:   deps.Networks,
		Console:    console,
	}

	exitCode, err := l.Launch(context.Background(), cfg, mode)
	if err != nil {
		return exitWithError(console.Out, err)
	}
	if exitCode != 0 {
		console.Warn(fmt.Sprintf("workload exited with status %d", exitCode))
		return exitCode
	}
	console.Success("Workload finished")
	return 0
}
