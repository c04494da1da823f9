// Where: internal/app/env.go
// What: Handlers for env and init.
// Why: Credential inspection and project scaffolding.
package app

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tracekit-dev/agentbox/internal/config"
	"github.com/tracekit-dev/agentbox/internal/scaffold"
	"github.com/tracekit-dev/agentbox/internal/ui"
)

func runEnv(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	status, err := config.InspectCredentials(deps.ProjectDir)
	if err != nil {
		return exitWithError(out, err)
	}

	if !status.Present {
		if cli.Env.Create {
			if err := config.EnsureCredentials(deps.ProjectDir); !errors.Is(err, config.ErrCredentialsCreated) && err != nil {
				return exitWithError(out, err)
			}
			console.Success("Template .env file created")
			console.ItemPlain("Edit .env with your Azure OpenAI credentials.")
			return 1
		}
		console.Error(".env file not found (run with --create to write a template)")
		return 1
	}

	console.Header("🔑", "Azure OpenAI credentials:")
	console.Item("Endpoint", status.Values["AZURE_OPENAI_ENDPOINT"])
	console.Item("Deployment", status.Values["AZURE_OPENAI_DEPLOYMENT"])
	console.Item("API Key", config.MaskSecret(status.Values["AZURE_OPENAI_API_KEY"]))

	if status.Configured() {
		console.Success("All environment variables are configured")
		return 0
	}

	for _, key := range status.Missing {
		console.Error(fmt.Sprintf("Missing: %s", key))
	}
	for _, key := range status.Placeholders {
		console.Warn(fmt.Sprintf("Still a placeholder: %s", key))
	}
	return 1
}

func runInit(cli CLI, deps Dependencies, out io.Writer) int {
	console := ui.New(out)

	written, err := scaffold.WriteAll(deps.ProjectDir, scaffold.Data{
		Project: filepath.Base(deps.ProjectDir),
	}, cli.Init.Force)
	if err != nil {
		return exitWithError(out, err)
	}

	for _, name := range written {
		console.Item("Created", name)
	}
	if len(written) == 0 {
		console.Info("All scaffold files already present (use --force to overwrite)")
	}

	if err := config.EnsureCredentials(deps.ProjectDir); err != nil {
		if errors.Is(err, config.ErrCredentialsCreated) {
			console.Item("Created", config.CredentialsFile)
			console.ItemPlain("Edit .env with your Azure OpenAI credentials.")
		} else {
			return exitWithError(out, err)
		}
	}

	console.Success("Project initialized")
	return 0
}
