// Where: cmd/agentbox/main.go
// What: CLI entrypoint.
// Why: Execute agentbox commands with configured dependencies.
package main

import (
	"os"

	"github.com/tracekit-dev/agentbox/internal/app"
)

func main() {
	deps, closer := buildDependencies()
	if closer != nil {
		defer closer.Close()
	}

	os.Exit(app.Run(os.Args[1:], deps))
}
