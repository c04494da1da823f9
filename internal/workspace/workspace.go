// Where: internal/workspace/workspace.go
// What: Local directory provisioning for logs and trace output.
// Why: Containers bind-mount these paths; they must exist before docker run.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDirs creates each named directory under projectDir. Existing
// directories are left untouched; there is no ordering dependency between
// them and running twice is a no-op.
func EnsureDirs(projectDir string, dirs []string) error {
	for _, dir := range dirs {
		path := filepath.Join(projectDir, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
