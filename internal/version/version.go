// Where: internal/version/version.go
// What: Version string for the version command.
// Why: Report the release or, failing that, the VCS state of the build.
package version

import (
	"runtime/debug"
)

// Version is set via -ldflags on release builds. When empty, the version
// falls back to the VCS revision embedded by the Go toolchain.
var Version string

// GetVersion returns the release version, the short VCS revision with a
// dirty marker, or "dev" when neither is available.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}

	revision := "dev"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if setting.Value != "" {
				revision = setting.Value
				if len(revision) > 7 {
					revision = revision[:7]
				}
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision != "dev" && dirty {
		return revision + " (dirty)"
	}
	return revision
}
