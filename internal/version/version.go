// Package version provides build version information and runtime metadata.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	// These are set via ldflags at build time
	Version = ""
	Commit  = ""
	Date    = ""

	once sync.Once
)

func ensureInitialized() {
	once.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if Version == "" {
			Version = "dev"
			if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
				Version = info.Main.Version
			}
		}
		if Commit == "" {
			Commit = "unknown"
			if ok {
				for _, s := range info.Settings {
					if s.Key == "vcs.revision" && len(s.Value) >= 7 {
						Commit = s.Value[:7]
					}
				}
			}
		}
		if Date == "" {
			Date = "unknown"
		}
	})
}

// Info returns a single-line version string for the --version flag.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("advancedrag-dashboard-tui %s (commit: %s, built: %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	ensureInitialized()
	return Version
}

// Details returns the version, commit, and build date.
func Details() (string, string, string) {
	ensureInitialized()
	return Version, Commit, Date
}
