// Package versions provides build version information for the API server.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version information set by build using -ldflags.
var (
	// Version is the current version of the server, set by the build system
	Version = "dev"
	// Commit is the git commit the server was built from
	Commit = "unknown"
	// BuildDate is the date the server was built
	BuildDate = "unknown"
)

// VersionInfo represents the version information of the server.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the version information, falling back to module
// build info when ldflags were not set.
func GetVersionInfo() VersionInfo {
	version := Version
	commit := Commit

	if info, ok := debug.ReadBuildInfo(); ok {
		if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		if commit == "unknown" {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					commit = setting.Value
					break
				}
			}
		}
	}

	return VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
