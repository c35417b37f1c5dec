// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. Set manually for releases.
	Version = "0.1.0-dev"
)

// Details is the structured form of the build information, used for
// `trustfile version --json`.
type Details struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildTime string `json:"build_time"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

// Get returns the build information. When the commit was not injected
// with -ldflags, the VCS stamp that `go build` embeds is used instead.
func Get() Details {
	details := Details{
		Version:   Version,
		Commit:    GitCommit,
		Dirty:     GitDirty == "true",
		BuildTime: BuildTime,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if details.Commit != "unknown" {
		return details
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return details
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			details.Commit = setting.Value
			if len(details.Commit) > 12 {
				details.Commit = details.Commit[:12]
			}
		case "vcs.modified":
			details.Dirty = setting.Value == "true"
		case "vcs.time":
			if details.BuildTime == "unknown" {
				details.BuildTime = setting.Value
			}
		}
	}
	return details
}

// Info returns a formatted version string suitable for --version.
func Info() string {
	details := Get()
	dirty := ""
	if details.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", details.Version, details.Commit, dirty, details.BuildTime)
}

// Full returns Info plus the Go version and platform.
func Full() string {
	details := Get()
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s", Info(), details.Go, details.Platform)
}

// Print writes "binary version" with full details to stdout, for the
// --version flag of service binaries.
func Print(binary string) {
	fmt.Printf("%s %s\n", binary, Full())
}
