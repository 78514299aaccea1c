// Package version provides build version information for stopwatch.
// Variables are set at build time via ldflags:
//
//	go build -ldflags="-X github.com/jpl-au/stopwatch/internal/version.Version=v1.0.0 \
//	  -X github.com/jpl-au/stopwatch/internal/version.GitCommit=abc123 \
//	  -X github.com/jpl-au/stopwatch/internal/version.BuildTime=2026-01-15T10:30:00Z"
package version

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/jpl-au/stopwatch/measure"
)

// Build information. Set via ldflags at build time.
var (
	Version   = "dev"     // Version tag (e.g., "v1.0.0")
	GitCommit = "unknown" // Short git commit hash
	BuildTime = "unknown" // RFC3339 build timestamp
)

// now is swapped in tests.
var now = time.Now

// Info holds structured version information.
type Info struct {
	BuildTag  string `json:"build_tag"`           // Version tag (e.g., "v1.0.0" or "dev")
	BuildTime string `json:"build_time"`          // RFC3339 build timestamp
	BuildAge  string `json:"build_age,omitempty"` // canonical duration since BuildTime
	GitCommit string `json:"git_commit"`          // Short git commit hash
	GoVersion string `json:"go_version"`          // Go runtime version
	Platform  string `json:"platform"`            // OS and architecture (e.g., "darwin arm64")

	age *measure.Measurement
}

// Get returns the current version information.
func Get() Info {
	i := Info{
		BuildTag:  Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH),
	}
	if built, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		age := measure.Between(built, now())
		i.age = &age
		i.BuildAge = measure.Encode(age)
	}
	return i
}

// String returns a formatted version string suitable for display.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build Tag:    %s\n", i.BuildTag)
	if i.age != nil {
		fmt.Fprintf(&b, "Build Time:   %s (%s ago)\n", i.BuildTime, measure.Format(*i.age))
	} else {
		fmt.Fprintf(&b, "Build Time:   %s\n", i.BuildTime)
	}
	fmt.Fprintf(&b, "Go Version:   %s\n", i.GoVersion)
	fmt.Fprintf(&b, "Platform:     %s\n", i.Platform)
	fmt.Fprintf(&b, "Git Commit:   %s\n", i.GitCommit)
	return b.String()
}

// Short returns just the version string (e.g., "v1.0.0" or "dev").
func Short() string {
	return Version
}
