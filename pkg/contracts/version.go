// Package contracts holds the versioned public surface of the dashboard:
// the build identity here and the JSON shapes under domain and api/v1.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version of the dashboard binary.
	Version = "1.0.0"
	// APIVersion of the JSON API under /api.
	APIVersion = "v1"
)

// Set with -ldflags "-X esgdash/pkg/contracts.Commit=..." at release time.
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Build returns the identity of the running binary.
func Build() BuildInfo {
	return BuildInfo{
		Version:    Version,
		APIVersion: APIVersion,
		Commit:     Commit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String is the one-line form printed by --version.
func (b BuildInfo) String() string {
	if b.Commit == "unknown" {
		return fmt.Sprintf("%s (%s, %s)", b.Version, b.GoVersion, b.Platform)
	}
	return fmt.Sprintf("%s (commit %s, built %s, %s, %s)", b.Version, b.Commit, b.BuildDate, b.GoVersion, b.Platform)
}
