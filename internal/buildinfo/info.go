// Package buildinfo carries release metadata injected at link time, e.g.
//
//	go build -ldflags "-X github.com/cleared-dev/backoffice/internal/buildinfo.Version=v1.2.0"
package buildinfo

// Overridden by -ldflags -X at release build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
