// Package version holds the build version of monarch.
package version

// Version is set at build time with -ldflags "-X github.com/cloudposse/monarch/pkg/version.Version=...".
var Version = "0.0.0-dev"
