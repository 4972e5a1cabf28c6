// Package version holds the build version of the darts binaries.
package version

// Version is set at link time with -ldflags "-X github.com/KunlinY/darts/version.Version=...".
var Version = "dev"
