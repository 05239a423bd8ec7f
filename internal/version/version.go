package version

import "runtime/debug"

// Build-time parameters set via -ldflags
var Version = "unknown"

// Binaries installed with `go install` carry the module version in their
// build info even without -ldflags.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	mainVersion := info.Main.Version
	if mainVersion == "" || mainVersion == "(devel)" {
		return
	}
	Version = mainVersion
}
