// Where: cli/internal/version/version.go
// What: Version information retrieval.
// Why: Stamp generated function.json files and the deploy user agent with the tool version.
package version

import (
	"runtime/debug"
	"strings"
)

// Version can be overridden at link time (-ldflags "-X ...version.Version=1.2.3").
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the tool version.
// Order: link-time Version, main module version, short VCS revision, "dev".
func GetVersion() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	if v := strings.TrimPrefix(info.Main.Version, "v"); v != "" && v != "(devel)" {
		return v
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if modified {
		return revision + "-dirty"
	}
	return revision
}
