// Where: cli/internal/infra/output/clean.go
// What: Stale output cleanup and auxiliary file staging.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/infra/fileops"
	"github.com/poruru/fnsdk/cli/internal/meta"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

// CleanPrevious removes the function directories listed in a previous manifest.
// Only entries of the form <dir>/function.json are honoured and excluded names are kept.
// Failures are warnings; the run regenerates over whatever is left.
func CleanPrevious(outputRoot string, entries, excluded []string, logger ports.Logger) {
	keep := map[string]bool{}
	for _, name := range excluded {
		if name = strings.TrimSpace(name); name != "" {
			keep[strings.ToLower(name)] = true
		}
	}
	for _, entry := range entries {
		dir, file, ok := strings.Cut(entry, "/")
		if !ok || file != meta.FunctionFile || dir == "" || dir == "." || dir == ".." {
			continue
		}
		if keep[strings.ToLower(dir)] {
			continue
		}
		target := filepath.Join(outputRoot, dir)
		if !fileops.DirExists(target) {
			continue
		}
		if err := fileops.RemoveDir(target); err != nil && logger != nil {
			logger.Warn(fmt.Sprintf("Unable to clean directory %s.", target))
			logger.WarnDetail(err)
		}
	}
}

// CopyAuxiliaryFiles copies host.json and local.settings.json next to the generated functions.
func CopyAuxiliaryFiles(assemblyDir, outputRoot string, logger ports.Logger) {
	for _, name := range []string{meta.HostFile, meta.LocalSettingsFile} {
		src := filepath.Join(assemblyDir, name)
		if !fileops.FileExists(src) {
			continue
		}
		dst := filepath.Join(outputRoot, name)
		if _, err := fileops.CopyIfChanged(src, dst); err != nil && logger != nil {
			logger.Warn(fmt.Sprintf("Unable to copy '%s' to '%s'", src, dst))
			logger.WarnDetail(err)
		}
	}
}

// EnsureHostJSON writes an empty host.json when none exists. It reports whether a file was written.
func EnsureHostJSON(outputRoot string) (bool, error) {
	path := filepath.Join(outputRoot, meta.HostFile)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := fileops.WriteFile(path, []byte("{}")); err != nil {
		return false, fmt.Errorf("write %s: %w", meta.HostFile, err)
	}
	return true, nil
}
