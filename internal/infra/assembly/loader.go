// Where: cli/internal/infra/assembly/loader.go
// What: Assembly loader that reads the target and its neighbours and links attribute definitions.
// Why: Custom binding attributes and connection providers are often defined in extension assemblies.
package assembly

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
	"github.com/poruru/fnsdk/cli/internal/infra/clrmeta"
	"github.com/poruru/fnsdk/cli/internal/infra/descriptor"
	"github.com/poruru/fnsdk/cli/internal/meta"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

var errUnsupportedFormat = errors.New("unsupported assembly format")

// Reader reads one assembly file.
type Reader func(path string) (*metadata.Assembly, error)

// Loader implements ports.AssemblyLoader.
type Loader struct {
	Logger ports.Logger
	// Readers maps a lower-case file extension to its reader.
	Readers map[string]Reader
}

// NewLoader returns a loader for PE assemblies and YAML/JSON descriptors.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger: logger,
		Readers: map[string]Reader{
			".dll":  clrmeta.Open,
			".exe":  clrmeta.Open,
			".yaml": descriptor.Load,
			".yml":  descriptor.Load,
			".json": descriptor.Load,
		},
	}
}

// Load reads the target assembly, then every sibling of the same kind in its directory.
// Sibling failures are reported only when their types are part of the scan.
func (l *Loader) Load(request ports.LoadRequest) (ports.LoadedAssemblies, error) {
	path, err := filepath.Abs(strings.TrimSpace(request.Path))
	if err != nil {
		return ports.LoadedAssemblies{}, fmt.Errorf("resolve assembly path: %w", err)
	}
	read, ok := l.reader(path)
	if !ok {
		return ports.LoadedAssemblies{}, fmt.Errorf("%w: %s", errUnsupportedFormat, path)
	}
	target, err := read(path)
	if err != nil {
		return ports.LoadedAssemblies{}, err
	}

	all := []*metadata.Assembly{target}
	for _, sibling := range l.siblings(path) {
		asm, err := read(sibling)
		if err != nil {
			if request.IncludeDependencies && l.Logger != nil {
				l.Logger.Warn(fmt.Sprintf("Unable to load assembly %s", sibling))
				l.Logger.WarnDetail(err)
			}
			continue
		}
		all = append(all, asm)
	}

	index := buildIndex(all)
	for _, asm := range all {
		linkAttributes(asm, index)
	}

	result := ports.LoadedAssemblies{
		Target: target,
		Resolve: func(fullName string) *metadata.Type {
			return index[fullName]
		},
	}
	scan := all[:1]
	if request.IncludeDependencies {
		scan = all
	}
	for _, asm := range scan {
		for _, t := range asm.Types {
			if t.Exported() {
				result.Types = append(result.Types, t)
			}
		}
	}
	return result, nil
}

func (l *Loader) reader(path string) (Reader, bool) {
	read, ok := l.Readers[strings.ToLower(filepath.Ext(path))]
	return read, ok
}

// siblings lists files next to path that share its reader, skipping the host's own JSON files.
func (l *Loader) siblings(path string) []string {
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		return nil
	}
	family := readerFamily(filepath.Ext(path))
	skip := map[string]bool{
		strings.ToLower(filepath.Base(path)):    true,
		strings.ToLower(meta.HostFile):          true,
		strings.ToLower(meta.LocalSettingsFile): true,
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || skip[strings.ToLower(entry.Name())] {
			continue
		}
		if readerFamily(filepath.Ext(entry.Name())) != family {
			continue
		}
		if _, ok := l.reader(entry.Name()); !ok {
			continue
		}
		out = append(out, filepath.Join(filepath.Dir(path), entry.Name()))
	}
	sort.Strings(out)
	return out
}

func readerFamily(ext string) string {
	switch strings.ToLower(ext) {
	case ".dll", ".exe":
		return "pe"
	case ".yaml", ".yml", ".json":
		return "descriptor"
	}
	return ""
}

// buildIndex maps full type names to definitions; earlier assemblies win.
func buildIndex(all []*metadata.Assembly) map[string]*metadata.Type {
	index := map[string]*metadata.Type{}
	for _, asm := range all {
		for _, t := range asm.Types {
			if _, exists := index[t.FullName()]; !exists {
				index[t.FullName()] = t
			}
		}
	}
	return index
}
