// Where: cli/internal/ports/assembly.go
// What: Assembly loading port.
// Why: Keep the scan driver independent of how assemblies are read from disk.
package ports

import "github.com/poruru/fnsdk/cli/internal/domain/metadata"

// LoadRequest selects the target assembly and whether its dependencies are scanned too.
type LoadRequest struct {
	Path                string
	IncludeDependencies bool
}

// LoadedAssemblies is the result of loading a target and its neighbours.
type LoadedAssemblies struct {
	Target *metadata.Assembly
	// Types are the exported types to scan, target first.
	Types []*metadata.Type
	// Resolve finds a type definition by full name across every loaded assembly.
	Resolve func(fullName string) *metadata.Type
}

// ResolveType implements function.TypeResolver.
func (l LoadedAssemblies) ResolveType(fullName string) *metadata.Type {
	if l.Resolve == nil {
		return nil
	}
	return l.Resolve(fullName)
}

// AssemblyLoader reads assemblies into the reflection model.
type AssemblyLoader interface {
	Load(request LoadRequest) (LoadedAssemblies, error)
}
