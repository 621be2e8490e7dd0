// Where: cli/internal/architecture/sources_test.go
// What: Shared parser for the non-test Go files under internal/.
package architecture

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const (
	modulePath           = "github.com/poruru/fnsdk/cli"
	internalImportPrefix = modulePath + "/internal/"
)

type sourceFile struct {
	rel  string // path relative to internal/
	pkg  string // package directory relative to internal/
	file *ast.File
}

// imports returns the module-internal packages imported by the file, relative to internal/.
func (s sourceFile) imports() []string {
	var out []string
	for _, imp := range s.file.Imports {
		path := strings.Trim(imp.Path.Value, "\"")
		if rest, ok := strings.CutPrefix(path, internalImportPrefix); ok {
			out = append(out, rest)
		}
	}
	return out
}

func loadSources(t *testing.T) ([]sourceFile, *token.FileSet) {
	t.Helper()
	root := internalRoot(t)
	fset := token.NewFileSet()
	var sources []sourceFile
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return err
		}
		sources = append(sources, sourceFile{
			rel:  filepath.ToSlash(rel),
			pkg:  filepath.ToSlash(filepath.Dir(rel)),
			file: file,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("scan internal packages: %v", err)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].rel < sources[j].rel })
	return sources, fset
}

// internalRoot walks up from the test directory to the module root.
func internalRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "internal")
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above test directory")
		}
		dir = parent
	}
}

func topLayer(pkg string) string {
	layer, _, _ := strings.Cut(pkg, "/")
	return layer
}
