// Where: cli/internal/infra/output/writer.go
// What: function.json serialization with schema validation.
// Why: Every written document must have the exact key order and shape the host expects.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/poruru/fnsdk/cli/assets"
	"github.com/poruru/fnsdk/cli/internal/domain/function"
	"github.com/poruru/fnsdk/cli/internal/infra/fileops"
	"github.com/poruru/fnsdk/cli/internal/meta"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Writer serializes function schemas under the output root.
type Writer struct {
	OutputRoot   string
	SkipExisting bool
	Validate     bool
}

// FunctionPath returns <root>/<name>/function.json.
func FunctionPath(outputRoot, name string) string {
	return filepath.Join(outputRoot, name, meta.FunctionFile)
}

// ManifestEntry returns the manifest line recorded for a function.
func ManifestEntry(name string) string {
	return name + "/" + meta.FunctionFile
}

// ScriptFile returns the assembly path relative to a function directory with forward slashes.
// The absolute path is used when no relative path exists, e.g. across Windows volumes.
func ScriptFile(outputRoot, assemblyPath string) string {
	abs, err := filepath.Abs(assemblyPath)
	if err != nil {
		abs = assemblyPath
	}
	base, err := filepath.Abs(filepath.Join(outputRoot, meta.ScriptPlaceholder))
	if err != nil {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// Encode renders a schema as indented JSON without HTML escaping.
func Encode(schema *function.Schema) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return nil, fmt.Errorf("encode %s: %w", meta.FunctionFile, err)
	}
	return buf.Bytes(), nil
}

// Write serializes one function. It reports false when an existing file was kept.
func (w *Writer) Write(name string, schema *function.Schema) (bool, error) {
	if err := function.ValidateName(name); err != nil {
		return false, err
	}
	path := FunctionPath(w.OutputRoot, name)
	if w.SkipExisting {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	data, err := Encode(schema)
	if err != nil {
		return false, err
	}
	if w.Validate {
		if err := validateDocument(data); err != nil {
			return false, fmt.Errorf("function %s: %w", name, err)
		}
	}
	if err := fileops.WriteFile(path, data); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

func validateDocument(data []byte) error {
	sch, err := loadSchema()
	if err != nil {
		return fmt.Errorf("load function schema: %w", err)
	}
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("decode %s: %w", meta.FunctionFile, err)
	}
	if err := sch.Validate(document); err != nil {
		return fmt.Errorf("invalid %s: %w", meta.FunctionFile, err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(assets.FunctionSchemaURL, bytes.NewReader(assets.FunctionSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(assets.FunctionSchemaURL)
	})
	return compiledSchema, schemaErr
}
