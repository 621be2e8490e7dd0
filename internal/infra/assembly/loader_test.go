package assembly

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/poruru/fnsdk/cli/internal/infra/ui"
	"github.com/poruru/fnsdk/cli/internal/ports"
)

const targetDoc = `
name: Functions
types:
  - name: Contoso.Functions
    methods:
      - name: Run
        attributes:
          - type: FunctionName
            args: [WidgetFunc]
        params:
          - name: item
            type: string
            attributes:
              - type: Contoso.Ext.WidgetTrigger
                args: ["widgets/{id}"]
  - name: Contoso.Hidden
    internal: true
`

const extensionDoc = `
name: Contoso.Ext
types:
  - name: Contoso.Ext.WidgetTriggerAttribute
    baseType: System.Attribute
    attributes:
      - type: Microsoft.Azure.WebJobs.Description.Binding
    methods:
      - name: .ctor
        instance: true
        params:
          - {name: path, type: string}
  - name: Contoso.Ext.Helpers
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "Functions.yaml", targetDoc)
	writeFile(t, dir, "Contoso.Ext.yaml", extensionDoc)
	writeFile(t, dir, "broken.yaml", "types: [")
	writeFile(t, dir, "host.json", "{}")
	writeFile(t, dir, "local.settings.json", `{"Values": {}}`)
	writeFile(t, dir, "readme.txt", "ignored")
	return dir
}

func TestLoadLinksAttributesFromSiblings(t *testing.T) {
	dir := fixtureDir(t)
	logger := &ui.RecorderLogger{}

	loaded, err := NewLoader(logger).Load(ports.LoadRequest{Path: filepath.Join(dir, "Functions.yaml")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Target.Name != "Functions" {
		t.Fatalf("target = %s", loaded.Target.Name)
	}
	if len(loaded.Types) != 1 || loaded.Types[0].FullName() != "Contoso.Functions" {
		t.Fatalf("expected only the exported target type, got %d", len(loaded.Types))
	}
	attr := loaded.Types[0].Method("Run").Params[0].Attributes[0]
	if attr.Definition == nil || attr.Definition.FullName() != "Contoso.Ext.WidgetTriggerAttribute" {
		t.Fatalf("definition not linked: %+v", attr.Definition)
	}
	if len(attr.CtorParamNames) != 1 || attr.CtorParamNames[0] != "path" {
		t.Fatalf("ctor param names = %v", attr.CtorParamNames)
	}
	if loaded.ResolveType("Contoso.Ext.Helpers") == nil {
		t.Fatalf("sibling type not resolvable")
	}
	if len(logger.Warnings) != 0 {
		t.Fatalf("broken sibling must be silent without dependencies: %v", logger.Warnings)
	}
}

func TestLoadIncludesDependencies(t *testing.T) {
	dir := fixtureDir(t)
	logger := &ui.RecorderLogger{}

	loaded, err := NewLoader(logger).Load(ports.LoadRequest{
		Path:                filepath.Join(dir, "Functions.yaml"),
		IncludeDependencies: true,
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	names := map[string]bool{}
	for _, typ := range loaded.Types {
		names[typ.FullName()] = true
	}
	if !names["Contoso.Functions"] || !names["Contoso.Ext.Helpers"] || names["Contoso.Hidden"] {
		t.Fatalf("unexpected scanned types: %v", names)
	}
	if len(logger.Warnings) != 1 || logger.Warnings[0] != "Unable to load assembly "+filepath.Join(dir, "broken.yaml") {
		t.Fatalf("warnings = %v", logger.Warnings)
	}
	if len(logger.WarnDetails) != 1 {
		t.Fatalf("warn details = %v", logger.WarnDetails)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(&ui.RecorderLogger{})

	if _, err := loader.Load(ports.LoadRequest{Path: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeFile(t, dir, "notes.txt", "x")
	if _, err := loader.Load(ports.LoadRequest{Path: path}); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
