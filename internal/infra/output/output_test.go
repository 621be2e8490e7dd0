package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru/fnsdk/cli/internal/domain/binding"
	"github.com/poruru/fnsdk/cli/internal/domain/function"
	"github.com/poruru/fnsdk/cli/internal/infra/ui"
)

func queueSchema(connection string) *function.Schema {
	trigger := &binding.Binding{Type: "queueTrigger", Name: "item", Direction: binding.In}
	trigger.Properties.Set("queueName", "orders")
	if connection != "" {
		trigger.Properties.Set("connection", connection)
	}
	return &function.Schema{
		Bindings:            []*binding.Binding{trigger},
		ScriptFile:          "../bin/Functions.dll",
		EntryPoint:          "Contoso.Functions.Run",
		ConfigurationSource: "attributes",
		GeneratedBy:         "fnsdk-test",
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestManifestLifecycle(t *testing.T) {
	root := t.TempDir()
	m := OpenManifest(root)

	entries, err := m.Entries()
	if err != nil || entries != nil {
		t.Fatalf("missing manifest: entries=%v err=%v", entries, err)
	}
	if err := m.Record(ManifestEntry("A")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := m.Record(`B\function.json`); err != nil {
		t.Fatalf("record: %v", err)
	}
	entries, err = m.Entries()
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if strings.Join(entries, ",") != "A/function.json,B/function.json" {
		t.Fatalf("entries = %v", entries)
	}
	if err := m.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := m.Reset(); err != nil {
		t.Fatalf("second reset: %v", err)
	}
	if _, err := os.Stat(m.Path); !os.IsNotExist(err) {
		t.Fatalf("manifest still present: %v", err)
	}
}

func TestCleanPreviousHonoursManifestAndExclusions(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"Generated", "Kept", "UserAuthored"} {
		writeFile(t, FunctionPath(root, name), "{}")
	}
	logger := &ui.RecorderLogger{}

	CleanPrevious(root, []string{"Generated/function.json", "kept/function.json", "../escape/function.json", "Other/readme.txt"}, []string{" KEPT "}, logger)

	if _, err := os.Stat(filepath.Join(root, "Generated")); !os.IsNotExist(err) {
		t.Fatalf("generated directory not removed")
	}
	for _, name := range []string{"Kept", "UserAuthored"} {
		if _, err := os.Stat(FunctionPath(root, name)); err != nil {
			t.Fatalf("%s must survive cleanup: %v", name, err)
		}
	}
	if len(logger.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", logger.Warnings)
	}
}

func TestCopyAuxiliaryFilesAndHostJSON(t *testing.T) {
	bin := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(bin, "local.settings.json"), `{"Values":{}}`)

	CopyAuxiliaryFiles(bin, out, &ui.RecorderLogger{})
	data, err := os.ReadFile(filepath.Join(out, "local.settings.json"))
	if err != nil || string(data) != `{"Values":{}}` {
		t.Fatalf("local settings not copied: %q %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(out, "host.json")); !os.IsNotExist(err) {
		t.Fatalf("host.json must not be copied when absent")
	}

	written, err := EnsureHostJSON(out)
	if err != nil || !written {
		t.Fatalf("ensure host.json: written=%v err=%v", written, err)
	}
	written, err = EnsureHostJSON(out)
	if err != nil || written {
		t.Fatalf("existing host.json must be kept: written=%v err=%v", written, err)
	}
	data, _ = os.ReadFile(filepath.Join(out, "host.json"))
	if string(data) != "{}" {
		t.Fatalf("host.json = %q", data)
	}
}

func TestSettingsCheck(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "local.settings.json"), `{"IsEncrypted": false, "Values": {"myconn": "x", "Timeout": 5}}`)
	settings, err := LoadLocalSettings(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	logger := &ui.RecorderLogger{}
	settings.Check(queueSchema("MyConn"), "Q1", logger)
	settings.Check(queueSchema("Missing"), "Q2", logger)

	want := []string{
		"Function [Q1]: Missing value for AzureWebJobsStorage in local.settings.json. This is required for all triggers other than HTTP.",
		"Function [Q2]: Missing value for AzureWebJobsStorage in local.settings.json. This is required for all triggers other than HTTP.",
		"Function [Q2]: cannot find value named 'Missing' in local.settings.json that matches 'connection' property set on 'queueTrigger'",
	}
	if strings.Join(logger.Warnings, "\n") != strings.Join(want, "\n") {
		t.Fatalf("warnings:\n%s", strings.Join(logger.Warnings, "\n"))
	}
}

func TestSettingsCheckHttpIsExempt(t *testing.T) {
	settings := &LocalSettings{Values: map[string]any{}}
	schema := queueSchema("")
	schema.Bindings[0].Type = "httpTrigger"
	logger := &ui.RecorderLogger{}
	settings.Check(schema, "H", logger)
	if len(logger.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", logger.Warnings)
	}

	missing, err := LoadLocalSettings(t.TempDir())
	if err != nil || missing != nil {
		t.Fatalf("absent settings: %v %v", missing, err)
	}
	missing.Check(queueSchema("x"), "Q", logger)
	if len(logger.Warnings) != 0 {
		t.Fatalf("nil settings must not warn")
	}
}

func TestLoadLocalSettingsInvalid(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "local.settings.json"), "{")
	if _, err := LoadLocalSettings(root); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWriterWritesIndentedValidatedJSON(t *testing.T) {
	root := t.TempDir()
	w := &Writer{OutputRoot: root, Validate: true}

	written, err := w.Write("QueueFunc", queueSchema("Conn<1>"))
	if err != nil || !written {
		t.Fatalf("write: written=%v err=%v", written, err)
	}
	data, err := os.ReadFile(FunctionPath(root, "QueueFunc"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := `{
  "bindings": [
    {
      "type": "queueTrigger",
      "name": "item",
      "direction": "in",
      "queueName": "orders",
      "connection": "Conn<1>"
    }
  ],
  "disabled": false,
  "scriptFile": "../bin/Functions.dll",
  "entryPoint": "Contoso.Functions.Run",
  "configurationSource": "attributes",
  "generatedBy": "fnsdk-test"
}
`
	if string(data) != want {
		t.Fatalf("function.json:\n%s", data)
	}
}

func TestWriterSkipExisting(t *testing.T) {
	root := t.TempDir()
	writeFile(t, FunctionPath(root, "F"), "custom")
	w := &Writer{OutputRoot: root, SkipExisting: true}
	written, err := w.Write("F", queueSchema(""))
	if err != nil || written {
		t.Fatalf("existing file must be kept: written=%v err=%v", written, err)
	}
	data, _ := os.ReadFile(FunctionPath(root, "F"))
	if string(data) != "custom" {
		t.Fatalf("file overwritten: %q", data)
	}
}

func TestWriterRejectsInvalidSchema(t *testing.T) {
	w := &Writer{OutputRoot: t.TempDir(), Validate: true}
	schema := queueSchema("")
	schema.Bindings = nil
	if _, err := w.Write("Empty", schema); err == nil {
		t.Fatalf("expected validation error for empty bindings")
	}
	if _, err := os.Stat(FunctionPath(w.OutputRoot, "Empty")); !os.IsNotExist(err) {
		t.Fatalf("invalid document written")
	}
}

func TestScriptFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	asm := filepath.Join(filepath.Dir(root), "bin", "Functions.dll")
	if got := ScriptFile(root, asm); got != "../../bin/Functions.dll" {
		t.Fatalf("script file = %q", got)
	}
	if got := ScriptFile(root, filepath.Join(root, "bin", "F.dll")); got != "../bin/F.dll" {
		t.Fatalf("script file = %q", got)
	}
}

func TestWriterRejectsPathLikeNames(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	w := &Writer{OutputRoot: root}
	for _, name := range []string{"../x", "a/b", `a\b`, ".."} {
		if _, err := w.Write(name, queueSchema("")); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(root), "x")); !os.IsNotExist(err) {
		t.Fatalf("file written outside the output root")
	}
}
