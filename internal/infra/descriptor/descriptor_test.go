package descriptor

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

func TestLoadFixture(t *testing.T) {
	path := filepath.Join("testdata", "functions.yaml")
	asm, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if asm.Name != "Functions" || asm.Path != path {
		t.Fatalf("unexpected assembly: %+v", asm)
	}
	if len(asm.Types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(asm.Types))
	}

	functions := asm.Types[0]
	if functions.FullName() != "Contoso.Functions" {
		t.Fatalf("first type = %s", functions.FullName())
	}
	if !metadata.HasAttribute(functions.Attributes, "StorageAccountAttribute") {
		t.Fatalf("type attribute suffix not qualified: %+v", functions.Attributes)
	}
	run := functions.Method("Run")
	if run == nil || !run.Public || !run.Static || len(run.Params) != 2 {
		t.Fatalf("unexpected Run: %+v", run)
	}
	queue := metadata.FindAttribute(run.Params[0].Attributes, "QueueTriggerAttribute")
	if queue == nil || queue.Namespace != "Microsoft.Azure.WebJobs" {
		t.Fatalf("queue trigger missing: %+v", run.Params[0].Attributes)
	}
	if len(queue.Named) != 1 || queue.Named[0].Name != "Connection" {
		t.Fatalf("named args = %+v", queue.Named)
	}
	blob := metadata.FindAttribute(run.Params[1].Attributes, "BlobAttribute")
	if blob == nil || len(blob.Args) != 2 || blob.Args[1].Enum != "FileAccess" || blob.Args[1].Data != int64(2) {
		t.Fatalf("blob attribute = %+v", blob)
	}

	http := asm.Types[1]
	if http.FullName() != "Contoso.Functions+Http" {
		t.Fatalf("nested type = %s", http.FullName())
	}
	goMethod := http.Method("Go")
	trigger := metadata.FindAttribute(goMethod.Params[0].Attributes, "HttpTriggerAttribute")
	methods, _ := trigger.Args[1].Data.([]metadata.Value)
	if len(methods) != 2 || trigger.CtorParams[1].Kind != metadata.ElementSZArray {
		t.Fatalf("http trigger args = %+v", trigger.Args)
	}
	if !goMethod.Return.Type.IsString() {
		t.Fatalf("return type = %s", goMethod.Return.Type)
	}

	level := asm.Types[2]
	if !level.IsEnum() || level.EnumUnderlying() != metadata.ElementU1 {
		t.Fatalf("enum not described: %+v", level)
	}
}

func TestParseValues(t *testing.T) {
	doc := `
types:
  - name: T
    attributes:
      - type: X
        args: [null, {null: type}, {type: "Contoso.Provider"}, {enum: "Contoso.Custom", value: 4}, 7, false]
        fields:
          - {name: F, value: "v"}
`
	asm, err := Parse([]byte(doc), "fallback")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if asm.Name != "fallback" {
		t.Fatalf("name = %q", asm.Name)
	}
	attr := asm.Types[0].Attributes[0]
	if attr.FullName() != "XAttribute" {
		t.Fatalf("attribute name = %s", attr.FullName())
	}
	args := attr.Args
	if !args[0].IsNull() || args[0].Kind != metadata.ElementString {
		t.Fatalf("arg 0 = %+v", args[0])
	}
	if !args[1].IsNull() || args[1].Kind != metadata.ElementSystemType {
		t.Fatalf("arg 1 = %+v", args[1])
	}
	if s, _ := args[2].Str(); s != "Contoso.Provider" || args[2].Kind != metadata.ElementSystemType {
		t.Fatalf("arg 2 = %+v", args[2])
	}
	if args[3].Enum != "Contoso.Custom" || args[3].Data != int64(4) {
		t.Fatalf("arg 3 = %+v", args[3])
	}
	if args[4].Data != int64(7) {
		t.Fatalf("arg 4 = %+v", args[4])
	}
	if b, ok := args[5].Bool(); !ok || b {
		t.Fatalf("arg 5 = %+v", args[5])
	}
	if len(attr.Named) != 1 || !attr.Named[0].Field {
		t.Fatalf("named = %+v", attr.Named)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "unknown key", doc: "types:\n  - name: T\n    bogus: 1\n", want: "bogus"},
		{name: "unknown enum member", doc: "types:\n  - name: T\n    attributes:\n      - type: X\n        args: [{enum: FileAccess, member: Nope}]\n", want: "no member"},
		{name: "unknown enum without value", doc: "types:\n  - name: T\n    attributes:\n      - type: X\n        args: [{enum: Mystery, member: A}]\n", want: "numeric value"},
		{name: "missing type name", doc: "types:\n  - methods: []\n", want: "without a name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), "x")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseTypeSig(t *testing.T) {
	tests := map[string]string{
		"string":                    "System.String",
		"int?":                      "System.Nullable`1<System.Int32>",
		"string[]":                  "System.String[]",
		"Dictionary<string, int[]>": "Dictionary`2<System.String,System.Int32[]>",
		"Contoso.Order":             "Contoso.Order",
	}
	for in, want := range tests {
		if got := ParseTypeSig(in).String(); got != want {
			t.Fatalf("ParseTypeSig(%q) = %q, want %q", in, got, want)
		}
	}
}
