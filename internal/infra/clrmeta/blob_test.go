package clrmeta

import (
	"errors"
	"testing"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

func TestDecodeCompressed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
		used int
	}{
		{name: "one byte", data: []byte{0x03}, want: 0x03, used: 1},
		{name: "one byte max", data: []byte{0x7F}, want: 0x7F, used: 1},
		{name: "two bytes", data: []byte{0x80, 0x80}, want: 0x80, used: 2},
		{name: "two bytes max", data: []byte{0xBF, 0xFF}, want: 0x3FFF, used: 2},
		{name: "four bytes", data: []byte{0xC0, 0x00, 0x40, 0x00}, want: 0x4000, used: 4},
		{name: "four bytes max", data: []byte{0xDF, 0xFF, 0xFF, 0xFF}, want: 0x1FFFFFFF, used: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, used, err := decodeCompressed(tt.data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want || used != tt.used {
				t.Fatalf("got (0x%x, %d), want (0x%x, %d)", got, used, tt.want, tt.used)
			}
		})
	}
}

func TestDecodeCompressedErrors(t *testing.T) {
	if _, _, err := decodeCompressed([]byte{0xE0}); err == nil {
		t.Fatalf("expected error for invalid lead byte")
	}
	if _, _, err := decodeCompressed([]byte{0xC0, 0x01}); !errors.Is(err, errShort) {
		t.Fatalf("expected short read, got %v", err)
	}
}

type namesStub map[uint32]string

func (n namesStub) typeName(t tableID, row uint32) string {
	return n[coded(cTypeDefOrRef, t, row)]
}

func TestDecodeMethodSig(t *testing.T) {
	nullable := coded(cTypeDefOrRef, tTypeRef, 1)
	logger := coded(cTypeDefOrRef, tTypeRef, 2)
	names := namesStub{nullable: "System.Nullable`1", logger: "Microsoft.Extensions.Logging.ILogger"}

	blob := []byte{
		0x00, 3, byte(metadata.ElementVoid),
		byte(metadata.ElementGenericInst), byte(metadata.ElementValueType), byte(nullable), 1, byte(metadata.ElementI4),
		byte(metadata.ElementSZArray), byte(metadata.ElementString),
		elemCModOpt, byte(logger), byte(metadata.ElementClass), byte(logger),
	}
	sig, err := decodeMethodSig(blob, names)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sig.hasThis || sig.ret.Kind != metadata.ElementVoid || len(sig.params) != 3 {
		t.Fatalf("unexpected signature: %+v", sig)
	}
	if inner, ok := sig.params[0].NullableOf(); !ok || inner.Kind != metadata.ElementI4 {
		t.Fatalf("param 0 = %s", sig.params[0])
	}
	if got := sig.params[1].String(); got != "System.String[]" {
		t.Fatalf("param 1 = %s", got)
	}
	if got := sig.params[2].String(); got != "Microsoft.Extensions.Logging.ILogger" {
		t.Fatalf("param 2 = %s", got)
	}
}

func TestDecodeMethodSigTruncated(t *testing.T) {
	if _, err := decodeMethodSig([]byte{0x00, 2, byte(metadata.ElementVoid), byte(metadata.ElementI4)}, namesStub{}); err == nil {
		t.Fatalf("expected error for missing parameter")
	}
}

type enumStub map[string]metadata.ElementType

func (e enumStub) enumUnderlying(name string) metadata.ElementType {
	if kind, ok := e[name]; ok {
		return kind
	}
	return metadata.ElementI4
}

func TestDecodeAttributeBlobFixedArgs(t *testing.T) {
	params := []metadata.TypeSig{
		metadata.Primitive(metadata.ElementString),
		metadata.Primitive(metadata.ElementString),
		metadata.Named(metadata.ElementClass, "System.Type"),
		metadata.Named(metadata.ElementValueType, "Contoso.Small"),
		{Kind: metadata.ElementSZArray, Elem: &metadata.TypeSig{Kind: metadata.ElementString}},
		metadata.Primitive(metadata.ElementBoolean),
	}
	blob := concat(le16(attrProlog),
		serString("path"),
		[]byte{nullSerString},
		serString("Contoso.Provider, Contoso, Version=1.0.0.0"),
		[]byte{0x07},
		le32(nullArray),
		[]byte{1},
		le16(0),
	)
	args, named, err := decodeAttributeBlob(blob, params, enumStub{"Contoso.Small": metadata.ElementU1})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(named) != 0 || len(args) != len(params) {
		t.Fatalf("unexpected arity: %d args, %d named", len(args), len(named))
	}
	if s, _ := args[0].Str(); s != "path" {
		t.Fatalf("arg 0 = %+v", args[0])
	}
	if !args[1].IsNull() || args[1].Kind != metadata.ElementString {
		t.Fatalf("arg 1 should be a null string: %+v", args[1])
	}
	if s, _ := args[2].Str(); s != "Contoso.Provider" || args[2].Kind != metadata.ElementSystemType {
		t.Fatalf("arg 2 = %+v", args[2])
	}
	if n, _ := args[3].Int(); n != 7 || args[3].Enum != "Contoso.Small" {
		t.Fatalf("arg 3 = %+v", args[3])
	}
	if !args[4].IsNull() || args[4].Kind != metadata.ElementSZArray {
		t.Fatalf("arg 4 should be a null array: %+v", args[4])
	}
	if b, _ := args[5].Bool(); !b {
		t.Fatalf("arg 5 = %+v", args[5])
	}
}

func TestDecodeAttributeBlobNamedArgs(t *testing.T) {
	blob := concat(le16(attrProlog), le16(4),
		[]byte{namedField, byte(metadata.ElementI4)}, serString("Retries"), le32(3),
		[]byte{namedProperty, byte(metadata.ElementEnum)}, serString("Contoso.Access, Contoso"), serString("Mode"), le32(2),
		[]byte{namedProperty, byte(metadata.ElementBoxed)}, serString("Value"), []byte{byte(metadata.ElementString)}, serString("boxed"),
		[]byte{namedProperty, byte(metadata.ElementSZArray), byte(metadata.ElementString)}, serString("Methods"), le32(1), serString("get"),
	)
	_, named, err := decodeAttributeBlob(blob, nil, enumStub{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(named) != 4 {
		t.Fatalf("expected 4 named args, got %d", len(named))
	}
	if !named[0].Field || named[0].Name != "Retries" || named[0].Value.Data != int64(3) {
		t.Fatalf("named 0 = %+v", named[0])
	}
	if named[1].Field || named[1].Value.Enum != "Contoso.Access" || named[1].Value.Data != int64(2) {
		t.Fatalf("named 1 = %+v", named[1])
	}
	if named[2].Value.Kind != metadata.ElementObject || named[2].Value.Data != "boxed" {
		t.Fatalf("named 2 = %+v", named[2])
	}
	items, _ := named[3].Value.Data.([]metadata.Value)
	if len(items) != 1 || items[0].Data != "get" {
		t.Fatalf("named 3 = %+v", named[3])
	}
}

func TestDecodeAttributeBlobWithoutNamedCount(t *testing.T) {
	params := []metadata.TypeSig{metadata.Primitive(metadata.ElementString)}
	args, named, err := decodeAttributeBlob(concat(le16(attrProlog), serString("x")), params, nil)
	if err != nil || len(args) != 1 || named != nil {
		t.Fatalf("unexpected result: args=%v named=%v err=%v", args, named, err)
	}
}

func TestDecodeAttributeBlobErrors(t *testing.T) {
	str := []metadata.TypeSig{metadata.Primitive(metadata.ElementString)}
	tests := []struct {
		name   string
		blob   []byte
		params []metadata.TypeSig
	}{
		{name: "bad prolog", blob: concat(le16(0x0002), serString("x")), params: str},
		{name: "empty with params", blob: nil, params: str},
		{name: "truncated string", blob: concat(le16(attrProlog), []byte{0x05, 'a'}), params: str},
		{name: "bad named kind", blob: concat(le16(attrProlog), le16(1), []byte{0x99}), params: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodeAttributeBlob(tt.blob, tt.params, nil)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestStripAssembly(t *testing.T) {
	tests := map[string]string{
		"Contoso.Provider":                              "Contoso.Provider",
		"Contoso.Provider, Contoso, Version=1.0.0.0":    "Contoso.Provider",
		"Contoso.Box`1[[System.String, mscorlib]], Lib": "Contoso.Box`1[[System.String, mscorlib]]",
	}
	for in, want := range tests {
		if got := stripAssembly(in); got != want {
			t.Fatalf("stripAssembly(%q) = %q, want %q", in, got, want)
		}
	}
}
