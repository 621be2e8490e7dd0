// Where: cli/internal/infra/clrmeta/attrblob.go
// What: Custom attribute value blob decoding (II.23.3).
// Why: Fixed arguments are typed by the constructor signature; named arguments carry their own type tags.
package clrmeta

import (
	"fmt"
	"math"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

const (
	attrProlog    = 0x0001
	namedField    = 0x53
	namedProperty = 0x54
	nullSerString = 0xFF
	nullArray     = 0xFFFFFFFF
)

// enumSizer reports the underlying integer type of an enum by full name.
type enumSizer interface {
	enumUnderlying(fullName string) metadata.ElementType
}

type blobDecoder struct {
	c     *cursor
	enums enumSizer
}

// decodeAttributeBlob decodes the fixed and named arguments of one attribute usage.
func decodeAttributeBlob(blob []byte, params []metadata.TypeSig, enums enumSizer) ([]metadata.Value, []metadata.NamedArg, error) {
	if len(blob) == 0 {
		if len(params) > 0 {
			return nil, nil, &FormatError{Where: "attribute blob", Err: errShort}
		}
		return nil, nil, nil
	}
	d := &blobDecoder{c: newCursor(blob), enums: enums}
	if prolog := d.c.u16(); prolog != attrProlog {
		if d.c.err != nil {
			return nil, nil, &FormatError{Where: "attribute blob", Err: d.c.err}
		}
		return nil, nil, &FormatError{Where: "attribute blob", Err: fmt.Errorf("bad prolog 0x%04x", prolog)}
	}

	args := make([]metadata.Value, 0, len(params))
	for _, p := range params {
		v, err := d.value(p)
		if err != nil {
			return nil, nil, &FormatError{Where: "attribute fixed argument", Err: err}
		}
		args = append(args, v)
	}

	count := int(d.c.u16())
	if d.c.err != nil {
		// Some compilers omit NumNamed when there are none.
		return args, nil, nil
	}
	var named []metadata.NamedArg
	for i := 0; i < count; i++ {
		kind := d.c.u8()
		if kind != namedField && kind != namedProperty {
			return nil, nil, &FormatError{Where: "attribute named argument", Err: fmt.Errorf("bad kind 0x%02x", kind)}
		}
		sig, err := d.fieldOrPropType()
		if err != nil {
			return nil, nil, &FormatError{Where: "attribute named argument", Err: err}
		}
		name, _ := d.serString()
		v, err := d.value(sig)
		if err != nil {
			return nil, nil, &FormatError{Where: "attribute named argument " + name, Err: err}
		}
		named = append(named, metadata.NamedArg{Field: kind == namedField, Name: name, Value: v})
	}
	if d.c.err != nil {
		return nil, nil, &FormatError{Where: "attribute named argument", Err: d.c.err}
	}
	return args, named, nil
}

func (d *blobDecoder) serString() (string, bool) {
	if b, ok := d.c.peek(); ok && b == nullSerString {
		d.c.u8()
		return "", false
	}
	n := d.c.compressed()
	raw := d.c.take(int(n))
	if d.c.err != nil {
		return "", false
	}
	return string(raw), true
}

func (d *blobDecoder) fieldOrPropType() (metadata.TypeSig, error) {
	b := metadata.ElementType(d.c.u8())
	if d.c.err != nil {
		return metadata.TypeSig{}, d.c.err
	}
	switch b {
	case metadata.ElementSystemType:
		return metadata.Named(metadata.ElementClass, "System.Type"), nil
	case metadata.ElementBoxed:
		return metadata.Primitive(metadata.ElementObject), nil
	case metadata.ElementEnum:
		name, ok := d.serString()
		if !ok {
			return metadata.TypeSig{}, fmt.Errorf("enum argument without a type name")
		}
		return metadata.Named(metadata.ElementValueType, stripAssembly(name)), nil
	case metadata.ElementSZArray:
		elem, err := d.fieldOrPropType()
		if err != nil {
			return metadata.TypeSig{}, err
		}
		return metadata.TypeSig{Kind: metadata.ElementSZArray, Elem: &elem}, nil
	}
	if b == metadata.ElementString || b == metadata.ElementBoolean || b == metadata.ElementChar ||
		b == metadata.ElementR4 || b == metadata.ElementR8 || b.IsInteger() {
		return metadata.Primitive(b), nil
	}
	return metadata.TypeSig{}, fmt.Errorf("unsupported argument type 0x%02x", byte(b))
}

func (d *blobDecoder) value(sig metadata.TypeSig) (metadata.Value, error) {
	if inner, ok := sig.NullableOf(); ok {
		sig = inner
	}
	switch {
	case sig.IsString():
		s, ok := d.serString()
		if !ok {
			return metadata.NullString(), d.c.err
		}
		return metadata.StringValue(s), d.c.err
	case sig.IsSystemType():
		s, ok := d.serString()
		if !ok {
			return metadata.Value{Kind: metadata.ElementSystemType}, d.c.err
		}
		return metadata.TypeValue(stripAssembly(s)), d.c.err
	case sig.Kind == metadata.ElementObject || (sig.Kind == metadata.ElementClass && sig.Name == "System.Object"):
		inner, err := d.fieldOrPropType()
		if err != nil {
			return metadata.Value{}, err
		}
		v, err := d.value(inner)
		if err != nil {
			return metadata.Value{}, err
		}
		return metadata.Value{Kind: metadata.ElementObject, Enum: v.Enum, Data: v.Data}, nil
	case sig.Kind == metadata.ElementSZArray:
		n := d.c.u32()
		if d.c.err != nil {
			return metadata.Value{}, d.c.err
		}
		if n == nullArray {
			return metadata.Value{Kind: metadata.ElementSZArray}, nil
		}
		if int(n) > d.c.remaining() {
			return metadata.Value{}, errShort
		}
		items := make([]metadata.Value, 0, n)
		for i := uint32(0); i < n; i++ {
			v, err := d.value(*sig.Elem)
			if err != nil {
				return metadata.Value{}, err
			}
			items = append(items, v)
		}
		return metadata.ArrayValue(items...), nil
	case sig.Kind == metadata.ElementValueType || sig.Kind == metadata.ElementClass:
		underlying := metadata.ElementI4
		if d.enums != nil {
			underlying = d.enums.enumUnderlying(sig.Name)
		}
		v, err := d.primitive(underlying)
		if err != nil {
			return metadata.Value{}, err
		}
		v.Enum = sig.Name
		return v, nil
	}
	return d.primitive(sig.Kind)
}

func (d *blobDecoder) primitive(kind metadata.ElementType) (metadata.Value, error) {
	v := metadata.Value{Kind: kind}
	switch kind {
	case metadata.ElementBoolean:
		v.Data = d.c.u8() != 0
	case metadata.ElementChar:
		v.Data = string(rune(d.c.u16()))
	case metadata.ElementI1:
		v.Data = int64(int8(d.c.u8()))
	case metadata.ElementU1:
		v.Data = int64(d.c.u8())
	case metadata.ElementI2:
		v.Data = int64(int16(d.c.u16()))
	case metadata.ElementU2:
		v.Data = int64(d.c.u16())
	case metadata.ElementI4:
		v.Data = int64(int32(d.c.u32()))
	case metadata.ElementU4:
		v.Data = int64(d.c.u32())
	case metadata.ElementI8, metadata.ElementU8:
		v.Data = int64(d.c.u64())
	case metadata.ElementR4:
		v.Data = float64(math.Float32frombits(d.c.u32()))
	case metadata.ElementR8:
		v.Data = math.Float64frombits(d.c.u64())
	default:
		return metadata.Value{}, fmt.Errorf("unsupported argument type %s", metadata.Primitive(kind))
	}
	if d.c.err != nil {
		return metadata.Value{}, d.c.err
	}
	return v, nil
}

// stripAssembly drops the assembly qualification from a serialized type name.
func stripAssembly(name string) string {
	depth := 0
	for i, r := range name {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(name[:i])
			}
		}
	}
	return strings.TrimSpace(name)
}
