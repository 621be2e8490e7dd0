// Where: cli/internal/infra/clrmeta/module.go
// What: Build the reflection model from decoded metadata tables.
// Why: The classifier works on linked types, methods, and parameters rather than raw rows.
package clrmeta

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

const (
	visibilityMask   = 0x07
	visPublic        = 0x01
	visNestedPublic  = 0x02
	memberAccessMask = 0x07
	memberPublic     = 0x06
	memberStatic     = 0x10
	moduleTypeName   = "<Module>"
	ctorName         = ".ctor"
)

type builder struct {
	img     *image
	ts      *tableStream
	asm     *metadata.Assembly
	types   []*metadata.Type
	fields  []*metadata.Field
	methods []*metadata.Method
	params  map[uint32]*metadata.Param
	refs    map[uint32]string
	byName  map[string]*metadata.Type
}

func buildAssembly(img *image, fallbackName string) (*metadata.Assembly, error) {
	b := &builder{
		img:    img,
		ts:     img.tables,
		asm:    &metadata.Assembly{Name: fallbackName},
		params: map[uint32]*metadata.Param{},
		refs:   map[uint32]string{},
		byName: map[string]*metadata.Type{},
	}
	if b.ts.rows(tAssembly) > 0 {
		if name := img.str(b.ts.cell(tAssembly, 1, assemblyName)); name != "" {
			b.asm.Name = name
		}
	}

	b.declareTypes()
	steps := []func() error{b.loadFields, b.loadMethods, b.loadBaseTypes, b.loadConstants, b.loadAttributes}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return b.asm, nil
}

func (b *builder) declareTypes() {
	n := b.ts.rows(tTypeDef)
	b.types = make([]*metadata.Type, n)
	for row := uint32(1); row <= n; row++ {
		flags := b.ts.cell(tTypeDef, row, typeDefFlags)
		vis := flags & visibilityMask
		b.types[row-1] = &metadata.Type{
			Name:      b.img.str(b.ts.cell(tTypeDef, row, typeDefName)),
			Namespace: b.img.str(b.ts.cell(tTypeDef, row, typeDefNamespace)),
			Public:    vis == visPublic || vis == visNestedPublic,
			Assembly:  b.asm,
		}
	}
	for row := uint32(1); row <= b.ts.rows(tNestedClass); row++ {
		nested := b.typeDef(b.ts.cell(tNestedClass, row, nestedNested))
		enclosing := b.typeDef(b.ts.cell(tNestedClass, row, nestedEnclosing))
		if nested != nil && enclosing != nil && nested != enclosing {
			nested.DeclaringType = enclosing
			nested.Namespace = ""
		}
	}
	for _, t := range b.types {
		if t.Name == moduleTypeName && t.DeclaringType == nil {
			continue
		}
		b.asm.Types = append(b.asm.Types, t)
		b.byName[t.FullName()] = t
	}
}

func (b *builder) typeDef(row uint32) *metadata.Type {
	if row == 0 || int(row) > len(b.types) {
		return nil
	}
	return b.types[row-1]
}

// memberRange returns the rows owned by row of owner through a list column.
func (b *builder) memberRange(owner tableID, row uint32, col int, target tableID) []uint32 {
	start := b.ts.cell(owner, row, col)
	end := b.ts.rows(target) + 1
	if row < b.ts.rows(owner) {
		end = b.ts.cell(owner, row+1, col)
	}
	var out []uint32
	for i := start; i > 0 && i < end; i++ {
		out = append(out, i)
	}
	return out
}

func (b *builder) loadFields() error {
	b.fields = make([]*metadata.Field, b.ts.rows(tField))
	for row := uint32(1); row <= uint32(len(b.types)); row++ {
		owner := b.types[row-1]
		for _, f := range b.memberRange(tTypeDef, row, typeDefFields, tField) {
			if f == 0 || int(f) > len(b.fields) {
				continue
			}
			flags := b.ts.cell(tField, f, fieldFlags)
			blob, err := b.img.blob(b.ts.cell(tField, f, fieldSig))
			if err != nil {
				return err
			}
			sig, err := decodeFieldSig(blob, b)
			if err != nil {
				return fmt.Errorf("field %s: %w", owner.FullName(), err)
			}
			field := &metadata.Field{
				Name:   b.img.str(b.ts.cell(tField, f, fieldName)),
				Public: flags&memberAccessMask == memberPublic,
				Static: flags&memberStatic != 0,
				Type:   sig,
			}
			b.fields[f-1] = field
			owner.Fields = append(owner.Fields, field)
		}
	}
	return nil
}

func (b *builder) loadMethods() error {
	b.methods = make([]*metadata.Method, b.ts.rows(tMethodDef))
	for row := uint32(1); row <= uint32(len(b.types)); row++ {
		owner := b.types[row-1]
		for _, m := range b.memberRange(tTypeDef, row, typeDefMethods, tMethodDef) {
			if m == 0 || int(m) > len(b.methods) {
				continue
			}
			method, err := b.loadMethod(owner, m)
			if err != nil {
				return err
			}
			b.methods[m-1] = method
			owner.Methods = append(owner.Methods, method)
		}
	}
	return nil
}

func (b *builder) loadMethod(owner *metadata.Type, row uint32) (*metadata.Method, error) {
	flags := b.ts.cell(tMethodDef, row, methodFlags)
	method := &metadata.Method{
		Name:          b.img.str(b.ts.cell(tMethodDef, row, methodName)),
		DeclaringType: owner,
		Public:        flags&memberAccessMask == memberPublic,
		Static:        flags&memberStatic != 0,
	}
	blob, err := b.img.blob(b.ts.cell(tMethodDef, row, methodSig))
	if err != nil {
		return nil, err
	}
	sig, err := decodeMethodSig(blob, b)
	if err != nil {
		return nil, fmt.Errorf("method %s.%s: %w", owner.FullName(), method.Name, err)
	}

	method.Params = make([]*metadata.Param, len(sig.params))
	for i, ps := range sig.params {
		method.Params[i] = &metadata.Param{Position: i, Type: ps, Method: method}
	}
	method.Return = metadata.ReturnParam(method, sig.ret, nil)

	for _, p := range b.memberRange(tMethodDef, row, methodParams, tParam) {
		if p == 0 || p > b.ts.rows(tParam) {
			continue
		}
		seq := int(b.ts.cell(tParam, p, paramSequence))
		name := b.img.str(b.ts.cell(tParam, p, paramName))
		switch {
		case seq == 0:
			b.params[p] = method.Return
		case seq <= len(method.Params):
			method.Params[seq-1].Name = name
			b.params[p] = method.Params[seq-1]
		}
	}
	return method, nil
}

func (b *builder) loadBaseTypes() error {
	for row := uint32(1); row <= uint32(len(b.types)); row++ {
		t := b.types[row-1]
		if extends := b.ts.cell(tTypeDef, row, typeDefExtends); extends != 0 {
			tbl, ref := decodeCoded(cTypeDefOrRef, extends)
			t.BaseType = b.typeName(tbl, ref)
		}
	}
	for row := uint32(1); row <= b.ts.rows(tInterfaceImpl); row++ {
		t := b.typeDef(b.ts.cell(tInterfaceImpl, row, interfaceClass))
		if t == nil {
			continue
		}
		tbl, ref := decodeCoded(cTypeDefOrRef, b.ts.cell(tInterfaceImpl, row, interfaceType))
		t.Interfaces = append(t.Interfaces, b.typeName(tbl, ref))
	}
	return nil
}

func (b *builder) loadConstants() error {
	for row := uint32(1); row <= b.ts.rows(tConstant); row++ {
		tbl, parent := decodeCoded(cHasConstant, b.ts.cell(tConstant, row, constantParent))
		if tbl != tField || parent == 0 || int(parent) > len(b.fields) || b.fields[parent-1] == nil {
			continue
		}
		blob, err := b.img.blob(b.ts.cell(tConstant, row, constantValue))
		if err != nil {
			return err
		}
		kind := metadata.ElementType(b.ts.cell(tConstant, row, constantType) & 0xFF)
		b.fields[parent-1].Constant = constantData(kind, blob)
	}
	return nil
}

func constantData(kind metadata.ElementType, blob []byte) any {
	fixed := func(n int) []byte {
		if len(blob) < n {
			return nil
		}
		return blob[:n]
	}
	switch kind {
	case metadata.ElementBoolean:
		if b := fixed(1); b != nil {
			return b[0] != 0
		}
	case metadata.ElementI1:
		if b := fixed(1); b != nil {
			return int64(int8(b[0]))
		}
	case metadata.ElementU1:
		if b := fixed(1); b != nil {
			return int64(b[0])
		}
	case metadata.ElementI2:
		if b := fixed(2); b != nil {
			return int64(int16(binary.LittleEndian.Uint16(b)))
		}
	case metadata.ElementU2, metadata.ElementChar:
		if b := fixed(2); b != nil {
			return int64(binary.LittleEndian.Uint16(b))
		}
	case metadata.ElementI4:
		if b := fixed(4); b != nil {
			return int64(int32(binary.LittleEndian.Uint32(b)))
		}
	case metadata.ElementU4:
		if b := fixed(4); b != nil {
			return int64(binary.LittleEndian.Uint32(b))
		}
	case metadata.ElementI8, metadata.ElementU8:
		if b := fixed(8); b != nil {
			return int64(binary.LittleEndian.Uint64(b))
		}
	case metadata.ElementR4:
		if b := fixed(4); b != nil {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}
	case metadata.ElementR8:
		if b := fixed(8); b != nil {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
	case metadata.ElementString:
		units := make([]uint16, len(blob)/2)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(blob[i*2:])
		}
		return string(utf16.Decode(units))
	}
	return nil
}

func (b *builder) loadAttributes() error {
	for row := uint32(1); row <= b.ts.rows(tCustomAttribute); row++ {
		attr, err := b.attribute(row)
		if err != nil {
			return err
		}
		if attr == nil {
			continue
		}
		tbl, parent := decodeCoded(cHasCustomAttribute, b.ts.cell(tCustomAttribute, row, attrParent))
		switch tbl {
		case tTypeDef:
			if t := b.typeDef(parent); t != nil {
				t.Attributes = append(t.Attributes, attr)
			}
		case tMethodDef:
			if parent > 0 && int(parent) <= len(b.methods) && b.methods[parent-1] != nil {
				m := b.methods[parent-1]
				m.Attributes = append(m.Attributes, attr)
			}
		case tParam:
			if p := b.params[parent]; p != nil {
				p.Attributes = append(p.Attributes, attr)
			}
		}
	}
	return nil
}

func (b *builder) attribute(row uint32) (*metadata.Attribute, error) {
	tbl, ctor := decodeCoded(cCustomAttributeType, b.ts.cell(tCustomAttribute, row, attrType))
	attr := &metadata.Attribute{}
	switch tbl {
	case tMethodDef:
		if ctor == 0 || int(ctor) > len(b.methods) || b.methods[ctor-1] == nil {
			return nil, nil
		}
		m := b.methods[ctor-1]
		attr.Namespace, attr.Name = metadata.SplitFullName(m.DeclaringType.FullName())
		attr.Definition = m.DeclaringType
		for _, p := range m.Params {
			attr.CtorParams = append(attr.CtorParams, p.Type)
			attr.CtorParamNames = append(attr.CtorParamNames, p.Name)
		}
	case tMemberRef:
		ptbl, parent := decodeCoded(cMemberRefParent, b.ts.cell(tMemberRef, ctor, memberRefParent))
		full := b.typeName(ptbl, parent)
		if full == "" {
			return nil, nil
		}
		attr.Namespace, attr.Name = metadata.SplitFullName(full)
		if ptbl == tTypeDef {
			attr.Definition = b.typeDef(parent)
		}
		blob, err := b.img.blob(b.ts.cell(tMemberRef, ctor, memberRefSig))
		if err != nil {
			return nil, err
		}
		sig, err := decodeMethodSig(blob, b)
		if err != nil {
			return nil, fmt.Errorf("attribute %s constructor: %w", full, err)
		}
		attr.CtorParams = sig.params
	default:
		return nil, nil
	}

	blob, err := b.img.blob(b.ts.cell(tCustomAttribute, row, attrValue))
	if err != nil {
		return nil, err
	}
	attr.Args, attr.Named, err = decodeAttributeBlob(blob, attr.CtorParams, b)
	if err != nil {
		return nil, fmt.Errorf("attribute %s: %w", attr.FullName(), err)
	}
	return attr, nil
}

// typeName implements typeNamer.
func (b *builder) typeName(t tableID, row uint32) string {
	switch t {
	case tTypeDef:
		return b.typeDef(row).FullName()
	case tTypeRef:
		if name, ok := b.refs[row]; ok {
			return name
		}
		if row == 0 || row > b.ts.rows(tTypeRef) {
			return ""
		}
		b.refs[row] = ""
		name := b.img.str(b.ts.cell(tTypeRef, row, typeRefName))
		ns := b.img.str(b.ts.cell(tTypeRef, row, typeRefNamespace))
		full := name
		if ns != "" {
			full = ns + "." + name
		}
		if st, srow := decodeCoded(cResolutionScope, b.ts.cell(tTypeRef, row, typeRefScope)); st == tTypeRef && srow != 0 {
			full = b.typeName(tTypeRef, srow) + "+" + name
		}
		b.refs[row] = full
		return full
	case tTypeSpec:
		if row == 0 || row > b.ts.rows(tTypeSpec) {
			return ""
		}
		blob, err := b.img.blob(b.ts.cell(tTypeSpec, row, typeSpecSig))
		if err != nil {
			return ""
		}
		sig, err := decodeTypeSpec(blob, b)
		if err != nil {
			return ""
		}
		return sig.String()
	}
	return ""
}

// enumUnderlying implements enumSizer; enums defined elsewhere are assumed to be int32.
func (b *builder) enumUnderlying(fullName string) metadata.ElementType {
	if t, ok := b.byName[fullName]; ok && t.IsEnum() {
		return t.EnumUnderlying()
	}
	return metadata.ElementI4
}
