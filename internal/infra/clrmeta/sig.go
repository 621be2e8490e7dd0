// Where: cli/internal/infra/clrmeta/sig.go
// What: Field, method, and type signature decoding (II.23.2).
package clrmeta

import (
	"fmt"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

const (
	sigField        = 0x06
	sigGeneric      = 0x10
	sigHasThis      = 0x20
	elemCModReqd    = 0x1F
	elemCModOpt     = 0x20
	elemSentinel    = 0x41
	elemPinned      = 0x45
	maxSigRecursion = 64
)

// typeNamer resolves a TypeDefOrRef coded index to a full type name.
type typeNamer interface {
	typeName(t tableID, row uint32) string
}

type sigReader struct {
	c     *cursor
	names typeNamer
	depth int
}

func newSigReader(blob []byte, names typeNamer) *sigReader {
	return &sigReader{c: newCursor(blob), names: names}
}

type methodSignature struct {
	hasThis bool
	ret     metadata.TypeSig
	params  []metadata.TypeSig
}

func decodeMethodSig(blob []byte, names typeNamer) (methodSignature, error) {
	r := newSigReader(blob, names)
	conv := r.c.u8()
	if conv&sigGeneric != 0 {
		r.c.compressed()
	}
	count := int(r.c.compressed())
	sig := methodSignature{hasThis: conv&sigHasThis != 0}
	sig.ret = r.typeSig()
	for i := 0; i < count && r.c.err == nil; i++ {
		sig.params = append(sig.params, r.typeSig())
	}
	if r.c.err != nil {
		return methodSignature{}, &FormatError{Where: "method signature", Err: r.c.err}
	}
	return sig, nil
}

func decodeFieldSig(blob []byte, names typeNamer) (metadata.TypeSig, error) {
	r := newSigReader(blob, names)
	if lead := r.c.u8(); lead != sigField && r.c.err == nil {
		return metadata.TypeSig{}, &FormatError{Where: "field signature", Err: fmt.Errorf("bad lead byte 0x%02x", lead)}
	}
	sig := r.typeSig()
	if r.c.err != nil {
		return metadata.TypeSig{}, &FormatError{Where: "field signature", Err: r.c.err}
	}
	return sig, nil
}

func decodeTypeSpec(blob []byte, names typeNamer) (metadata.TypeSig, error) {
	r := newSigReader(blob, names)
	sig := r.typeSig()
	if r.c.err != nil {
		return metadata.TypeSig{}, &FormatError{Where: "type spec", Err: r.c.err}
	}
	return sig, nil
}

func (r *sigReader) typeDefOrRef() string {
	coded := r.c.compressed()
	if r.c.err != nil {
		return ""
	}
	t, row := decodeCoded(cTypeDefOrRef, coded)
	return r.names.typeName(t, row)
}

func (r *sigReader) typeSig() metadata.TypeSig {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > maxSigRecursion {
		r.c.fail(fmt.Errorf("signature nested deeper than %d", maxSigRecursion))
		return metadata.TypeSig{}
	}

	b := r.c.u8()
	for b == elemCModReqd || b == elemCModOpt || b == elemPinned || b == elemSentinel {
		if b == elemCModReqd || b == elemCModOpt {
			r.typeDefOrRef()
		}
		b = r.c.u8()
	}
	if r.c.err != nil {
		return metadata.TypeSig{}
	}

	kind := metadata.ElementType(b)
	switch kind {
	case metadata.ElementVoid, metadata.ElementBoolean, metadata.ElementChar,
		metadata.ElementI1, metadata.ElementU1, metadata.ElementI2, metadata.ElementU2,
		metadata.ElementI4, metadata.ElementU4, metadata.ElementI8, metadata.ElementU8,
		metadata.ElementR4, metadata.ElementR8, metadata.ElementString, metadata.ElementObject,
		metadata.ElementI, metadata.ElementU, metadata.ElementTypedByRef:
		return metadata.Primitive(kind)
	case metadata.ElementClass, metadata.ElementValueType:
		return metadata.Named(kind, r.typeDefOrRef())
	case metadata.ElementSZArray, metadata.ElementPtr, metadata.ElementByRef:
		elem := r.typeSig()
		return metadata.TypeSig{Kind: kind, Elem: &elem}
	case metadata.ElementArray:
		elem := r.typeSig()
		r.c.compressed() // rank
		for n := r.c.compressed(); n > 0 && r.c.err == nil; n-- {
			r.c.compressed()
		}
		for n := r.c.compressed(); n > 0 && r.c.err == nil; n-- {
			r.c.compressed()
		}
		return metadata.TypeSig{Kind: kind, Elem: &elem}
	case metadata.ElementGenericInst:
		r.c.u8() // CLASS or VALUETYPE
		sig := metadata.TypeSig{Kind: kind, Name: r.typeDefOrRef()}
		for n := r.c.compressed(); n > 0 && r.c.err == nil; n-- {
			sig.Args = append(sig.Args, r.typeSig())
		}
		return sig
	case metadata.ElementVar, metadata.ElementMVar:
		n := r.c.compressed()
		prefix := "!"
		if kind == metadata.ElementMVar {
			prefix = "!!"
		}
		return metadata.TypeSig{Kind: kind, Name: fmt.Sprintf("%s%d", prefix, n)}
	case metadata.ElementFnPtr:
		conv := r.c.u8()
		if conv&sigGeneric != 0 {
			r.c.compressed()
		}
		count := r.c.compressed()
		r.typeSig()
		for ; count > 0 && r.c.err == nil; count-- {
			r.typeSig()
		}
		return metadata.Primitive(kind)
	}
	r.c.fail(fmt.Errorf("unsupported element type 0x%02x", b))
	return metadata.TypeSig{}
}
