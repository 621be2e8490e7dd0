// Where: cli/internal/domain/metadata/build.go
// What: Constructors that wire model back-pointers.
// Why: Readers and fixtures build the same linked graph without repeating pointer bookkeeping.
package metadata

// NewAttribute builds an attribute usage; constructor parameter types are taken from the arguments.
func NewAttribute(fullName string, args ...Value) *Attribute {
	ns, name := SplitFullName(fullName)
	params := make([]TypeSig, 0, len(args))
	for _, a := range args {
		params = append(params, sigForValue(a))
	}
	return &Attribute{Namespace: ns, Name: name, CtorParams: params, Args: args}
}

// WithProperty appends a named property assignment.
func (a *Attribute) WithProperty(name string, v Value) *Attribute {
	a.Named = append(a.Named, NamedArg{Name: name, Value: v})
	return a
}

// WithField appends a named field assignment.
func (a *Attribute) WithField(name string, v Value) *Attribute {
	a.Named = append(a.Named, NamedArg{Field: true, Name: name, Value: v})
	return a
}

func sigForValue(v Value) TypeSig {
	if v.Enum != "" {
		return Named(ElementValueType, v.Enum)
	}
	switch v.Kind {
	case ElementSystemType:
		return Named(ElementClass, "System.Type")
	case ElementSZArray:
		elem := Primitive(ElementString)
		if items, ok := v.Data.([]Value); ok && len(items) > 0 {
			elem = sigForValue(items[0])
		}
		return TypeSig{Kind: ElementSZArray, Elem: &elem}
	}
	return Primitive(v.Kind)
}

// NewType builds a top-level public type in the given assembly.
func NewType(asm *Assembly, fullName string, attrs ...*Attribute) *Type {
	ns, name := SplitFullName(fullName)
	t := &Type{Namespace: ns, Name: name, Public: true, BaseType: "System.Object", Attributes: attrs, Assembly: asm}
	if asm != nil {
		asm.Types = append(asm.Types, t)
	}
	return t
}

// NewNestedType builds a public type nested in outer.
func NewNestedType(outer *Type, name string, attrs ...*Attribute) *Type {
	t := &Type{Name: name, DeclaringType: outer, Public: true, BaseType: "System.Object", Attributes: attrs, Assembly: outer.Assembly}
	if outer.Assembly != nil {
		outer.Assembly.Types = append(outer.Assembly.Types, t)
	}
	return t
}

// AddMethod appends a public static method and links its parameters.
func (t *Type) AddMethod(name string, attrs []*Attribute, params ...*Param) *Method {
	m := &Method{Name: name, DeclaringType: t, Public: true, Static: true, Attributes: attrs}
	for i, p := range params {
		p.Position = i
		p.Method = m
	}
	m.Params = params
	m.Return = ReturnParam(m, Primitive(ElementVoid), nil)
	t.Methods = append(t.Methods, m)
	return m
}

// WithReturn sets the return type and return-value attributes.
func (m *Method) WithReturn(sig TypeSig, attrs ...*Attribute) *Method {
	m.Return = ReturnParam(m, sig, attrs)
	return m
}

// NewParam builds a parameter; position and owner are set by AddMethod.
func NewParam(name string, sig TypeSig, attrs ...*Attribute) *Param {
	return &Param{Name: name, Type: sig, Attributes: attrs}
}
