// Where: cli/internal/domain/metadata/model.go
// What: Read-only reflection model of a managed assembly.
// Why: Let the classifier and assembler inspect types, methods, and attributes without executing code.
package metadata

import "strings"

// Assembly is one loaded module with its type definitions.
type Assembly struct {
	Name  string
	Path  string
	Types []*Type
}

// Type is a type definition. Nested types keep a pointer to their encloser.
type Type struct {
	Namespace     string
	Name          string
	DeclaringType *Type
	Public        bool
	BaseType      string
	Interfaces    []string
	Attributes    []*Attribute
	Methods       []*Method
	Fields        []*Field
	Assembly      *Assembly
}

// FullName renders Namespace.Outer+Inner.
func (t *Type) FullName() string {
	if t == nil {
		return ""
	}
	if t.DeclaringType != nil {
		return t.DeclaringType.FullName() + "+" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Exported reports whether the type is visible outside its assembly.
func (t *Type) Exported() bool {
	if t == nil || !t.Public {
		return false
	}
	if t.DeclaringType != nil {
		return t.DeclaringType.Exported()
	}
	return true
}

// IsEnum reports whether the type derives from System.Enum.
func (t *Type) IsEnum() bool {
	return t != nil && t.BaseType == "System.Enum"
}

// EnumUnderlying returns the underlying element type of an enum definition.
func (t *Type) EnumUnderlying() ElementType {
	for _, f := range t.Fields {
		if !f.Static && f.Name == "value__" {
			return f.Type.Kind
		}
	}
	return ElementI4
}

// Method returns the first method with the given name.
func (t *Type) Method(name string) *Method {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Field is a field definition. Constant holds the literal value of enum members.
type Field struct {
	Name     string
	Public   bool
	Static   bool
	Type     TypeSig
	Constant any
}

// Method is a method definition.
type Method struct {
	Name          string
	DeclaringType *Type
	Public        bool
	Static        bool
	Params        []*Param
	Return        *Param
	Attributes    []*Attribute
}

// FullName renders Namespace.Type.Method.
func (m *Method) FullName() string {
	return m.DeclaringType.FullName() + "." + m.Name
}

// Param is a method parameter. Position is zero-based; the return value uses -1.
type Param struct {
	Name       string
	Position   int
	Type       TypeSig
	Attributes []*Attribute
	Method     *Method
}

// ReturnParam builds the pseudo parameter that carries return-value attributes.
func ReturnParam(m *Method, sig TypeSig, attrs []*Attribute) *Param {
	return &Param{Position: -1, Type: sig, Attributes: attrs, Method: m}
}

// Attribute is one decoded custom attribute instance.
type Attribute struct {
	Namespace string
	Name      string
	// CtorParams are the declared parameter types of the constructor that was used.
	CtorParams []TypeSig
	// CtorParamNames are known only when the constructor definition was resolved.
	CtorParamNames []string
	Args           []Value
	Named          []NamedArg
	// Definition is the attribute's type definition when it could be resolved.
	Definition *Type
}

// FullName renders Namespace.Name.
func (a *Attribute) FullName() string {
	if a.Namespace == "" {
		return a.Name
	}
	return a.Namespace + "." + a.Name
}

// NamedArg is a field or property assignment in an attribute usage.
type NamedArg struct {
	Field bool
	Name  string
	Value Value
}

// FindAttribute returns the first attribute with the given simple type name.
func FindAttribute(attrs []*Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// HasAttribute reports whether any attribute has the given simple type name.
func HasAttribute(attrs []*Attribute, name string) bool {
	return FindAttribute(attrs, name) != nil
}

// SplitFullName splits "Ns.Sub.Name" into namespace and name.
func SplitFullName(full string) (string, string) {
	idx := strings.LastIndex(full, ".")
	if idx < 0 {
		return "", full
	}
	return full[:idx], full[idx+1:]
}
