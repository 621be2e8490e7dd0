// Where: cli/internal/domain/catalog/catalog.go
// What: Known attribute-type catalog and attribute instance resolution.
// Why: Replace runtime property reflection with declarative per-attribute tables.
package catalog

import (
	"fmt"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

// Kind is the declared shape of an attribute property.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindEnum
	KindType
	KindStringArray
	KindOther
)

// PropertySpec describes one public readable property of an attribute type.
type PropertySpec struct {
	Name     string
	Kind     Kind
	Enum     *EnumSpec
	Nullable bool
	// Default is the value of an unset property: string, int64 or bool.
	// Enum defaults name a member. Nil means the kind's zero value.
	Default any
}

// AttributeSpec describes a known attribute type.
type AttributeSpec struct {
	// Name is the simple type name, e.g. QueueTriggerAttribute.
	Name      string
	Namespace string
	// Binding marks types that carry the binding marker.
	Binding bool
	// ConnectionProvider names the provider attribute consulted for an empty Connection.
	ConnectionProvider string
	Properties         []PropertySpec
	// Constructors list the property bound to each constructor parameter.
	Constructors [][]string
}

// Property returns the property with the given name.
func (s *AttributeSpec) Property(name string) (PropertySpec, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySpec{}, false
}

// UnsupportedConstructorError reports an attribute usage whose constructor shape is not catalogued.
type UnsupportedConstructorError struct {
	Attribute string
	Params    []string
}

func (e *UnsupportedConstructorError) Error() string {
	return fmt.Sprintf("unsupported constructor %s(%s)", e.Attribute, strings.Join(e.Params, ", "))
}

// Lookup finds a known attribute by simple or full type name.
func Lookup(name string) (*AttributeSpec, bool) {
	_, simple := metadata.SplitFullName(name)
	spec, ok := known[simple]
	return spec, ok
}

// PropertyValue is the effective value of one attribute property.
type PropertyValue struct {
	Name  string
	Kind  Kind
	Enum  *EnumSpec
	Value metadata.Value
	// Object marks properties declared as System.Object.
	Object bool
}

// Instance is an attribute usage with every property resolved.
type Instance struct {
	Attribute *metadata.Attribute
	Spec      *AttributeSpec
	Values    []PropertyValue
}

// TypeName returns the attribute's simple type name.
func (i *Instance) TypeName() string {
	return i.Attribute.Name
}

// Get returns the value of a property.
func (i *Instance) Get(name string) (metadata.Value, bool) {
	for _, v := range i.Values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return metadata.Value{}, false
}

// GetString returns a string property, or "" when null or absent.
func (i *Instance) GetString(name string) string {
	v, ok := i.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.Str()
	return s
}

// Set overwrites a property value, appending it when absent.
func (i *Instance) Set(name string, value metadata.Value) {
	for idx := range i.Values {
		if i.Values[idx].Name == name {
			i.Values[idx].Value = value
			return
		}
	}
	i.Values = append(i.Values, PropertyValue{Name: name, Kind: kindOfValue(value), Value: value})
}

// Resolve applies constructor arguments, named arguments, and defaults to an attribute usage.
// Attributes outside the catalog resolve to whatever their usage states explicitly.
func Resolve(attr *metadata.Attribute) (*Instance, error) {
	spec, ok := Lookup(attr.Name)
	if !ok {
		return resolveCustom(attr), nil
	}

	inst := &Instance{Attribute: attr, Spec: spec}
	for _, p := range spec.Properties {
		inst.Values = append(inst.Values, PropertyValue{
			Name:  p.Name,
			Kind:  p.Kind,
			Enum:  p.Enum,
			Value: defaultValue(p),
		})
	}

	if len(attr.Args) > 0 {
		ctor, ok := matchConstructor(spec, attr)
		if !ok {
			return nil, &UnsupportedConstructorError{Attribute: attr.FullName(), Params: paramNames(attr)}
		}
		for idx, prop := range ctor {
			p, _ := spec.Property(prop)
			inst.Set(prop, coerce(p, attr.Args[idx]))
		}
	}

	for _, named := range attr.Named {
		if p, ok := spec.Property(named.Name); ok {
			inst.Set(named.Name, coerce(p, named.Value))
			continue
		}
		inst.Values = append(inst.Values, PropertyValue{
			Name:  named.Name,
			Kind:  kindOfValue(named.Value),
			Value: named.Value,
		})
	}
	return inst, nil
}

func resolveCustom(attr *metadata.Attribute) *Instance {
	inst := &Instance{Attribute: attr}
	for idx, arg := range attr.Args {
		if idx >= len(attr.CtorParamNames) || attr.CtorParamNames[idx] == "" {
			continue
		}
		inst.Values = append(inst.Values, PropertyValue{
			Name:   upperFirst(attr.CtorParamNames[idx]),
			Kind:   kindOfValue(arg),
			Value:  arg,
			Object: idx < len(attr.CtorParams) && attr.CtorParams[idx].Kind == metadata.ElementObject,
		})
	}
	for _, named := range attr.Named {
		if _, ok := inst.Get(named.Name); ok {
			inst.Set(named.Name, named.Value)
			continue
		}
		inst.Values = append(inst.Values, PropertyValue{
			Name:   named.Name,
			Kind:   kindOfValue(named.Value),
			Value:  named.Value,
			Object: named.Value.Kind == metadata.ElementObject,
		})
	}
	return inst
}

func matchConstructor(spec *AttributeSpec, attr *metadata.Attribute) ([]string, bool) {
	for _, ctor := range spec.Constructors {
		if len(ctor) != len(attr.Args) {
			continue
		}
		matched := true
		for idx, prop := range ctor {
			p, ok := spec.Property(prop)
			if !ok || !accepts(p, argSig(attr, idx)) {
				matched = false
				break
			}
		}
		if matched {
			return ctor, true
		}
	}
	return nil, false
}

func argSig(attr *metadata.Attribute, idx int) metadata.TypeSig {
	if idx < len(attr.CtorParams) && attr.CtorParams[idx].Kind != metadata.ElementEnd {
		return attr.CtorParams[idx]
	}
	arg := attr.Args[idx]
	if arg.Enum != "" {
		return metadata.Named(metadata.ElementValueType, arg.Enum)
	}
	return metadata.Primitive(arg.Kind)
}

func accepts(p PropertySpec, sig metadata.TypeSig) bool {
	if inner, ok := sig.NullableOf(); ok {
		sig = inner
	}
	switch p.Kind {
	case KindString:
		return sig.IsString()
	case KindType:
		return sig.IsSystemType()
	case KindStringArray:
		return sig.Kind == metadata.ElementSZArray && sig.Elem != nil && sig.Elem.IsString()
	case KindBool:
		return sig.Kind == metadata.ElementBoolean
	case KindInt:
		return sig.Kind.IsInteger()
	case KindEnum:
		if sig.Kind != metadata.ElementValueType && sig.Kind != metadata.ElementClass {
			return false
		}
		_, simple := metadata.SplitFullName(sig.Name)
		return p.Enum != nil && simple == p.Enum.Name
	}
	return false
}

func coerce(p PropertySpec, v metadata.Value) metadata.Value {
	if p.Kind == KindEnum && p.Enum != nil && !v.IsNull() {
		v.Enum = p.Enum.Name
	}
	return v
}

func defaultValue(p PropertySpec) metadata.Value {
	switch p.Kind {
	case KindInt:
		if p.Nullable && p.Default == nil {
			return metadata.Value{Kind: metadata.ElementI4}
		}
		n, _ := p.Default.(int64)
		return metadata.IntValue(n)
	case KindBool:
		if p.Nullable && p.Default == nil {
			return metadata.Value{Kind: metadata.ElementBoolean}
		}
		b, _ := p.Default.(bool)
		return metadata.BoolValue(b)
	case KindEnum:
		if p.Nullable && p.Default == nil {
			return metadata.Value{Kind: metadata.ElementI4, Enum: p.Enum.Name}
		}
		name, _ := p.Default.(string)
		v, _ := p.Enum.MemberValue(name)
		return metadata.EnumValue(p.Enum.Name, v)
	case KindString:
		if s, ok := p.Default.(string); ok {
			return metadata.StringValue(s)
		}
		return metadata.NullString()
	case KindType:
		return metadata.Value{Kind: metadata.ElementSystemType}
	case KindStringArray:
		return metadata.Value{Kind: metadata.ElementSZArray}
	}
	return metadata.Value{Kind: metadata.ElementObject}
}

func kindOfValue(v metadata.Value) Kind {
	switch {
	case v.Enum != "":
		return KindEnum
	case v.Kind == metadata.ElementString || v.Kind == metadata.ElementChar:
		return KindString
	case v.Kind == metadata.ElementBoolean:
		return KindBool
	case v.Kind.IsInteger():
		return KindInt
	case v.Kind == metadata.ElementSystemType:
		return KindType
	case v.Kind == metadata.ElementSZArray:
		return KindStringArray
	}
	return KindOther
}

func paramNames(attr *metadata.Attribute) []string {
	out := make([]string, 0, len(attr.Args))
	for idx := range attr.Args {
		out = append(out, argSig(attr, idx).String())
	}
	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
