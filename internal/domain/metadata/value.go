// Where: cli/internal/domain/metadata/value.go
// What: Type signatures and decoded constant values.
// Why: Carry attribute arguments with enough type information to normalize them later.
package metadata

import (
	"fmt"
	"strings"
)

// ElementType mirrors the ECMA-335 element type codes.
type ElementType byte

const (
	ElementEnd         ElementType = 0x00
	ElementVoid        ElementType = 0x01
	ElementBoolean     ElementType = 0x02
	ElementChar        ElementType = 0x03
	ElementI1          ElementType = 0x04
	ElementU1          ElementType = 0x05
	ElementI2          ElementType = 0x06
	ElementU2          ElementType = 0x07
	ElementI4          ElementType = 0x08
	ElementU4          ElementType = 0x09
	ElementI8          ElementType = 0x0a
	ElementU8          ElementType = 0x0b
	ElementR4          ElementType = 0x0c
	ElementR8          ElementType = 0x0d
	ElementString      ElementType = 0x0e
	ElementPtr         ElementType = 0x0f
	ElementByRef       ElementType = 0x10
	ElementValueType   ElementType = 0x11
	ElementClass       ElementType = 0x12
	ElementVar         ElementType = 0x13
	ElementArray       ElementType = 0x14
	ElementGenericInst ElementType = 0x15
	ElementTypedByRef  ElementType = 0x16
	ElementI           ElementType = 0x18
	ElementU           ElementType = 0x19
	ElementFnPtr       ElementType = 0x1b
	ElementObject      ElementType = 0x1c
	ElementSZArray     ElementType = 0x1d
	ElementMVar        ElementType = 0x1e

	// Custom attribute blob only.
	ElementSystemType ElementType = 0x50
	ElementBoxed      ElementType = 0x51
	ElementEnum       ElementType = 0x55
)

// IsInteger reports whether the element type is an integral primitive.
func (e ElementType) IsInteger() bool {
	switch e {
	case ElementI1, ElementU1, ElementI2, ElementU2, ElementI4, ElementU4, ElementI8, ElementU8:
		return true
	}
	return false
}

// TypeSig is a decoded type signature.
type TypeSig struct {
	Kind ElementType
	// Name is the full type name for Class, ValueType and GenericInst.
	Name string
	Args []TypeSig
	Elem *TypeSig
}

// Primitive builds a signature for a primitive element type.
func Primitive(kind ElementType) TypeSig {
	return TypeSig{Kind: kind}
}

// Named builds a class or value type signature.
func Named(kind ElementType, fullName string) TypeSig {
	return TypeSig{Kind: kind, Name: fullName}
}

// IsString reports whether the signature is System.String.
func (s TypeSig) IsString() bool {
	return s.Kind == ElementString || (s.Kind == ElementClass && s.Name == "System.String")
}

// IsSystemType reports whether the signature is System.Type.
func (s TypeSig) IsSystemType() bool {
	return s.Kind == ElementSystemType || (s.Kind == ElementClass && s.Name == "System.Type")
}

// NullableOf returns T for System.Nullable<T>.
func (s TypeSig) NullableOf() (TypeSig, bool) {
	if s.Kind == ElementGenericInst && s.Name == "System.Nullable`1" && len(s.Args) == 1 {
		return s.Args[0], true
	}
	return TypeSig{}, false
}

func (s TypeSig) String() string {
	switch s.Kind {
	case ElementClass, ElementValueType:
		return s.Name
	case ElementGenericInst:
		args := make([]string, 0, len(s.Args))
		for _, a := range s.Args {
			args = append(args, a.String())
		}
		return fmt.Sprintf("%s<%s>", s.Name, strings.Join(args, ","))
	case ElementSZArray:
		if s.Elem != nil {
			return s.Elem.String() + "[]"
		}
		return "[]"
	case ElementByRef:
		if s.Elem != nil {
			return s.Elem.String() + "&"
		}
	case ElementPtr:
		if s.Elem != nil {
			return s.Elem.String() + "*"
		}
	}
	if name, ok := primitiveNames[s.Kind]; ok {
		return name
	}
	return fmt.Sprintf("element(0x%02x)", byte(s.Kind))
}

var primitiveNames = map[ElementType]string{
	ElementVoid:       "System.Void",
	ElementBoolean:    "System.Boolean",
	ElementChar:       "System.Char",
	ElementI1:         "System.SByte",
	ElementU1:         "System.Byte",
	ElementI2:         "System.Int16",
	ElementU2:         "System.UInt16",
	ElementI4:         "System.Int32",
	ElementU4:         "System.UInt32",
	ElementI8:         "System.Int64",
	ElementU8:         "System.UInt64",
	ElementR4:         "System.Single",
	ElementR8:         "System.Double",
	ElementString:     "System.String",
	ElementObject:     "System.Object",
	ElementI:          "System.IntPtr",
	ElementU:          "System.UIntPtr",
	ElementTypedByRef: "System.TypedReference",
	ElementSystemType: "System.Type",
}

// Value is a decoded attribute argument.
//
// Data holds bool, int64 (all integers and enums), float64, string (strings,
// chars and type names), []Value (arrays) or nil for null references.
type Value struct {
	Kind ElementType
	// Enum is the enum type name when the value is an enum member.
	Enum string
	Data any
}

// IsNull reports whether the value is a null reference.
func (v Value) IsNull() bool {
	return v.Data == nil
}

// Int returns the integer payload.
func (v Value) Int() (int64, bool) {
	n, ok := v.Data.(int64)
	return n, ok
}

// Str returns the string payload.
func (v Value) Str() (string, bool) {
	s, ok := v.Data.(string)
	return s, ok
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	b, ok := v.Data.(bool)
	return b, ok
}

// StringValue builds a string argument.
func StringValue(s string) Value {
	return Value{Kind: ElementString, Data: s}
}

// NullString builds a null string argument.
func NullString() Value {
	return Value{Kind: ElementString}
}

// IntValue builds an int32 argument.
func IntValue(n int64) Value {
	return Value{Kind: ElementI4, Data: n}
}

// BoolValue builds a boolean argument.
func BoolValue(b bool) Value {
	return Value{Kind: ElementBoolean, Data: b}
}

// EnumValue builds an enum argument with an int32 underlying type.
func EnumValue(enum string, n int64) Value {
	return Value{Kind: ElementI4, Enum: enum, Data: n}
}

// TypeValue builds a System.Type argument naming the given type.
func TypeValue(fullName string) Value {
	return Value{Kind: ElementSystemType, Data: fullName}
}

// ArrayValue builds a single-dimensional array argument.
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: ElementSZArray, Data: items}
}

// Native converts the value into a JSON-friendly Go value.
func (v Value) Native() any {
	switch data := v.Data.(type) {
	case []Value:
		out := make([]any, 0, len(data))
		for _, item := range data {
			out = append(out, item.Native())
		}
		return out
	default:
		return data
	}
}
