// Where: cli/internal/domain/binding/binding.go
// What: Binding record with an insertion-ordered property bag.
// Why: function.json keys must come out in a stable order for idempotent output.
package binding

import (
	"bytes"
	"encoding/json"
)

// Direction is the data flow of a binding.
type Direction string

const (
	In    Direction = "in"
	Out   Direction = "out"
	InOut Direction = "inout"
)

// ReturnName is the binding name used for return-value bindings.
const ReturnName = "$return"

// Property is one extra key of a binding.
type Property struct {
	Key   string
	Value any
}

// Properties keeps keys in insertion order.
type Properties []Property

// Set overwrites key in place or appends it.
func (p *Properties) Set(key string, value any) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p Properties) Get(key string) (any, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return nil, false
}

// Delete removes key if present.
func (p *Properties) Delete(key string) {
	out := (*p)[:0]
	for _, prop := range *p {
		if prop.Key != key {
			out = append(out, prop)
		}
	}
	*p = out
}

// Binding is one input or output channel of a function.
type Binding struct {
	Type       string
	Name       string
	Direction  Direction
	Properties Properties
}

// MarshalJSON writes type, name, direction, then the extra properties in order.
func (b Binding) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		encoded, err := EncodeJSON(value)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := EncodeJSON(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	if err := write("type", b.Type); err != nil {
		return nil, err
	}
	if b.Name != "" {
		if err := write("name", b.Name); err != nil {
			return nil, err
		}
	}
	if err := write("direction", string(b.Direction)); err != nil {
		return nil, err
	}
	for _, prop := range b.Properties {
		if err := write(prop.Key, prop.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StringProperty returns a string-valued extra property.
func (b Binding) StringProperty(key string) (string, bool) {
	v, ok := b.Properties.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// EncodeJSON marshals without HTML escaping.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
