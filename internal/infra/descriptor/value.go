// Where: cli/internal/infra/descriptor/value.go
// What: Attribute argument values in descriptor documents.
// Why: Scalars map to their natural types; objects spell out enums, type references, and typed nulls.
package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/poruru/fnsdk/cli/internal/domain/catalog"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

// ValueDoc is one attribute argument.
//
//	"text"                          string
//	true / 42                       bool / int
//	null                            null string
//	[a, b]                          array
//	{enum: FileAccess, member: Read} enum member (or value: 1)
//	{type: Contoso.Provider}        typeof(...)
//	{null: type}                    typed null (string, type, array)
type ValueDoc struct {
	metadata.Value
}

type valueObject struct {
	Enum   string  `json:"enum"`
	Member string  `json:"member"`
	Value  *int64  `json:"value"`
	Type   *string `json:"type"`
	Null   string  `json:"null"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *ValueDoc) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty value")
	}
	switch data[0] {
	case 'n':
		v.Value = metadata.NullString()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v.Value = metadata.StringValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		v.Value = metadata.BoolValue(b)
		return nil
	case '[':
		var items []ValueDoc
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		values := make([]metadata.Value, 0, len(items))
		for _, item := range items {
			values = append(values, item.Value)
		}
		v.Value = metadata.ArrayValue(values...)
		return nil
	case '{':
		return v.unmarshalObject(data)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unsupported value %s: %w", data, err)
	}
	v.Value = metadata.IntValue(n)
	return nil
}

func (v *ValueDoc) unmarshalObject(data []byte) error {
	var obj valueObject
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&obj); err != nil {
		return err
	}
	switch {
	case obj.Enum != "":
		if obj.Value != nil {
			v.Value = metadata.EnumValue(obj.Enum, *obj.Value)
			return nil
		}
		spec, ok := catalog.LookupEnum(obj.Enum)
		if !ok {
			return fmt.Errorf("enum %s is not known; give a numeric value", obj.Enum)
		}
		n, ok := spec.MemberValue(obj.Member)
		if !ok {
			return fmt.Errorf("enum %s has no member %q", obj.Enum, obj.Member)
		}
		v.Value = metadata.EnumValue(obj.Enum, n)
	case obj.Type != nil:
		v.Value = metadata.TypeValue(*obj.Type)
	case obj.Null != "":
		switch obj.Null {
		case "string":
			v.Value = metadata.NullString()
		case "type":
			v.Value = metadata.Value{Kind: metadata.ElementSystemType}
		case "array":
			v.Value = metadata.Value{Kind: metadata.ElementSZArray}
		default:
			return fmt.Errorf("unsupported null kind %q", obj.Null)
		}
	default:
		return fmt.Errorf("value object needs enum, type or null")
	}
	return nil
}
