// Where: cli/internal/domain/binding/classify.go
// What: Attribute classifier for the binding vocabulary.
// Why: Decide which decorations become bindings and what they are called.
package binding

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poruru/fnsdk/cli/internal/domain/catalog"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

const attributeSuffix = "Attribute"

// FriendlyName turns BlobTriggerAttribute into blobTrigger.
func FriendlyName(typeName string) string {
	_, simple := metadata.SplitFullName(typeName)
	return LowerFirst(strings.TrimSuffix(simple, attributeSuffix))
}

// IsTrigger reports whether a friendly name denotes a trigger binding.
func IsTrigger(friendlyName string) bool {
	return strings.Contains(friendlyName, "Trigger")
}

// IsBindingAttribute reports whether an attribute belongs to the binding vocabulary:
// its type carries the binding marker or its name is on the legacy list.
func IsBindingAttribute(attr *metadata.Attribute) bool {
	if attr == nil {
		return false
	}
	if _, ok := catalog.LegacyBindings[attr.Name]; ok {
		return true
	}
	if spec, ok := catalog.Lookup(attr.Name); ok && spec.Binding {
		return true
	}
	if attr.Definition != nil {
		return metadata.HasAttribute(attr.Definition.Attributes, catalog.BindingMarkerAttr)
	}
	return false
}

// IsTriggerAttribute reports whether an attribute is a trigger binding.
func IsTriggerAttribute(attr *metadata.Attribute) bool {
	return IsBindingAttribute(attr) && IsTrigger(FriendlyName(attr.Name))
}

// Attributes filters the binding attributes of a parameter or return value.
func Attributes(attrs []*metadata.Attribute) []*metadata.Attribute {
	var out []*metadata.Attribute
	for _, a := range attrs {
		if IsBindingAttribute(a) {
			out = append(out, a)
		}
	}
	return out
}

// HasTriggerParam reports whether any parameter carries a trigger attribute.
func HasTriggerParam(m *metadata.Method) bool {
	for _, p := range m.Params {
		for _, a := range p.Attributes {
			if IsTriggerAttribute(a) {
				return true
			}
		}
	}
	return false
}

// HasBindingParam reports whether any parameter carries a binding attribute.
func HasBindingParam(m *metadata.Method) bool {
	for _, p := range m.Params {
		if len(Attributes(p.Attributes)) > 0 {
			return true
		}
	}
	return false
}

// LowerFirst lowercases only the first character.
func LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
