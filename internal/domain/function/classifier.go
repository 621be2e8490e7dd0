// Where: cli/internal/domain/function/classifier.go
// What: Function classifier: eligibility, name, and disabled resolution.
// Why: Decide which methods become functions before any binding is built.
package function

import (
	"errors"
	"fmt"
	"strings"

	"github.com/poruru/fnsdk/cli/internal/domain/binding"
	"github.com/poruru/fnsdk/cli/internal/domain/catalog"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

// ErrNotFunction is returned when a name is requested for a method that is not a function.
var ErrNotFunction = errors.New("method is not a function")

// UnsupportedAttributeError reports attribute usage the generator refuses to translate.
type UnsupportedAttributeError struct {
	Method string
	Reason string
}

func (e *UnsupportedAttributeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Reason)
}

// TypeResolver finds type definitions across the loaded assemblies.
type TypeResolver interface {
	ResolveType(fullName string) *metadata.Type
}

// HasFunctionName reports whether the method carries the FunctionName marker.
func HasFunctionName(m *metadata.Method) bool {
	return metadata.HasAttribute(m.Attributes, catalog.FunctionNameAttr)
}

// HasNoAutomaticTrigger reports whether the method opts out of automatic triggering.
func HasNoAutomaticTrigger(m *metadata.Method) bool {
	return metadata.HasAttribute(m.Attributes, catalog.NoAutoTriggerAttr)
}

// IsEligible reports whether the method is a function: it is named and has
// exactly one of a trigger parameter or the NoAutomaticTrigger marker.
func IsEligible(m *metadata.Method) bool {
	if m == nil || !HasFunctionName(m) {
		return false
	}
	return binding.HasTriggerParam(m) != HasNoAutomaticTrigger(m)
}

// Name returns the function name from the FunctionName marker.
func Name(m *metadata.Method) (string, error) {
	attr := metadata.FindAttribute(m.Attributes, catalog.FunctionNameAttr)
	if attr == nil || len(attr.Args) == 0 {
		return "", fmt.Errorf("%s: %w", m.FullName(), ErrNotFunction)
	}
	name, ok := attr.Args[0].Str()
	if !ok || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%s: FunctionName requires a non-empty name: %w", m.FullName(), ErrNotFunction)
	}
	return name, nil
}

// InvalidNameError rejects function names that cannot be used as a single directory name.
type InvalidNameError struct {
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("Function name '%s' is not valid. A function name must not contain path separators or be '.' or '..'.", e.Name)
}

// ValidateName checks that name maps to exactly one directory under the output root.
func ValidateName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return &InvalidNameError{Name: name}
	}
	return nil
}

// Disabled is false, true, or an app-setting/provider name evaluated by the host.
type Disabled struct {
	Set     bool
	Setting string
}

// IsDisabled reports whether any form of disabling is configured.
func (d Disabled) IsDisabled() bool {
	return d.Set || d.Setting != ""
}

// MarshalJSON emits a bool or a string.
func (d Disabled) MarshalJSON() ([]byte, error) {
	if d.Setting != "" {
		return binding.EncodeJSON(d.Setting)
	}
	if d.Set {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

// ResolveDisabled walks first parameter, then method, then declaring type for a Disable marker.
func ResolveDisabled(m *metadata.Method, types TypeResolver) (Disabled, error) {
	attr := findDisable(m)
	if attr == nil {
		return Disabled{}, nil
	}
	if len(attr.Args) == 0 {
		return Disabled{Set: true}, nil
	}

	arg := attr.Args[0]
	if arg.Kind == metadata.ElementSystemType {
		return resolveProviderType(m, arg, types)
	}
	setting, ok := arg.Str()
	if !ok || setting == "" {
		return Disabled{Set: true}, nil
	}
	if strings.HasPrefix(setting, "%") && strings.HasSuffix(setting, "%") {
		return Disabled{}, &UnsupportedAttributeError{
			Method: m.FullName(),
			Reason: "'%' expressions are not supported for 'Disable'. Use 'Disable(\"settingName\")' instead of 'Disable(\"%settingName%\")'",
		}
	}
	return Disabled{Setting: setting}, nil
}

// CheckSupported returns the first unsupported attribute usage on the method, if any.
func CheckSupported(m *metadata.Method, types TypeResolver) error {
	_, err := ResolveDisabled(m, types)
	return err
}

func findDisable(m *metadata.Method) *metadata.Attribute {
	for _, p := range m.Params {
		if attr := metadata.FindAttribute(p.Attributes, catalog.DisableAttr); attr != nil {
			return attr
		}
	}
	if attr := metadata.FindAttribute(m.Attributes, catalog.DisableAttr); attr != nil {
		return attr
	}
	if m.DeclaringType != nil {
		return metadata.FindAttribute(m.DeclaringType.Attributes, catalog.DisableAttr)
	}
	return nil
}

func resolveProviderType(m *metadata.Method, arg metadata.Value, types TypeResolver) (Disabled, error) {
	name, _ := arg.Str()
	unsupported := func(reason string) (Disabled, error) {
		return Disabled{}, &UnsupportedAttributeError{
			Method: m.FullName(),
			Reason: fmt.Sprintf("the constructor 'DisableAttribute(Type)' with '%s' is not supported: %s", name, reason),
		}
	}
	if name == "" {
		return unsupported("provider type is null")
	}
	if types == nil {
		return unsupported("provider type cannot be resolved")
	}
	provider := types.ResolveType(name)
	if provider == nil {
		return unsupported("provider type cannot be resolved")
	}
	if !hasIsDisabled(provider) {
		return unsupported("provider type must declare 'public static bool IsDisabled(MethodInfo)'")
	}
	return Disabled{Setting: provider.FullName()}, nil
}

func hasIsDisabled(t *metadata.Type) bool {
	for _, candidate := range t.Methods {
		if candidate.Name != "IsDisabled" || !candidate.Public || !candidate.Static {
			continue
		}
		if candidate.Return == nil || candidate.Return.Type.Kind != metadata.ElementBoolean {
			continue
		}
		if len(candidate.Params) != 1 {
			continue
		}
		if candidate.Params[0].Type.Name == "System.Reflection.MethodInfo" {
			return true
		}
	}
	return false
}
