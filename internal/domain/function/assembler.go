// Where: cli/internal/domain/function/assembler.go
// What: Function assembler producing one schema per eligible method.
// Why: Collect parameter and return bindings and apply the cross-binding fixups.
package function

import (
	"github.com/poruru/fnsdk/cli/internal/domain/binding"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
	"github.com/poruru/fnsdk/cli/internal/meta"
)

const (
	httpTriggerType   = "httpTrigger"
	manualTriggerType = "manualTrigger"
	webHookTypeKey    = "webHookType"
	authLevelKey      = "authLevel"
)

// Schema is the function.json document. Field order is the key order on disk.
type Schema struct {
	Bindings            []*binding.Binding `json:"bindings"`
	Disabled            Disabled           `json:"disabled"`
	ScriptFile          string             `json:"scriptFile"`
	EntryPoint          string             `json:"entryPoint"`
	ConfigurationSource string             `json:"configurationSource"`
	GeneratedBy         string             `json:"generatedBy"`
}

// HasTrigger reports whether any binding has the given trigger type.
func (s *Schema) HasTrigger(bindingType string) bool {
	for _, b := range s.Bindings {
		if b.Type == bindingType {
			return true
		}
	}
	return false
}

// Assembler builds schemas for eligible methods.
type Assembler struct {
	Types       TypeResolver
	GeneratedBy string
}

// Assemble builds the schema of an eligible method.
func (a Assembler) Assemble(m *metadata.Method, scriptFile string) (*Schema, error) {
	if !IsEligible(m) {
		return nil, ErrNotFunction
	}

	var params []*binding.Binding
	if HasNoAutomaticTrigger(m) {
		params = append(params, manualTrigger(m))
	} else {
		for _, p := range m.Params {
			bs, err := binding.FromParam(p, p.Name)
			if err != nil {
				return nil, err
			}
			params = append(params, bs...)
		}
	}

	var returns []*binding.Binding
	if m.Return != nil {
		bs, err := binding.FromParam(m.Return, binding.ReturnName)
		if err != nil {
			return nil, err
		}
		returns = bs
	}

	if len(returns) == 0 && hasType(params, httpTriggerType) {
		returns = append(returns, &binding.Binding{Type: "http", Name: binding.ReturnName, Direction: binding.Out})
	}
	for _, b := range params {
		if b.Type != httpTriggerType {
			continue
		}
		if _, ok := b.Properties.Get(webHookTypeKey); ok {
			b.Properties.Delete(authLevelKey)
		}
	}

	disabled, err := ResolveDisabled(m, a.Types)
	if err != nil {
		return nil, err
	}

	return &Schema{
		Bindings:            append(params, returns...),
		Disabled:            disabled,
		ScriptFile:          scriptFile,
		EntryPoint:          m.FullName(),
		ConfigurationSource: meta.ConfigurationSource,
		GeneratedBy:         a.GeneratedBy,
	}, nil
}

func manualTrigger(m *metadata.Method) *binding.Binding {
	b := &binding.Binding{Type: manualTriggerType, Direction: binding.In}
	for _, p := range m.Params {
		if p.Type.IsString() {
			b.Name = p.Name
			break
		}
	}
	return b
}

func hasType(bs []*binding.Binding, bindingType string) bool {
	for _, b := range bs {
		if b.Type == bindingType {
			return true
		}
	}
	return false
}
