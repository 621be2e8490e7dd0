// Where: cli/internal/infra/assembly/link.go
// What: Resolve attribute usages to their type definitions and constructor parameter names.
package assembly

import "github.com/poruru/fnsdk/cli/internal/domain/metadata"

const ctorName = ".ctor"

func linkAttributes(asm *metadata.Assembly, index map[string]*metadata.Type) {
	for _, t := range asm.Types {
		linkAll(t.Attributes, index)
		for _, m := range t.Methods {
			linkAll(m.Attributes, index)
			for _, p := range m.Params {
				linkAll(p.Attributes, index)
			}
			if m.Return != nil {
				linkAll(m.Return.Attributes, index)
			}
		}
	}
}

func linkAll(attrs []*metadata.Attribute, index map[string]*metadata.Type) {
	for _, attr := range attrs {
		if attr.Definition == nil {
			attr.Definition = index[attr.FullName()]
		}
		if attr.Definition != nil && len(attr.CtorParamNames) == 0 && len(attr.CtorParams) > 0 {
			attr.CtorParamNames = ctorParamNames(attr.Definition, attr.CtorParams)
		}
	}
}

// ctorParamNames finds the constructor whose parameter types match the usage.
func ctorParamNames(def *metadata.Type, params []metadata.TypeSig) []string {
	for _, m := range def.Methods {
		if m.Name != ctorName || len(m.Params) != len(params) {
			continue
		}
		matched := true
		for i, p := range m.Params {
			if p.Type.String() != params[i].String() {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		names := make([]string, 0, len(m.Params))
		for _, p := range m.Params {
			names = append(names, p.Name)
		}
		return names
	}
	return nil
}
