// Where: cli/internal/domain/binding/bind.go
// What: Parameter-level entry point combining resolution, inheritance, and normalization.
package binding

import (
	"fmt"

	"github.com/poruru/fnsdk/cli/internal/domain/catalog"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

// FromParam normalizes every binding attribute on a parameter (or return value).
// name is attached to each record; pass ReturnName for return values.
func FromParam(param *metadata.Param, name string) ([]*Binding, error) {
	var out []*Binding
	for _, attr := range Attributes(param.Attributes) {
		inst, err := catalog.Resolve(attr)
		if err != nil {
			return nil, err
		}
		if err := ApplyConnectionProvider(inst, param); err != nil {
			return nil, fmt.Errorf("resolve connection for %s: %w", attr.Name, err)
		}
		b, err := Normalize(inst)
		if err != nil {
			return nil, err
		}
		b.Name = name
		out = append(out, b)
	}
	return out, nil
}
