// Where: cli/internal/domain/binding/connection.go
// What: Connection inheritance from provider attributes.
// Why: [StorageAccount]/[ServiceBusAccount] on a parameter, method, or class supplies an empty Connection.
package binding

import (
	"github.com/poruru/fnsdk/cli/internal/domain/catalog"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

const connectionProperty = "Connection"

// ApplyConnectionProvider fills an empty Connection from the nearest provider attribute,
// searching the parameter, then its method, then the declaring type.
func ApplyConnectionProvider(inst *catalog.Instance, param *metadata.Param) error {
	provider := providerName(inst)
	if provider == "" || param == nil {
		return nil
	}
	// Attributes outside the catalog only carry what the usage set, so a linked
	// provider with no explicit Connection counts as empty.
	current, ok := inst.Get(connectionProperty)
	if !ok && inst.Spec != nil {
		return nil
	}
	if s, _ := current.Str(); ok && s != "" {
		return nil
	}

	for _, attrs := range providerScopes(param) {
		attr := metadata.FindAttribute(attrs, provider)
		if attr == nil {
			continue
		}
		resolved, err := catalog.Resolve(attr)
		if err != nil {
			return err
		}
		conn := resolved.GetString(connectionProperty)
		if conn == "" {
			conn = resolved.GetString("Account")
		}
		if conn != "" {
			inst.Set(connectionProperty, metadata.StringValue(conn))
		}
		return nil
	}
	return nil
}

func providerName(inst *catalog.Instance) string {
	if inst.Spec != nil {
		return inst.Spec.ConnectionProvider
	}
	def := inst.Attribute.Definition
	if def == nil {
		return ""
	}
	marker := metadata.FindAttribute(def.Attributes, catalog.ConnectionProvAttr)
	if marker == nil || len(marker.Args) == 0 {
		return ""
	}
	full, _ := marker.Args[0].Str()
	_, simple := metadata.SplitFullName(full)
	return simple
}

func providerScopes(param *metadata.Param) [][]*metadata.Attribute {
	scopes := [][]*metadata.Attribute{param.Attributes}
	if m := param.Method; m != nil {
		scopes = append(scopes, m.Attributes)
		if m.DeclaringType != nil {
			scopes = append(scopes, m.DeclaringType.Attributes)
		}
	}
	return scopes
}
