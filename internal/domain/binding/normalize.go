// Where: cli/internal/domain/binding/normalize.go
// What: Binding normalizer from resolved attribute instances to binding records.
// Why: Apply key canonicalization, enum rendering, and direction rules in one place.
package binding

import (
	"fmt"

	"github.com/poruru/fnsdk/cli/internal/domain/catalog"
	"github.com/poruru/fnsdk/cli/internal/domain/metadata"
)

// UnsupportedPropertyError reports a property value the host format cannot represent.
type UnsupportedPropertyError struct {
	Attribute string
	Property  string
}

func (e *UnsupportedPropertyError) Error() string {
	return fmt.Sprintf("property '%s' on '%s' is not supported", e.Property, e.Attribute)
}

type keyRule struct {
	attrs []string
	prop  string
	key   string
}

var keyRules = []keyRule{
	{attrs: []string{"BlobAttribute", "BlobTriggerAttribute"}, prop: "BlobPath", key: "path"},
	{attrs: []string{"MobileTableAttribute"}, prop: "MobileAppUriSetting", key: "connection"},
	{attrs: []string{"MobileTableAttribute"}, prop: "ApiKeySetting", key: "apiKey"},
	{attrs: []string{"NotificationHubAttribute", "DocumentDBAttribute"}, prop: "ConnectionStringSetting", key: "connection"},
	{attrs: []string{"TwilioSmsAttribute"}, prop: "AccountSidSetting", key: "accountSid"},
	{attrs: []string{"TwilioSmsAttribute"}, prop: "AuthTokenSetting", key: "authToken"},
	{attrs: []string{"TimerTriggerAttribute"}, prop: "ScheduleExpression", key: "schedule"},
	{attrs: []string{"EventHubAttribute", "EventHubTriggerAttribute"}, prop: "EventHubName", key: "path"},
	{attrs: []string{"ServiceBusAttribute", "ServiceBusTriggerAttribute"}, prop: "Access", key: "accessRights"},
}

var canonicalKeys = buildKeyIndex(keyRules)

func buildKeyIndex(rules []keyRule) map[string]string {
	out := map[string]string{}
	for _, r := range rules {
		for _, a := range r.attrs {
			out[a+"."+r.prop] = r.key
		}
	}
	return out
}

// CanonicalKey maps an attribute property to its function.json key.
func CanonicalKey(attrName, prop string) string {
	if key, ok := canonicalKeys[attrName+"."+prop]; ok {
		return key
	}
	return LowerFirst(prop)
}

// Normalize converts a resolved attribute instance into a binding record.
func Normalize(inst *catalog.Instance) (*Binding, error) {
	attrName := inst.TypeName()
	b := &Binding{Type: FriendlyName(attrName), Direction: Out}
	if IsTrigger(b.Type) {
		b.Direction = In
	}

	if attrName == "TimerTriggerAttribute" {
		if v, ok := inst.Get("ScheduleType"); ok && !v.IsNull() {
			return nil, &UnsupportedPropertyError{Attribute: attrName, Property: "ScheduleType"}
		}
	}

	for _, pv := range inst.Values {
		if pv.Object || skipValue(pv.Value) {
			continue
		}
		value := pv.Value.Native()
		if enum := enumOf(pv); enum != nil {
			n, _ := pv.Value.Int()
			switch enum.Role {
			case catalog.EnumFileAccess:
				if dir, ok := fileAccessDirection(enum, n); ok {
					b.Direction = dir
				}
				continue
			case catalog.EnumEntityType:
				continue
			case catalog.EnumRendered:
				if name, ok := enum.MemberName(n); ok {
					value = LowerFirst(name)
				}
			}
		}
		b.Properties.Set(keyFor(inst, pv.Name), value)
	}
	return b, nil
}

// skipValue drops null references and integer zeros; enum zeros are real members.
func skipValue(v metadata.Value) bool {
	if v.IsNull() {
		return true
	}
	if v.Enum == "" && v.Kind.IsInteger() {
		n, _ := v.Int()
		return n == 0
	}
	return false
}

func enumOf(pv catalog.PropertyValue) *catalog.EnumSpec {
	if pv.Enum != nil {
		return pv.Enum
	}
	if pv.Value.Enum == "" {
		return nil
	}
	enum, _ := catalog.LookupEnum(pv.Value.Enum)
	return enum
}

func fileAccessDirection(enum *catalog.EnumSpec, n int64) (Direction, bool) {
	name, ok := enum.MemberName(n)
	if !ok {
		return "", false
	}
	switch name {
	case "Read":
		return In, true
	case "Write":
		return Out, true
	case "ReadWrite":
		return InOut, true
	}
	return "", false
}

func keyFor(inst *catalog.Instance, prop string) string {
	attrName := inst.TypeName()
	if attrName == "ServiceBusAttribute" && prop == "QueueOrTopicName" {
		v, _ := inst.Get("EntityType")
		n, _ := v.Int()
		if name, _ := catalog.EntityType.MemberName(n); name == "Topic" {
			return "topicName"
		}
		return "queueName"
	}
	return CanonicalKey(attrName, prop)
}
