// Where: cli/internal/domain/catalog/enums.go
// What: Enum definitions referenced by known attribute properties.
// Why: Attribute blobs only carry numeric enum values; rendering needs the member names.
package catalog

import "github.com/poruru/fnsdk/cli/internal/domain/metadata"

// EnumRole controls how an enum-valued property is normalized.
type EnumRole int

const (
	// EnumNumeric values are emitted as their integer value.
	EnumNumeric EnumRole = iota
	// EnumFileAccess values pick the binding direction and are not emitted.
	EnumFileAccess
	// EnumRendered values are emitted as lowercase-first member names.
	EnumRendered
	// EnumEntityType values select the key of a sibling property and are not emitted.
	EnumEntityType
)

// EnumMember is one named enum constant.
type EnumMember struct {
	Name  string
	Value int64
}

// EnumSpec describes an enum type by simple name.
type EnumSpec struct {
	Name    string
	Role    EnumRole
	Members []EnumMember
}

// MemberName returns the member name for a value.
func (e *EnumSpec) MemberName(v int64) (string, bool) {
	for _, m := range e.Members {
		if m.Value == v {
			return m.Name, true
		}
	}
	return "", false
}

// MemberValue returns the value of a named member.
func (e *EnumSpec) MemberValue(name string) (int64, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Value builds a metadata value for a named member.
func (e *EnumSpec) Value(name string) metadata.Value {
	v, _ := e.MemberValue(name)
	return metadata.EnumValue(e.Name, v)
}

var (
	FileAccess = &EnumSpec{
		Name: "FileAccess",
		Role: EnumFileAccess,
		Members: []EnumMember{
			{Name: "Read", Value: 1},
			{Name: "Write", Value: 2},
			{Name: "ReadWrite", Value: 3},
		},
	}
	AccessRights = &EnumSpec{
		Name: "AccessRights",
		Role: EnumRendered,
		Members: []EnumMember{
			{Name: "Manage", Value: 0},
			{Name: "Send", Value: 1},
			{Name: "Listen", Value: 2},
		},
	}
	AuthorizationLevel = &EnumSpec{
		Name: "AuthorizationLevel",
		Role: EnumRendered,
		Members: []EnumMember{
			{Name: "Anonymous", Value: 0},
			{Name: "User", Value: 1},
			{Name: "Function", Value: 2},
			{Name: "System", Value: 3},
			{Name: "Admin", Value: 4},
		},
	}
	EntityType = &EnumSpec{
		Name: "EntityType",
		Role: EnumEntityType,
		Members: []EnumMember{
			{Name: "Queue", Value: 0},
			{Name: "Topic", Value: 1},
		},
	}
	NotificationPlatform = &EnumSpec{
		Name: "NotificationPlatform",
		Role: EnumNumeric,
		Members: []EnumMember{
			{Name: "Adm", Value: 1},
			{Name: "Apns", Value: 2},
			{Name: "Gcm", Value: 4},
			{Name: "Mpns", Value: 8},
			{Name: "Wns", Value: 16},
		},
	}
)

var enums = map[string]*EnumSpec{
	FileAccess.Name:           FileAccess,
	AccessRights.Name:         AccessRights,
	AuthorizationLevel.Name:   AuthorizationLevel,
	EntityType.Name:           EntityType,
	NotificationPlatform.Name: NotificationPlatform,
}

// LookupEnum finds an enum by full or simple type name.
func LookupEnum(name string) (*EnumSpec, bool) {
	_, simple := metadata.SplitFullName(name)
	e, ok := enums[simple]
	return e, ok
}
