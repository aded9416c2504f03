package enums

import "fmt"

// ActorKind identifies which principal type owns an auth token.
type ActorKind string

const (
	ActorKindUser   ActorKind = "user"
	ActorKindVendor ActorKind = "vendor"
)

var validActorKinds = []ActorKind{
	ActorKindUser,
	ActorKindVendor,
}

// String implements fmt.Stringer.
func (a ActorKind) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActorKind.
func (a ActorKind) IsValid() bool {
	for _, candidate := range validActorKinds {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActorKind converts raw input into an ActorKind.
func ParseActorKind(value string) (ActorKind, error) {
	for _, candidate := range validActorKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor kind %q", value)
}
