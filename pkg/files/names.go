package files

import "github.com/google/uuid"

// GeneratedExtension is appended to every generated name.
const GeneratedExtension = ".txt"

// NameGenerator produces candidate names for anonymous creation.
type NameGenerator func() string

// UUIDNames returns "<random v4 UUID>.txt".
func UUIDNames() string {
	return uuid.NewString() + GeneratedExtension
}
