package store

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxNameLength is the longest accepted filename in bytes (a single path
// component on common filesystems).
const MaxNameLength = 255

// ValidateName rejects names that are unsafe to join to the sandbox root.
//
// A valid name is a single, non-empty path component: no '/' or '\\', not
// "." or "..", no ".." segment, not absolute, no NUL or control characters,
// and at most MaxNameLength bytes.
//
// All rejections wrap ErrInvalidName.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name length %d exceeds %d", ErrInvalidName, len(name), MaxNameLength)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidName)
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c == 0x7F {
			return fmt.Errorf("%w: control character 0x%02x not allowed", ErrInvalidName, c)
		}
	}

	// With separators rejected the name is its own single segment, so the ".."
	// segment case is covered above. Volume names ("C:") still need a check.
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return fmt.Errorf("%w: absolute path not allowed", ErrInvalidName)
	}

	return nil
}

// ResolvePath validates name and joins it to root, verifying that the
// result sits directly under root.
func ResolvePath(root, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	cleanRoot := filepath.Clean(root)
	full := filepath.Join(cleanRoot, name)
	if filepath.Dir(full) != cleanRoot {
		return "", fmt.Errorf("%w: %q resolves outside the managed root", ErrInvalidName, name)
	}

	return full, nil
}
