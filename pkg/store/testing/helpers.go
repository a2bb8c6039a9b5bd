package testing

import (
	"errors"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorIs checks if the error matches the expected error using errors.Is.
func AssertErrorIs(t *testing.T, expected error, actual error) {
	t.Helper()
	if !errors.Is(actual, expected) {
		t.Errorf("Expected error %v, got %v", expected, actual)
	}
}

// mustCreate creates a file and fails the test if it errors.
func mustCreate(t *testing.T, s store.FileStore, name, content string) {
	t.Helper()
	err := s.CreateExclusive(testContext(), name, content)
	require.NoError(t, err, "CreateExclusive should succeed")
}

// mustRead reads a file and fails the test if it errors.
func mustRead(t *testing.T, s store.FileStore, name string) string {
	t.Helper()
	content, err := s.Read(testContext(), name)
	require.NoError(t, err, "Read should succeed")
	return content
}

// assertExists checks whether a file exists.
func assertExists(t *testing.T, s store.FileStore, name string, expected bool) {
	t.Helper()
	exists, err := s.Exists(testContext(), name)
	require.NoError(t, err, "Exists should not error")
	assert.Equal(t, expected, exists, "existence mismatch for %s", name)
}

// mustList lists the store and fails the test if it errors.
func mustList(t *testing.T, s store.FileStore) []string {
	t.Helper()
	names, err := s.List(testContext())
	require.NoError(t, err, "List should succeed")
	return names
}
