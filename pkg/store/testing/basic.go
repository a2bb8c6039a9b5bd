package testing

import (
	"strings"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBasicTests executes read-side FileStore tests.
func (suite *StoreTestSuite) RunBasicTests(t *testing.T) {
	t.Run("List_Empty", suite.testListEmpty)
	t.Run("List_ReflectsContents", suite.testListReflectsContents)
	t.Run("Read_NotFound", suite.testReadNotFound)
	t.Run("Read_RoundTrip", suite.testReadRoundTrip)
	t.Run("Read_EmptyContent", suite.testReadEmpty)
	t.Run("Read_LargeContent", suite.testReadLarge)
	t.Run("Exists", suite.testExists)
	t.Run("IsRegular", suite.testIsRegular)
}

// ============================================================================
// List Tests
// ============================================================================

func (suite *StoreTestSuite) testListEmpty(t *testing.T) {
	s := suite.NewStore(t)

	names := mustList(t, s)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func (suite *StoreTestSuite) testListReflectsContents(t *testing.T) {
	s := suite.NewStore(t)

	mustCreate(t, s, "a.txt", "a")
	mustCreate(t, s, "b.md", "b")
	mustCreate(t, s, "c.bin", "c")
	assert.ElementsMatch(t, []string{"a.txt", "b.md", "c.bin"}, mustList(t, s))

	require.NoError(t, s.Delete(testContext(), "b.md"))
	assert.ElementsMatch(t, []string{"a.txt", "c.bin"}, mustList(t, s))
}

// ============================================================================
// Read Tests
// ============================================================================

func (suite *StoreTestSuite) testReadNotFound(t *testing.T) {
	s := suite.NewStore(t)

	_, err := s.Read(testContext(), "missing.txt")
	AssertErrorIs(t, store.ErrNotFound, err)
}

func (suite *StoreTestSuite) testReadRoundTrip(t *testing.T) {
	s := suite.NewStore(t)

	content := "hello\nwörld ✓\r\n\ttabs"
	mustCreate(t, s, "round.txt", content)
	assert.Equal(t, content, mustRead(t, s, "round.txt"))
}

func (suite *StoreTestSuite) testReadEmpty(t *testing.T) {
	s := suite.NewStore(t)

	mustCreate(t, s, "empty.txt", "")
	assert.Equal(t, "", mustRead(t, s, "empty.txt"))
}

func (suite *StoreTestSuite) testReadLarge(t *testing.T) {
	s := suite.NewStore(t)

	content := strings.Repeat("0123456789abcdef", 64*1024) // 1MB
	mustCreate(t, s, "large.log", content)
	assert.Equal(t, content, mustRead(t, s, "large.log"))
}

// ============================================================================
// Existence Tests
// ============================================================================

func (suite *StoreTestSuite) testExists(t *testing.T) {
	s := suite.NewStore(t)

	assertExists(t, s, "x.txt", false)
	mustCreate(t, s, "x.txt", "x")
	assertExists(t, s, "x.txt", true)
}

func (suite *StoreTestSuite) testIsRegular(t *testing.T) {
	s := suite.NewStore(t)

	regular, err := s.IsRegular(testContext(), "x.txt")
	require.NoError(t, err)
	assert.False(t, regular)

	mustCreate(t, s, "x.txt", "x")
	regular, err = s.IsRegular(testContext(), "x.txt")
	require.NoError(t, err)
	assert.True(t, regular)
}
