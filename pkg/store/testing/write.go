package testing

import (
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunWriteTests executes mutating FileStore tests.
func (suite *StoreTestSuite) RunWriteTests(t *testing.T) {
	t.Run("CreateExclusive_Conflict", suite.testCreateConflict)
	t.Run("Overwrite_ReplacesContent", suite.testOverwriteReplaces)
	t.Run("Overwrite_ShorterContent", suite.testOverwriteShorter)
	t.Run("Overwrite_NotFound", suite.testOverwriteNotFound)
	t.Run("Delete_Success", suite.testDeleteSuccess)
	t.Run("Delete_NotFound", suite.testDeleteNotFound)
	t.Run("Delete_ThenCreate", suite.testDeleteThenCreate)
}

func (suite *StoreTestSuite) testCreateConflict(t *testing.T) {
	s := suite.NewStore(t)

	mustCreate(t, s, "dup.txt", "original")

	err := s.CreateExclusive(testContext(), "dup.txt", "replacement")
	AssertErrorIs(t, store.ErrExists, err)

	// Existing content must be untouched
	assert.Equal(t, "original", mustRead(t, s, "dup.txt"))
}

func (suite *StoreTestSuite) testOverwriteReplaces(t *testing.T) {
	s := suite.NewStore(t)

	mustCreate(t, s, "doc.md", "hello")
	require.NoError(t, s.Overwrite(testContext(), "doc.md", "world"))
	assert.Equal(t, "world", mustRead(t, s, "doc.md"))
}

func (suite *StoreTestSuite) testOverwriteShorter(t *testing.T) {
	s := suite.NewStore(t)

	// Full replace, never a partial patch: no trailing bytes may survive
	mustCreate(t, s, "doc.md", "a much longer original body")
	require.NoError(t, s.Overwrite(testContext(), "doc.md", "short"))
	assert.Equal(t, "short", mustRead(t, s, "doc.md"))
}

func (suite *StoreTestSuite) testOverwriteNotFound(t *testing.T) {
	s := suite.NewStore(t)

	err := s.Overwrite(testContext(), "ghost.txt", "boo")
	AssertErrorIs(t, store.ErrNotFound, err)
	assertExists(t, s, "ghost.txt", false)
}

func (suite *StoreTestSuite) testDeleteSuccess(t *testing.T) {
	s := suite.NewStore(t)

	mustCreate(t, s, "gone.txt", "bye")
	require.NoError(t, s.Delete(testContext(), "gone.txt"))

	assertExists(t, s, "gone.txt", false)
	_, err := s.Read(testContext(), "gone.txt")
	AssertErrorIs(t, store.ErrNotFound, err)
}

func (suite *StoreTestSuite) testDeleteNotFound(t *testing.T) {
	s := suite.NewStore(t)

	err := s.Delete(testContext(), "ghost.txt")
	AssertErrorIs(t, store.ErrNotFound, err)
}

func (suite *StoreTestSuite) testDeleteThenCreate(t *testing.T) {
	s := suite.NewStore(t)

	mustCreate(t, s, "cycle.txt", "one")
	require.NoError(t, s.Delete(testContext(), "cycle.txt"))
	mustCreate(t, s, "cycle.txt", "two")
	assert.Equal(t, "two", mustRead(t, s, "cycle.txt"))
}
