package testing

import (
	"context"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/stretchr/testify/assert"
)

// RunValidationTests checks that every operation refuses unsafe names and
// honours context cancellation.
func (suite *StoreTestSuite) RunValidationTests(t *testing.T) {
	t.Run("RejectsUnsafeNames", suite.testRejectsUnsafeNames)
	t.Run("CancelledContext", suite.testCancelledContext)
}

func (suite *StoreTestSuite) testRejectsUnsafeNames(t *testing.T) {
	s := suite.NewStore(t)
	ctx := testContext()

	for _, name := range []string{"", ".", "..", "../escape.txt", "a/b.txt", `a\b.txt`, "/etc/passwd"} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Read(ctx, name)
			AssertErrorIs(t, store.ErrInvalidName, err)

			err = s.CreateExclusive(ctx, name, "x")
			AssertErrorIs(t, store.ErrInvalidName, err)

			err = s.Overwrite(ctx, name, "x")
			AssertErrorIs(t, store.ErrInvalidName, err)

			err = s.Delete(ctx, name)
			AssertErrorIs(t, store.ErrInvalidName, err)
		})
	}

	assert.Empty(t, mustList(t, s))
}

func (suite *StoreTestSuite) testCancelledContext(t *testing.T) {
	s := suite.NewStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	err = s.CreateExclusive(ctx, "late.txt", "x")
	assert.ErrorIs(t, err, context.Canceled)
	assertExists(t, s, "late.txt", false)
}
