package testing

import (
	"context"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
)

// StoreTestSuite is a conformance suite for FileStore implementations.
// It tests the interface contract, not implementation details, so the same
// suite runs against every backend.
//
// Usage:
//
//	func TestMyFileStore(t *testing.T) {
//	    suite := &storetesting.StoreTestSuite{
//	        NewStore: func(t *testing.T) store.FileStore {
//	            return mystore.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore returns a fresh, empty FileStore for each test.
	NewStore func(t *testing.T) store.FileStore
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("BasicOperations", suite.RunBasicTests)
	t.Run("WriteOperations", suite.RunWriteTests)
	t.Run("Validation", suite.RunValidationTests)
	t.Run("Concurrency", suite.RunConcurrencyTests)
}

// testContext returns a standard test context.
func testContext() context.Context {
	return context.Background()
}
