package testing

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/stretchr/testify/assert"
)

// RunConcurrencyTests verifies the exclusive-create guarantee under contention.
func (suite *StoreTestSuite) RunConcurrencyTests(t *testing.T) {
	t.Run("CreateExclusive_SingleWinner", suite.testCreateExclusiveSingleWinner)
}

func (suite *StoreTestSuite) testCreateExclusiveSingleWinner(t *testing.T) {
	s := suite.NewStore(t)

	const workers = 16
	var (
		wg        sync.WaitGroup
		winners   atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := s.CreateExclusive(testContext(), "race.txt", "payload")
			switch {
			case err == nil:
				winners.Add(1)
			case errors.Is(err, store.ErrExists):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load(), "exactly one creator must win")
	assert.Equal(t, int32(workers-1), conflicts.Load())
	assert.Equal(t, "payload", mustRead(t, s, "race.txt"))
}
