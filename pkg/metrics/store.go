package metrics

import "time"

// StoreMetrics provides observability for FileStore operations.
type StoreMetrics interface {
	// RecordOperation records a completed store call.
	//
	// Parameters:
	//   - operation: Method name ("List", "Read", "CreateExclusive", ...)
	//   - duration: Time taken
	//   - err: Error returned by the store, nil on success
	RecordOperation(operation string, duration time.Duration, err error)

	// RecordBytes records the content size moved by a read or write.
	RecordBytes(operation string, bytes int)

	// SetFileCount updates the number of files seen by the last List.
	SetFileCount(count int)
}

// NewNoopStoreMetrics returns a StoreMetrics that discards everything.
func NewNoopStoreMetrics() StoreMetrics {
	return noopStoreMetrics{}
}

type noopStoreMetrics struct{}

func (noopStoreMetrics) RecordOperation(operation string, duration time.Duration, err error) {}
func (noopStoreMetrics) RecordBytes(operation string, bytes int)                             {}
func (noopStoreMetrics) SetFileCount(count int)                                              {}
