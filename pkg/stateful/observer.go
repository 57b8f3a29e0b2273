package stateful

import (
	"sync/atomic"
	"time"
)

// Operation names a resource operation.
type Operation string

// Resource operations.
const (
	OpList    Operation = "list"
	OpGet     Operation = "get"
	OpCreate  Operation = "create"
	OpReplace Operation = "replace"
	OpPatch   Operation = "patch"
	OpDelete  Operation = "delete"
)

// Observer defines hooks for metrics collection.
type Observer interface {
	// OnOperation is called after a successful operation with the number of
	// rows the resource holds afterwards.
	OnOperation(resource string, op Operation, rows int, duration time.Duration)

	// OnError is called when an operation fails.
	OnError(resource string, op Operation, err error)
}

// NoopObserver is a no-op implementation of Observer for when metrics are disabled.
type NoopObserver struct{}

func (NoopObserver) OnOperation(resource string, op Operation, rows int, duration time.Duration) {}
func (NoopObserver) OnError(resource string, op Operation, err error)                            {}

// CountingObserver counts operations in memory.
// All counters use atomic operations so it can be shared between requests.
type CountingObserver struct {
	operations atomic.Int64
	errors     atomic.Int64
	rows       atomic.Int64
}

func (c *CountingObserver) OnOperation(resource string, op Operation, rows int, duration time.Duration) {
	c.operations.Add(1)
	c.rows.Store(int64(rows))
}

func (c *CountingObserver) OnError(resource string, op Operation, err error) {
	c.errors.Add(1)
}

// Snapshot returns the operation count, the error count and the last row count.
func (c *CountingObserver) Snapshot() (operations, errors, rows int64) {
	return c.operations.Load(), c.errors.Load(), c.rows.Load()
}
