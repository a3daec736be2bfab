// Package store provides the durable scheduler state: a keyed JSON
// schedule document with atomic-replace writes, and a SQLite-backed
// append-only review log.
package store

import (
	"context"

	"github.com/rcliao/retain/internal/model"
)

// Schedule is the full item → state snapshot read from and written to
// the schedule store. The discipline is read-snapshot, compute in
// memory, atomic write-replace; there is a single writer process.
type Schedule map[string]model.MemoryState

// Log is the append-only review history the optimizer refits against.
type Log interface {
	// Append records one review with its pre-review snapshot.
	Append(ctx context.Context, rec ReviewRecord) (ReviewRecord, error)

	// All returns every record in review order.
	All(ctx context.Context) ([]ReviewRecord, error)

	// ByItem returns the most recent records for one item, newest first.
	ByItem(ctx context.Context, itemID string, limit int) ([]ReviewRecord, error)

	// Close closes the log.
	Close() error
}
