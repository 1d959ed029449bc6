package domain

import "context"

// Lease is a held distributed lock. Refresh extends it and returns ErrConflict
// once the lock has expired and may belong to someone else.
type Lease interface {
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
}
