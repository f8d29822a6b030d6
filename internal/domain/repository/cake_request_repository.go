// Package repository defines the persistence interfaces of the gateway domain.
package repository

import (
	"context"

	"github.com/garrywilliams/cake/internal/domain/model"
)

// CakeRequestRepository persists classification audit records. Lookups by
// cake id resolve "the record for this cake" deterministically as the lowest
// record id and return (nil, nil) when no record matches, keeping the no-op
// branches explicit for callers.
type CakeRequestRepository interface {
	// Create inserts a new record.
	Create(ctx context.Context, request *model.CakeRequest) error

	// FirstByCakeID returns the record with the lowest id for the given cake
	// id regardless of status, or (nil, nil) when none exists.
	FirstByCakeID(ctx context.Context, cakeID int64) (*model.CakeRequest, error)

	// IncrementAccessCount adds one to the access count of the first record
	// matching the cake id. Absent records are a no-op.
	IncrementAccessCount(ctx context.Context, cakeID int64) error

	// SoftDelete flips the first matching record's status to Deleted without
	// removing the row. Absent records are a no-op.
	SoftDelete(ctx context.Context, cakeID int64) error

	// CountByCakeID reports how many records exist for the cake id.
	CountByCakeID(ctx context.Context, cakeID int64) (int64, error)
}
