package usecase

import (
	"context"

	"github.com/garrywilliams/cake/internal/domain/model"
)

// CakeWorkflow is the orchestration surface the HTTP handlers depend on.
// Every operation returns the downstream envelope to pass through, or an
// error describing the aborted stage.
type CakeWorkflow interface {
	// ListCakes forwards a paginated catalog listing.
	ListCakes(ctx context.Context, skip, limit string) (*model.Envelope, error)

	// CreateCake classifies the payload's image and, on a positive result,
	// creates the cake in the catalog and audits the attempt.
	CreateCake(ctx context.Context, payload map[string]interface{}) (*model.Envelope, error)

	// ReadCake forwards a catalog read and asynchronously counts the access.
	ReadCake(ctx context.Context, id string) (*model.Envelope, error)

	// UpdateCake validates the payload locally, re-classifies when an image
	// is supplied, and forwards the update.
	UpdateCake(ctx context.Context, id string, payload map[string]interface{}) (*model.Envelope, error)

	// DeleteCake forwards a catalog delete and asynchronously soft-deletes
	// the audit record.
	DeleteCake(ctx context.Context, id string) (*model.Envelope, error)
}

// AuditRecorder writes the classification audit trail. Implementations are
// invoked exclusively from the fire-and-forget lane: failures are logged
// there and never reach a request.
type AuditRecorder interface {
	// RecordClassification appends a new active audit record. A cakeID of
	// zero records a rejected classification with no catalog entry.
	RecordClassification(ctx context.Context, cakeID int64, imageURL string, tolerance float64, isCake bool, proportion float64) error

	// IncrementAccess bumps the access count of the first record for the
	// cake id; missing records are a no-op.
	IncrementAccess(ctx context.Context, cakeID int64) error

	// SoftDelete marks the first record for the cake id as deleted; missing
	// records are a no-op.
	SoftDelete(ctx context.Context, cakeID int64) error
}

// DownstreamCaller performs one normalized HTTP call to a collaborator.
type DownstreamCaller interface {
	Call(ctx context.Context, method, url string, body interface{}, query map[string]string) (*model.Envelope, error)
}
