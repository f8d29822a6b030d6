package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/garrywilliams/cake/internal/domain/model"
	"github.com/garrywilliams/cake/internal/domain/repository"
	"github.com/garrywilliams/cake/internal/infrastructure/messaging"
	apperrors "github.com/garrywilliams/cake/pkg/errors"
)

// AuditService implements AuditRecorder on the cake request repository.
// Every write also announces itself on the event publisher, best-effort.
type AuditService struct {
	logger    *zap.Logger
	requests  repository.CakeRequestRepository
	publisher messaging.AuditEventPublisher
}

// NewAuditService creates a new audit service.
func NewAuditService(
	logger *zap.Logger,
	requests repository.CakeRequestRepository,
	publisher messaging.AuditEventPublisher,
) *AuditService {
	return &AuditService{
		logger:    logger,
		requests:  requests,
		publisher: publisher,
	}
}

// RecordClassification appends a new active audit record with a zero access
// count.
func (s *AuditService) RecordClassification(ctx context.Context, cakeID int64, imageURL string, tolerance float64, isCake bool, proportion float64) error {
	request := &model.CakeRequest{
		CakeID:     cakeID,
		ImageURL:   imageURL,
		IsCake:     isCake,
		Proportion: proportion,
		Tolerance:  tolerance,
		Status:     model.StatusActive,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		apperrors.LogError(s.logger, err, "failed to record classification",
			zap.Int64("cake_id", cakeID),
			zap.Bool("is_cake", isCake))
		return err
	}

	// The audit trail is the database row; a lost event is acceptable.
	if err := s.publisher.PublishClassification(ctx, request); err != nil {
		s.logger.Warn("failed to publish audit event",
			zap.Int64("cake_id", cakeID),
			zap.Int64("record_id", request.ID),
			zap.Error(err))
	}

	return nil
}

// IncrementAccess bumps the access count of the first record for the cake id.
func (s *AuditService) IncrementAccess(ctx context.Context, cakeID int64) error {
	if err := s.requests.IncrementAccessCount(ctx, cakeID); err != nil {
		apperrors.LogError(s.logger, err, "failed to increment access count",
			zap.Int64("cake_id", cakeID))
		return err
	}
	return nil
}

// SoftDelete marks the first record for the cake id as deleted.
func (s *AuditService) SoftDelete(ctx context.Context, cakeID int64) error {
	if err := s.requests.SoftDelete(ctx, cakeID); err != nil {
		apperrors.LogError(s.logger, err, "failed to soft delete cake request",
			zap.Int64("cake_id", cakeID))
		return err
	}
	return nil
}
