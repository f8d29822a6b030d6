package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/garrywilliams/cake/internal/domain/model"
	domainRepo "github.com/garrywilliams/cake/internal/domain/repository"
)

// cakeRequestRepository implements CakeRequestRepository on GORM.
type cakeRequestRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewCakeRequestRepository creates a new cake request repository.
func NewCakeRequestRepository(db *gorm.DB, logger *zap.Logger) domainRepo.CakeRequestRepository {
	return &cakeRequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new audit record.
func (r *cakeRequestRepository) Create(ctx context.Context, request *model.CakeRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		r.logger.Error("failed to create cake request",
			zap.Int64("cake_id", request.CakeID),
			zap.Error(err))
		return fmt.Errorf("failed to create cake request: %w", err)
	}

	return nil
}

// FirstByCakeID returns the lowest-id record for the cake id, or (nil, nil)
// when none exists.
func (r *cakeRequestRepository) FirstByCakeID(ctx context.Context, cakeID int64) (*model.CakeRequest, error) {
	var request model.CakeRequest

	err := r.db.WithContext(ctx).
		Where("cake_id = ?", cakeID).
		Order("id ASC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to find cake request",
			zap.Int64("cake_id", cakeID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to find cake request: %w", err)
	}

	return &request, nil
}

// IncrementAccessCount bumps the access count of the first matching record.
// Read-then-save without row locking; concurrent writers are last-write-wins.
func (r *cakeRequestRepository) IncrementAccessCount(ctx context.Context, cakeID int64) error {
	request, err := r.FirstByCakeID(ctx, cakeID)
	if err != nil {
		return err
	}
	if request == nil {
		return nil
	}

	request.AccessCount++
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		r.logger.Error("failed to increment access count",
			zap.Int64("cake_id", cakeID),
			zap.Int64("record_id", request.ID),
			zap.Error(err))
		return fmt.Errorf("failed to increment access count: %w", err)
	}

	return nil
}

// SoftDelete marks the first matching record as deleted. The row is kept.
func (r *cakeRequestRepository) SoftDelete(ctx context.Context, cakeID int64) error {
	request, err := r.FirstByCakeID(ctx, cakeID)
	if err != nil {
		return err
	}
	if request == nil {
		return nil
	}

	request.Status = model.StatusDeleted
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		r.logger.Error("failed to soft delete cake request",
			zap.Int64("cake_id", cakeID),
			zap.Int64("record_id", request.ID),
			zap.Error(err))
		return fmt.Errorf("failed to soft delete cake request: %w", err)
	}

	return nil
}

// CountByCakeID reports how many records exist for the cake id.
func (r *cakeRequestRepository) CountByCakeID(ctx context.Context, cakeID int64) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.CakeRequest{}).
		Where("cake_id = ?", cakeID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("failed to count cake requests",
			zap.Int64("cake_id", cakeID),
			zap.Error(err))
		return 0, fmt.Errorf("failed to count cake requests: %w", err)
	}

	return count, nil
}
