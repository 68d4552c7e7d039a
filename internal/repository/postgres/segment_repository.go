package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketingCRM/domain"

	"gorm.io/gorm"
)

type SegmentRepository struct {
	DB *gorm.DB
}

func NewSegmentRepository(db *gorm.DB) *SegmentRepository {
	return &SegmentRepository{DB: db}
}

func (r *SegmentRepository) Create(ctx context.Context, segment *domain.Segment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(segment).Error; err != nil {
		return fmt.Errorf("failed to create segment: %w", err)
	}

	return nil
}

func (r *SegmentRepository) FindByID(ctx context.Context, id uint) (domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Segment{}, fmt.Errorf("context error: %w", err)
	}

	var segment domain.Segment

	err := r.DB.WithContext(ctx).First(&segment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Segment{}, domain.ErrSegmentNotFound
		}
		return domain.Segment{}, fmt.Errorf("failed to find segment: %w", err)
	}

	return segment, nil
}

func (r *SegmentRepository) FindAllActive(ctx context.Context) ([]domain.Segment, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var segments []domain.Segment
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&segments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find segments: %w", err)
	}

	return segments, nil
}

func (r *SegmentRepository) Update(ctx context.Context, segment *domain.Segment) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(segment).
		Select("name", "description", "criteria", "segment_type", "is_active", "updated_at").
		Updates(segment)
	if result.Error != nil {
		return fmt.Errorf("failed to update segment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSegmentNotFound
	}

	return nil
}

// UpdateCustomerCount stores the membership snapshot without touching anything else.
func (r *SegmentRepository) UpdateCustomerCount(ctx context.Context, id uint, count int) error {
	result := r.DB.WithContext(ctx).Model(&domain.Segment{}).Where("id = ?", id).
		Updates(map[string]any{"customer_count": count})
	if result.Error != nil {
		return fmt.Errorf("failed to update customer count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSegmentNotFound
	}

	return nil
}
