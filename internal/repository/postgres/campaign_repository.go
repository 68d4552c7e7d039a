package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketingCRM/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CampaignRepository struct {
	DB *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

// CreateWithResult inserts the campaign and its zeroed result in one transaction.
func (r *CampaignRepository) CreateWithResult(ctx context.Context, campaign *domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(campaign).Error; err != nil {
			return fmt.Errorf("failed to create campaign: %w", err)
		}

		result := domain.CampaignResult{CampaignID: campaign.ID}
		if err := tx.Create(&result).Error; err != nil {
			return fmt.Errorf("failed to create campaign result: %w", err)
		}

		campaign.Result = &result
		return nil
	})
}

func (r *CampaignRepository) FindByID(ctx context.Context, id uint) (domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return domain.Campaign{}, fmt.Errorf("context error: %w", err)
	}

	var campaign domain.Campaign

	err := r.DB.WithContext(ctx).Preload("Segment").Preload("Result").First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Campaign{}, domain.ErrCampaignNotFound
		}
		return domain.Campaign{}, fmt.Errorf("failed to find campaign: %w", err)
	}

	return campaign, nil
}

// FindAll lists campaigns newest first, optionally only those with status.
func (r *CampaignRepository) FindAll(ctx context.Context, status string) ([]domain.Campaign, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Preload("Segment").Preload("Result")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var campaigns []domain.Campaign
	if err := query.Order("created_at DESC").Order("id DESC").Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to find campaigns: %w", err)
	}

	return campaigns, nil
}

func (r *CampaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(campaign).Omit(clause.Associations).
		Select("name", "description", "campaign_type", "subject", "content", "segment_id", "status",
			"schedule_time", "budget", "cost_per_send", "workflow_steps", "updated_at").
		Updates(campaign)
	if result.Error != nil {
		return fmt.Errorf("failed to update campaign: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrCampaignNotFound
	}

	return nil
}

// SaveLaunch activates a draft campaign, stores its simulated result and the
// launch activity rows. Nothing is written when the campaign stopped being a
// draft in the meantime.
func (r *CampaignRepository) SaveLaunch(ctx context.Context, campaign *domain.Campaign, result *domain.CampaignResult, activities []domain.CampaignActivity) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	applied := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Campaign{}).
			Where("id = ? AND status = ?", campaign.ID, domain.CampaignStatusDraft).
			Updates(map[string]any{
				"status":     campaign.Status,
				"start_date": campaign.StartDate,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to activate campaign: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		result.CampaignID = campaign.ID
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "campaign_id"}},
			UpdateAll: true,
		}).Omit("id").Create(result).Error
		if err != nil {
			return fmt.Errorf("failed to store campaign result: %w", err)
		}

		if len(activities) > 0 {
			if err := tx.Create(&activities).Error; err != nil {
				return fmt.Errorf("failed to store campaign activities: %w", err)
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return applied, nil
}

// Transition sets status to `to` when the current status is from, or always
// when from is empty. fields are written alongside the status.
func (r *CampaignRepository) Transition(ctx context.Context, id uint, from, to string, fields map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	updates := map[string]any{"status": to, "updated_at": time.Now()}
	for k, v := range fields {
		updates[k] = v
	}

	query := r.DB.WithContext(ctx).Model(&domain.Campaign{}).Where("id = ?", id)
	if from != "" {
		query = query.Where("status = ?", from)
	}

	res := query.Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update campaign status: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}
