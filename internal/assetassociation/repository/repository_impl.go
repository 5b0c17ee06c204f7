package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, association *domain.AssetAssociation) error {
	return db.WithContext(ctx).Create(association).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, tenantID, assetID, entityID snowflake.ID, entityType string) (*domain.AssetAssociation, error) {
	var association domain.AssetAssociation
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ? AND entity_id = ? AND entity_type = ?",
			tenantID, assetID, entityID, entityType).
		First(&association).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &association, nil
}

func (r *repo) ListByAsset(ctx context.Context, db *gorm.DB, tenantID, assetID snowflake.ID) ([]domain.AssetAssociation, error) {
	var items []domain.AssetAssociation
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListByEntity(ctx context.Context, db *gorm.DB, tenantID, entityID snowflake.ID, entityType string) ([]domain.AssetAssociation, error) {
	var items []domain.AssetAssociation
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND entity_id = ? AND entity_type = ?", tenantID, entityID, entityType).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, assetID, entityID snowflake.ID, entityType string) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ? AND entity_id = ? AND entity_type = ?",
			tenantID, assetID, entityID, entityType).
		Delete(&domain.AssetAssociation{}).Error
}
