package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/assethistory/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AssetHistory) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) ListByAsset(ctx context.Context, db *gorm.DB, tenantID, assetID snowflake.ID) ([]domain.AssetHistory, error) {
	var entries []domain.AssetHistory
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND asset_id = ?", tenantID, assetID).
		Order("changed_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
