package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/assettype/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, assetType *domain.AssetType) error {
	return db.WithContext(ctx).Create(assetType).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.AssetType, error) {
	var assetType domain.AssetType
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&assetType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assetType, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]domain.AssetType, error) {
	var items []domain.AssetType
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("type_name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, assetType *domain.AssetType) error {
	if assetType == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE asset_types
		 SET type_name = ?, parent_type_id = ?, attributes_schema = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		assetType.Name,
		assetType.ParentTypeID,
		assetType.AttributesSchema,
		assetType.UpdatedAt,
		assetType.TenantID,
		assetType.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.AssetType{}).Error
}

func (r *repo) CountAssets(ctx context.Context, db *gorm.DB, tenantID, typeID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("assets").
		Where("tenant_id = ? AND type_id = ?", tenantID, typeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
