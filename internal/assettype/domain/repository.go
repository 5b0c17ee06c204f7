package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, assetType *AssetType) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*AssetType, error)
	FindAll(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]AssetType, error)
	Update(ctx context.Context, db *gorm.DB, assetType *AssetType) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	CountAssets(ctx context.Context, db *gorm.DB, tenantID, typeID snowflake.ID) (int64, error)
}
