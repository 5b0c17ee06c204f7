package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, association *AssetAssociation) error
	Find(ctx context.Context, db *gorm.DB, tenantID, assetID, entityID snowflake.ID, entityType string) (*AssetAssociation, error)
	ListByAsset(ctx context.Context, db *gorm.DB, tenantID, assetID snowflake.ID) ([]AssetAssociation, error)
	ListByEntity(ctx context.Context, db *gorm.DB, tenantID, entityID snowflake.ID, entityType string) ([]AssetAssociation, error)
	Delete(ctx context.Context, db *gorm.DB, tenantID, assetID, entityID snowflake.ID, entityType string) error
}
