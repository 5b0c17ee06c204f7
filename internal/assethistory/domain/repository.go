package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AssetHistory) error
	ListByAsset(ctx context.Context, db *gorm.DB, tenantID, assetID snowflake.ID) ([]AssetHistory, error)
}
