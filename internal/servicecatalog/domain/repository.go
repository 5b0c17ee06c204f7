package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, service *CatalogService) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*CatalogService, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req ListRequest) ([]CatalogService, int64, error)
	Update(ctx context.Context, db *gorm.DB, service *CatalogService) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	CountPlanLinks(ctx context.Context, db *gorm.DB, tenantID, serviceID snowflake.ID) (int64, error)
}
