package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, company *Company) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Company, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListRequest) ([]Company, error)
	Update(ctx context.Context, db *gorm.DB, company *Company) error
	AddCreditBalance(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, delta int64) error
}
