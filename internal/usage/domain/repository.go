package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *UsageRecord) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*UsageRecord, error)
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListFilter) ([]UsageRecord, int64, error)
	Update(ctx context.Context, db *gorm.DB, record *UsageRecord) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	EligiblePlans(ctx context.Context, db *gorm.DB, tenantID, companyID, serviceID snowflake.ID, now time.Time) ([]EligiblePlan, error)
}
