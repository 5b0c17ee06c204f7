package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
	"gorm.io/gorm"
)

// MaintenanceAggregate is the raw material for CompanyReport.
type MaintenanceAggregate struct {
	TotalAssets         int64
	AssetsWithSchedules int64
	TotalSchedules      int64
	Overdue             int64
	Upcoming            int64
	Completed           int64
	FrequencySum        int64
	CountsByType        map[string]int64
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, asset *Asset) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Asset, error)
	Update(ctx context.Context, db *gorm.DB, asset *Asset) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error

	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter ListFilter, now time.Time) ([]Asset, int64, error)
	CompanySummary(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*CompanySummary, error)

	UpsertExtension(ctx context.Context, db *gorm.DB, ext Extension) error
	GetExtension(ctx context.Context, db *gorm.DB, tenantID, assetID snowflake.ID, kind assettypedomain.ExtensionKind) (Extension, error)

	InsertSchedule(ctx context.Context, db *gorm.DB, schedule *MaintenanceSchedule) error
	FindScheduleByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*MaintenanceSchedule, error)
	UpdateSchedule(ctx context.Context, db *gorm.DB, schedule *MaintenanceSchedule) error
	MaintenanceAggregate(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID, now time.Time) (*MaintenanceAggregate, error)
}
