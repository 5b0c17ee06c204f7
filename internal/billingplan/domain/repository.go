package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	CreatePlan(ctx context.Context, db *gorm.DB, plan *BillingPlan) error
	FindPlanByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*BillingPlan, error)
	ListPlans(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req ListPlansRequest) ([]BillingPlan, int64, error)
	UpdatePlan(ctx context.Context, db *gorm.DB, plan *BillingPlan) error
	DeletePlan(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	CountServices(ctx context.Context, db *gorm.DB, tenantID, planID snowflake.ID) (int64, error)
	CountAssignments(ctx context.Context, db *gorm.DB, tenantID, planID snowflake.ID) (int64, error)

	InsertLink(ctx context.Context, db *gorm.DB, link *PlanService) error
	FindLink(ctx context.Context, db *gorm.DB, tenantID, planID, serviceID snowflake.ID) (*PlanService, error)
	UpdateLink(ctx context.Context, db *gorm.DB, link *PlanService) error
	DeleteLink(ctx context.Context, db *gorm.DB, tenantID, planID, serviceID snowflake.ID) error
	ListLinks(ctx context.Context, db *gorm.DB, tenantID, planID snowflake.ID) ([]PlanServiceView, error)

	InsertAssignment(ctx context.Context, db *gorm.DB, assignment *CompanyBillingPlan) error
	FindAssignmentByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*CompanyBillingPlan, error)
	CloseAssignment(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, endedAt time.Time) error
	ListAssignmentsByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) ([]CompanyBillingPlan, error)
}
