// Package domain contains persistence models for billing plans, their service
// links and company assignments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Plan types. Bucket plans are pools consumed before overage plans.
const (
	PlanFixed      = "fixed"
	PlanBucket     = "bucket"
	PlanTimeBased  = "time-based"
	PlanUsageBased = "usage-based"
)

// ValidPlanType reports whether t is a recognized plan type.
func ValidPlanType(t string) bool {
	switch t {
	case PlanFixed, PlanBucket, PlanTimeBased, PlanUsageBased:
		return true
	}
	return false
}

// BillingPlan is a contractual plan a company can be assigned to.
type BillingPlan struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"plan_id"`
	TenantID         snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name             string       `gorm:"column:plan_name;type:text;not null" json:"plan_name"`
	BillingFrequency string       `gorm:"type:text" json:"billing_frequency,omitempty"`
	PlanType         string       `gorm:"type:text;not null" json:"plan_type"`
	IsCustom         bool         `gorm:"not null;default:false" json:"is_custom"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BillingPlan) TableName() string { return "billing_plans" }

// PlanService binds a catalog service to a plan. One row per (plan, service);
// custom_rate, when nil, defers to the service's default rate.
type PlanService struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"plan_service_id"`
	TenantID   snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	PlanID     snowflake.ID `gorm:"not null;uniqueIndex:ux_plan_services_plan_service" json:"plan_id"`
	ServiceID  snowflake.ID `gorm:"not null;uniqueIndex:ux_plan_services_plan_service" json:"service_id"`
	Quantity   int          `gorm:"not null;default:1" json:"quantity"`
	CustomRate *int64       `gorm:"" json:"custom_rate,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PlanService) TableName() string { return "plan_services" }

// EffectiveRate resolves the rate this link bills at.
func (ps PlanService) EffectiveRate(serviceDefault int64) int64 {
	if ps.CustomRate != nil {
		return *ps.CustomRate
	}
	return serviceDefault
}

// CompanyBillingPlan assigns a plan to a company over a validity window. A nil
// end date means open-ended.
type CompanyBillingPlan struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"assignment_id"`
	TenantID        snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CompanyID       snowflake.ID `gorm:"not null;index" json:"company_id"`
	PlanID          snowflake.ID `gorm:"not null;index" json:"plan_id"`
	StartDate       time.Time    `gorm:"not null" json:"start_date"`
	EndDate         *time.Time   `gorm:"" json:"end_date,omitempty"`
	ServiceCategory string       `gorm:"type:text" json:"service_category,omitempty"`
	IsActive        bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CompanyBillingPlan) TableName() string { return "company_billing_plans" }

// ActiveAt reports whether the assignment covers t.
func (a CompanyBillingPlan) ActiveAt(t time.Time) bool {
	if !a.IsActive {
		return false
	}
	if t.Before(a.StartDate) {
		return false
	}
	return a.EndDate == nil || t.Before(*a.EndDate)
}
