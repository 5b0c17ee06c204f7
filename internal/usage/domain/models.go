// Package domain contains persistence models for usage records and the
// billing-plan eligibility views derived from them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UsageRecord is a quantity of a service consumed by a company on a date.
// billing_plan_id stays unset until it resolves to exactly one eligible plan.
type UsageRecord struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"usage_id"`
	TenantID      snowflake.ID  `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CompanyID     snowflake.ID  `gorm:"not null;index" json:"company_id"`
	ServiceID     snowflake.ID  `gorm:"not null;index" json:"service_id"`
	Quantity      float64       `gorm:"not null" json:"quantity"`
	UsageDate     time.Time     `gorm:"not null" json:"usage_date"`
	BillingPlanID *snowflake.ID `gorm:"index" json:"billing_plan_id,omitempty"`
	Comments      string        `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (UsageRecord) TableName() string { return "usage_records" }

// EligiblePlan is a billing plan currently able to bill a (company, service)
// pair.
type EligiblePlan struct {
	PlanID   snowflake.ID `gorm:"column:plan_id" json:"plan_id"`
	PlanName string       `gorm:"column:plan_name" json:"plan_name"`
	PlanType string       `gorm:"column:plan_type" json:"plan_type"`
}
