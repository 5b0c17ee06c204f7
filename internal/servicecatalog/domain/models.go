// Package domain contains persistence models for the billable service catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Billing methods a service can charge by.
const (
	BillingFixed   = "fixed"
	BillingPerUnit = "per_unit"
)

// ValidBillingMethod reports whether m is a recognized billing method.
func ValidBillingMethod(m string) bool {
	return m == BillingFixed || m == BillingPerUnit
}

// CatalogService is a billable service offered to companies. Rates are stored
// as integer minor-currency units; callers convert to and from major units.
type CatalogService struct {
	ID                    snowflake.ID  `gorm:"primaryKey" json:"service_id"`
	TenantID              snowflake.ID  `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name                  string        `gorm:"column:service_name;type:text;not null" json:"service_name"`
	StandardServiceTypeID *snowflake.ID `gorm:"index" json:"standard_service_type_id,omitempty"`
	CustomServiceTypeID   *snowflake.ID `gorm:"index" json:"custom_service_type_id,omitempty"`
	BillingMethod         string        `gorm:"type:text;not null" json:"billing_method"`
	DefaultRate           int64         `gorm:"not null;default:0" json:"default_rate"`
	UnitOfMeasure         string        `gorm:"type:text" json:"unit_of_measure,omitempty"`
	CategoryID            *snowflake.ID `gorm:"index" json:"category_id,omitempty"`
	IsTaxable             bool          `gorm:"not null;default:false" json:"is_taxable"`
	TaxRegion             string        `gorm:"type:text" json:"tax_region,omitempty"`
	CreatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CatalogService) TableName() string { return "services" }

// EffectiveServiceTypeID prefers the standard type over the custom one.
func (s CatalogService) EffectiveServiceTypeID() *snowflake.ID {
	if s.StandardServiceTypeID != nil {
		return s.StandardServiceTypeID
	}
	return s.CustomServiceTypeID
}
