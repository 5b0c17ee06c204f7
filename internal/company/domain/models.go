// Package domain contains persistence models for tenant companies.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Company is a client organization managed by the MSP.
type Company struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID      snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name          string            `gorm:"type:text;not null" json:"name"`
	Email         string            `gorm:"type:text" json:"email,omitempty"`
	Phone         string            `gorm:"type:text" json:"phone,omitempty"`
	AddressLine   string            `gorm:"type:text" json:"address_line,omitempty"`
	CreditBalance int64             `gorm:"not null;default:0" json:"credit_balance"`
	IsInactive    bool              `gorm:"not null;default:false" json:"is_inactive"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
