// Package domain contains the append-only asset change log.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Change types recorded against assets.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// AssetHistory is one audit entry. Rows are never updated or deleted.
type AssetHistory struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"history_id"`
	TenantID  snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	AssetID   snowflake.ID      `gorm:"not null;index" json:"asset_id"`
	ChangedBy string            `gorm:"type:text" json:"changed_by"`
	ChangeType string           `gorm:"type:text;not null" json:"change_type"`
	Changes   datatypes.JSONMap `gorm:"type:jsonb" json:"changes,omitempty"`
	ChangedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"changed_at"`
}

// TableName sets the database table name.
func (AssetHistory) TableName() string { return "asset_history" }
