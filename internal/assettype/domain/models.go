// Package domain contains persistence models for the asset type registry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// AssetType categorizes assets and decides which extension table applies.
type AssetType struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"type_id"`
	TenantID         snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Name             string            `gorm:"column:type_name;type:text;not null" json:"type_name"`
	ParentTypeID     *snowflake.ID     `gorm:"index" json:"parent_type_id,omitempty"`
	AttributesSchema datatypes.JSONMap `gorm:"type:jsonb" json:"attributes_schema,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (AssetType) TableName() string { return "asset_types" }

// ExtensionKind returns the extension table implied by the type name.
func (t AssetType) ExtensionKind() ExtensionKind {
	return KindFromTypeName(t.Name)
}
