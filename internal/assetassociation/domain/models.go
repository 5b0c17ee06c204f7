// Package domain contains persistence models linking assets to other entities.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entity types an asset can be associated with.
const (
	EntityTicket  = "ticket"
	EntityProject = "project"
)

// AssetAssociation links an asset to a ticket or project. The natural key is
// (asset_id, entity_id, entity_type); no surrogate id exists.
type AssetAssociation struct {
	TenantID         snowflake.ID `gorm:"column:tenant_id;not null;index;primaryKey" json:"tenant_id"`
	AssetID          snowflake.ID `gorm:"primaryKey" json:"asset_id"`
	EntityID         snowflake.ID `gorm:"primaryKey" json:"entity_id"`
	EntityType       string       `gorm:"type:text;primaryKey" json:"entity_type"`
	RelationshipType string       `gorm:"type:text" json:"relationship_type,omitempty"`
	CreatedBy        string       `gorm:"type:text" json:"created_by"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (AssetAssociation) TableName() string { return "asset_associations" }
