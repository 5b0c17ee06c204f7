package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*AssetAssociation, error)
	FindByAssetAndEntity(ctx context.Context, assetID, entityID, entityType string) (*AssetAssociation, error)
	ListByAsset(ctx context.Context, assetID string) ([]AssetAssociation, error)
	ListByEntity(ctx context.Context, entityID, entityType string) ([]AssetAssociation, error)
	Delete(ctx context.Context, assetID, entityID, entityType string) error
}

type CreateRequest struct {
	AssetID          string `json:"asset_id"`
	EntityID         string `json:"entity_id"`
	EntityType       string `json:"entity_type"`
	RelationshipType string `json:"relationship_type"`
	CreatedBy        string `json:"created_by"`
}

var (
	ErrInvalidTenant     = errors.New("invalid_tenant")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidEntityType = errors.New("invalid_entity_type")
	ErrNotFound          = errors.New("asset_association_not_found")
)

// ValidEntityType reports whether value names an associable entity.
func ValidEntityType(value string) bool {
	return value == EntityTicket || value == EntityProject
}
