package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*AssetType, error)
	GetByID(ctx context.Context, id string) (*AssetType, error)
	Update(ctx context.Context, req UpdateRequest) (*AssetType, error)
	List(ctx context.Context) ([]AssetType, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name             string         `json:"type_name"`
	ParentTypeID     *string        `json:"parent_type_id"`
	AttributesSchema map[string]any `json:"attributes_schema"`
}

type UpdateRequest struct {
	ID               string         `json:"type_id"`
	Name             *string        `json:"type_name"`
	ParentTypeID     *string        `json:"parent_type_id"`
	AttributesSchema map[string]any `json:"attributes_schema"`
}

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidName   = errors.New("invalid_type_name")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("asset_type_not_found")
	ErrTypeInUse     = errors.New("asset_type_in_use")
)
