package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidTenant = errors.New("invalid_tenant")
	ErrInvalidAsset  = errors.New("invalid_asset_id")
)

// RecordRequest describes a single change entry.
type RecordRequest struct {
	AssetID    snowflake.ID           `json:"asset_id"`
	ChangedBy  string                 `json:"changed_by"`
	ChangeType string                 `json:"change_type"`
	Changes    map[string]interface{} `json:"changes"`
}

type Service interface {
	Record(ctx context.Context, req RecordRequest) (*AssetHistory, error)
	ListByAsset(ctx context.Context, assetID string) ([]AssetHistory, error)
}
