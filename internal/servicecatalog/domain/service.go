package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

var (
	ErrInvalidTenant         = errors.New("invalid_tenant")
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidName           = errors.New("invalid_service_name")
	ErrServiceTypeRequired   = errors.New("service_type_required")
	ErrServiceTypeExclusive  = errors.New("service_type_exclusive")
	ErrInvalidBillingMethod  = errors.New("invalid_billing_method")
	ErrUnitOfMeasureRequired = errors.New("unit_of_measure_required")
	ErrInvalidRate           = errors.New("invalid_default_rate")
	ErrNotFound              = errors.New("service_not_found")
	ErrServiceInUse          = errors.New("service_in_use")
)

type CreateRequest struct {
	Name                  string `json:"service_name"`
	StandardServiceTypeID string `json:"standard_service_type_id"`
	CustomServiceTypeID   string `json:"custom_service_type_id"`
	BillingMethod         string `json:"billing_method"`
	DefaultRate           int64  `json:"default_rate"`
	UnitOfMeasure         string `json:"unit_of_measure"`
	CategoryID            string `json:"category_id"`
	IsTaxable             bool   `json:"is_taxable"`
	TaxRegion             string `json:"tax_region"`
}

// UpdateRequest applies partial changes. Supplying one service-type id clears
// the other.
type UpdateRequest struct {
	ID                    string  `json:"service_id"`
	Name                  *string `json:"service_name"`
	StandardServiceTypeID *string `json:"standard_service_type_id"`
	CustomServiceTypeID   *string `json:"custom_service_type_id"`
	BillingMethod         *string `json:"billing_method"`
	DefaultRate           *int64  `json:"default_rate"`
	UnitOfMeasure         *string `json:"unit_of_measure"`
	IsTaxable             *bool   `json:"is_taxable"`
	TaxRegion             *string `json:"tax_region"`
}

type ListRequest struct {
	pagination.Pagination

	Search        string
	BillingMethod string
}

type ListResponse struct {
	Services []CatalogService `json:"services"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*CatalogService, error)
	GetByID(ctx context.Context, id string) (*CatalogService, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Update(ctx context.Context, req UpdateRequest) (*CatalogService, error)
	Delete(ctx context.Context, id string) error
}
