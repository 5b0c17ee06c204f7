package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

var (
	ErrInvalidTenant    = errors.New("invalid_tenant")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidUsageDate = errors.New("invalid_usage_date")
	ErrNotFound         = errors.New("usage_record_not_found")
	ErrCompanyNotFound  = errors.New("company_not_found")
	ErrServiceNotFound  = errors.New("service_not_found")
	ErrPlanNotEligible  = errors.New("billing_plan_not_eligible")
)

type CreateRequest struct {
	CompanyID     string    `json:"company_id"`
	ServiceID     string    `json:"service_id"`
	Quantity      float64   `json:"quantity"`
	UsageDate     time.Time `json:"usage_date"`
	BillingPlanID string    `json:"billing_plan_id"`
	Comments      string    `json:"comments"`
}

type UpdateRequest struct {
	ID            string     `json:"usage_id"`
	CompanyID     *string    `json:"company_id"`
	ServiceID     *string    `json:"service_id"`
	Quantity      *float64   `json:"quantity"`
	UsageDate     *time.Time `json:"usage_date"`
	BillingPlanID *string    `json:"billing_plan_id"`
	Comments      *string    `json:"comments"`
}

// Response carries the record plus the ambiguity flag callers must surface:
// requires_selection is set when no plan could be auto-selected and more than
// one remains eligible.
type Response struct {
	UsageRecord
	RequiresSelection bool           `json:"requires_selection"`
	EligiblePlans     []EligiblePlan `json:"eligible_plans,omitempty"`
}

type ListRequest struct {
	pagination.Pagination

	CompanyID string
	ServiceID string
	From      *time.Time
	To        *time.Time
}

// ListFilter is the repository-level filter, IDs already parsed.
type ListFilter struct {
	CompanyID snowflake.ID
	ServiceID snowflake.ID
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type ListResponse struct {
	Records []UsageRecord `json:"usage_records"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	EligibleBillingPlans(ctx context.Context, companyID, serviceID string) ([]EligiblePlan, error)
}
