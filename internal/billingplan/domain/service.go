package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

var (
	ErrInvalidTenant         = errors.New("invalid_tenant")
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidName           = errors.New("invalid_plan_name")
	ErrInvalidPlanType       = errors.New("invalid_plan_type")
	ErrInvalidQuantity       = errors.New("invalid_quantity")
	ErrInvalidRate           = errors.New("invalid_custom_rate")
	ErrNotFound              = errors.New("billing_plan_not_found")
	ErrServiceNotFound       = errors.New("service_not_found")
	ErrCompanyNotFound       = errors.New("company_not_found")
	ErrLinkNotFound          = errors.New("plan_service_not_found")
	ErrAssignmentNotFound    = errors.New("plan_assignment_not_found")
	ErrServiceAlreadyOnPlan  = errors.New("service_already_on_plan")
	ErrPlanHasServices       = errors.New("plan_has_services")
	ErrPlanInUseByCompanies  = errors.New("plan_in_use_by_companies")
)

type CreatePlanRequest struct {
	Name             string `json:"plan_name"`
	BillingFrequency string `json:"billing_frequency"`
	PlanType         string `json:"plan_type"`
	IsCustom         bool   `json:"is_custom"`
}

type UpdatePlanRequest struct {
	ID               string  `json:"plan_id"`
	Name             *string `json:"plan_name"`
	BillingFrequency *string `json:"billing_frequency"`
	PlanType         *string `json:"plan_type"`
	IsCustom         *bool   `json:"is_custom"`
}

type ListPlansRequest struct {
	pagination.Pagination

	Search   string
	PlanType string
}

type ListPlansResponse struct {
	Plans []BillingPlan `json:"plans"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type AddServiceRequest struct {
	PlanID     string `json:"plan_id"`
	ServiceID  string `json:"service_id"`
	Quantity   int    `json:"quantity"`
	CustomRate *int64 `json:"custom_rate"`
}

// PlanServiceView is a plan-service link joined with its catalog service.
// EffectiveRate is custom_rate when set, else the service default.
type PlanServiceView struct {
	PlanService
	ServiceName   string `json:"service_name"`
	EffectiveRate int64  `json:"effective_rate"`
}

type AssignRequest struct {
	CompanyID       string     `json:"company_id"`
	PlanID          string     `json:"plan_id"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	ServiceCategory string     `json:"service_category"`
}

type Service interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*BillingPlan, error)
	GetPlanByID(ctx context.Context, id string) (*BillingPlan, error)
	ListPlans(ctx context.Context, req ListPlansRequest) (*ListPlansResponse, error)
	UpdatePlan(ctx context.Context, req UpdatePlanRequest) (*BillingPlan, error)
	DeletePlan(ctx context.Context, id string) error

	AddService(ctx context.Context, req AddServiceRequest) (*PlanServiceView, error)
	ListPlanServices(ctx context.Context, planID string) ([]PlanServiceView, error)
	UpdateQuantity(ctx context.Context, planID, serviceID string, quantity int) (*PlanServiceView, error)
	UpdateCustomRate(ctx context.Context, planID, serviceID string, customRate *int64) (*PlanServiceView, error)
	RemoveService(ctx context.Context, planID, serviceID string) error

	Assign(ctx context.Context, req AssignRequest) (*CompanyBillingPlan, error)
	Unassign(ctx context.Context, assignmentID string) error
	ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]CompanyBillingPlan, error)
}
