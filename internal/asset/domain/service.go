package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	associationdomain "github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	CompanyAssetReport(ctx context.Context, companyID string) (*CompanyReport, error)
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*MaintenanceSchedule, error)
	RecordMaintenance(ctx context.Context, req RecordMaintenanceRequest) (*MaintenanceSchedule, error)
}

// CreateRequest carries base asset fields plus at most one extension payload.
// Only the payload matching the resolved type name is persisted.
type CreateRequest struct {
	TypeID          string     `json:"type_id"`
	CompanyID       string     `json:"company_id"`
	AssetTag        string     `json:"asset_tag"`
	SerialNumber    string     `json:"serial_number"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	Location        string     `json:"location"`
	PurchaseDate    *time.Time `json:"purchase_date"`
	WarrantyEndDate *time.Time `json:"warranty_end_date"`
	CreatedBy       string     `json:"created_by"`

	Extension
}

type UpdateRequest struct {
	ID              string     `json:"asset_id"`
	AssetTag        *string    `json:"asset_tag"`
	SerialNumber    *string    `json:"serial_number"`
	Name            *string    `json:"name"`
	Status          *string    `json:"status"`
	Location        *string    `json:"location"`
	PurchaseDate    *time.Time `json:"purchase_date"`
	WarrantyEndDate *time.Time `json:"warranty_end_date"`
	UpdatedBy       string     `json:"updated_by"`

	Extension
}

// CompanyInfo is the nested company view on asset responses. Optional fields
// coalesce to zero values when the company row is absent.
type CompanyInfo struct {
	ID          string `json:"company_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	IsInactive  bool   `json:"is_inactive"`
}

type Response struct {
	Asset
	TypeName string      `json:"type_name,omitempty"`
	Company  CompanyInfo `json:"company"`
	Extension

	// Associations are only populated on single-asset reads.
	Associations []associationdomain.AssetAssociation `json:"associations,omitempty"`
}

type ListRequest struct {
	pagination.Pagination

	CompanyID             string
	CompanyName           string
	TypeID                string
	Status                string
	Search                string
	MaintenanceStatus     string
	MaintenanceType       string
	IncludeCompanyDetails bool
	IncludeExtensionData  bool
}

// CompanySummary aggregates tenant-wide asset ownership.
type CompanySummary struct {
	TotalCompanies int64            `json:"total_companies"`
	AssetCounts    map[string]int64 `json:"asset_counts"`
}

type ListResponse struct {
	Assets         []Response      `json:"assets"`
	Total          int64           `json:"total"`
	Page           int             `json:"page"`
	Limit          int             `json:"limit"`
	CompanySummary *CompanySummary `json:"company_summary,omitempty"`
}

// CompanyReport aggregates maintenance posture for a single company.
type CompanyReport struct {
	CompanyID            string           `json:"company_id"`
	TotalAssets          int64            `json:"total_assets"`
	AssetsWithSchedules  int64            `json:"assets_with_maintenance"`
	TotalSchedules       int64            `json:"total_schedules"`
	OverdueMaintenances  int64            `json:"overdue_maintenances"`
	UpcomingMaintenances int64            `json:"upcoming_maintenances"`
	ByMaintenanceType    map[string]int64 `json:"maintenance_by_type"`
	ComplianceRate       float64          `json:"compliance_rate"`
}

type CreateScheduleRequest struct {
	AssetID           string    `json:"asset_id"`
	ScheduleName      string    `json:"schedule_name"`
	MaintenanceType   string    `json:"maintenance_type"`
	FrequencyInterval int       `json:"frequency_interval"`
	NextMaintenance   time.Time `json:"next_maintenance"`
}

type RecordMaintenanceRequest struct {
	ScheduleID  string     `json:"schedule_id"`
	PerformedAt *time.Time `json:"performed_at"`
}

// ListFilter is the repository-level filter, IDs already parsed.
type ListFilter struct {
	CompanyID         snowflake.ID
	CompanyName       string
	TypeID            snowflake.ID
	Status            string
	Search            string
	MaintenanceStatus string
	MaintenanceType   string
	Limit             int
	Offset            int
}

// Maintenance status values derivable from schedules.
const (
	MaintenanceStatusDue       = "due"
	MaintenanceStatusOverdue   = "overdue"
	MaintenanceStatusUpcoming  = "upcoming"
	MaintenanceStatusCompleted = "completed"
)

var (
	ErrInvalidTenant          = errors.New("invalid_tenant")
	ErrInvalidID              = errors.New("invalid_id")
	ErrInvalidName            = errors.New("invalid_name")
	ErrInvalidAssetTag        = errors.New("invalid_asset_tag")
	ErrCompanyRequired        = errors.New("company_required")
	ErrTypeRequired           = errors.New("asset_type_required")
	ErrNotFound               = errors.New("asset_not_found")
	ErrCompanyNotFound        = errors.New("company_not_found")
	ErrTypeNotFound           = errors.New("asset_type_not_found")
	ErrScheduleNotFound       = errors.New("maintenance_schedule_not_found")
	ErrInvalidMaintenanceType = errors.New("invalid_maintenance_type")
	ErrInvalidFrequency       = errors.New("invalid_frequency_interval")
)
