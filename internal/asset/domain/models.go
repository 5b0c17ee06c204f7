// Package domain contains persistence models for managed assets and their
// type-specific extension tables.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Asset is the base record shared by every asset regardless of type.
type Asset struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"asset_id"`
	TenantID        snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	TypeID          snowflake.ID `gorm:"not null;index" json:"type_id"`
	CompanyID       snowflake.ID `gorm:"not null;index" json:"company_id"`
	AssetTag        string       `gorm:"type:text;not null" json:"asset_tag"`
	SerialNumber    string       `gorm:"type:text" json:"serial_number,omitempty"`
	Name            string       `gorm:"type:text;not null" json:"name"`
	Status          string       `gorm:"type:text;not null" json:"status"`
	Location        string       `gorm:"type:text" json:"location,omitempty"`
	PurchaseDate    *time.Time   `gorm:"" json:"purchase_date,omitempty"`
	WarrantyEndDate *time.Time   `gorm:"" json:"warranty_end_date,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Asset) TableName() string { return "assets" }

// WorkstationAsset holds fields specific to desktop and laptop machines.
type WorkstationAsset struct {
	AssetID           snowflake.ID `gorm:"primaryKey" json:"asset_id"`
	TenantID          snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	OSType            string       `gorm:"type:text" json:"os_type,omitempty"`
	OSVersion         string       `gorm:"type:text" json:"os_version,omitempty"`
	CPUModel          string       `gorm:"type:text" json:"cpu_model,omitempty"`
	CPUCores          int          `gorm:"" json:"cpu_cores,omitempty"`
	RAMGB             int          `gorm:"column:ram_gb" json:"ram_gb,omitempty"`
	StorageType       string       `gorm:"type:text" json:"storage_type,omitempty"`
	StorageCapacityGB int          `gorm:"column:storage_capacity_gb" json:"storage_capacity_gb,omitempty"`
	GPUModel          string       `gorm:"type:text" json:"gpu_model,omitempty"`
	LastLogin         *time.Time   `gorm:"" json:"last_login,omitempty"`
}

// TableName sets the database table name.
func (WorkstationAsset) TableName() string { return "workstation_assets" }

// NetworkDeviceAsset holds fields specific to switches, routers and firewalls.
type NetworkDeviceAsset struct {
	AssetID         snowflake.ID      `gorm:"primaryKey" json:"asset_id"`
	TenantID        snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	DeviceType      string            `gorm:"type:text" json:"device_type,omitempty"`
	ManagementIP    string            `gorm:"type:text" json:"management_ip,omitempty"`
	PortCount       int               `gorm:"" json:"port_count,omitempty"`
	FirmwareVersion string            `gorm:"type:text" json:"firmware_version,omitempty"`
	SupportsPoE     bool              `gorm:"column:supports_poe" json:"supports_poe,omitempty"`
	PowerDrawWatts  float64           `gorm:"" json:"power_draw_watts,omitempty"`
	VLANConfig      datatypes.JSONMap `gorm:"column:vlan_config;type:jsonb" json:"vlan_config,omitempty"`
}

// TableName sets the database table name.
func (NetworkDeviceAsset) TableName() string { return "network_device_assets" }

// ServerAsset holds fields specific to physical and virtual servers.
type ServerAsset struct {
	AssetID           snowflake.ID      `gorm:"primaryKey" json:"asset_id"`
	TenantID          snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	OSType            string            `gorm:"type:text" json:"os_type,omitempty"`
	OSVersion         string            `gorm:"type:text" json:"os_version,omitempty"`
	CPUModel          string            `gorm:"type:text" json:"cpu_model,omitempty"`
	CPUCores          int               `gorm:"" json:"cpu_cores,omitempty"`
	RAMGB             int               `gorm:"column:ram_gb" json:"ram_gb,omitempty"`
	StorageConfig     datatypes.JSONMap `gorm:"type:jsonb" json:"storage_config,omitempty"`
	RAIDConfig        string            `gorm:"column:raid_config;type:text" json:"raid_config,omitempty"`
	IsVirtual         bool              `gorm:"not null;default:false" json:"is_virtual"`
	HypervisorType    string            `gorm:"type:text" json:"hypervisor_type,omitempty"`
	NetworkInterfaces datatypes.JSONMap `gorm:"type:jsonb" json:"network_interfaces,omitempty"`
}

// TableName sets the database table name.
func (ServerAsset) TableName() string { return "server_assets" }

// MobileDeviceAsset holds fields specific to phones and tablets.
type MobileDeviceAsset struct {
	AssetID      snowflake.ID `gorm:"primaryKey" json:"asset_id"`
	TenantID     snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	OSType       string       `gorm:"type:text" json:"os_type,omitempty"`
	OSVersion    string       `gorm:"type:text" json:"os_version,omitempty"`
	Model        string       `gorm:"type:text" json:"model,omitempty"`
	IMEI         string       `gorm:"column:imei;type:text" json:"imei,omitempty"`
	PhoneNumber  string       `gorm:"type:text" json:"phone_number,omitempty"`
	Carrier      string       `gorm:"type:text" json:"carrier,omitempty"`
	IsSupervised bool         `gorm:"not null;default:false" json:"is_supervised"`
	LastCheckIn  *time.Time   `gorm:"" json:"last_check_in,omitempty"`
}

// TableName sets the database table name.
func (MobileDeviceAsset) TableName() string { return "mobile_device_assets" }

// PrinterAsset holds fields specific to printers and multifunction devices.
type PrinterAsset struct {
	AssetID          snowflake.ID      `gorm:"primaryKey" json:"asset_id"`
	TenantID         snowflake.ID      `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	Model            string            `gorm:"type:text" json:"model,omitempty"`
	IPAddress        string            `gorm:"type:text" json:"ip_address,omitempty"`
	IsNetworkPrinter bool              `gorm:"not null;default:false" json:"is_network_printer"`
	SupportsColor    bool              `gorm:"not null;default:false" json:"supports_color"`
	SupportsDuplex   bool              `gorm:"not null;default:false" json:"supports_duplex"`
	MonthlyDutyCycle int               `gorm:"" json:"monthly_duty_cycle,omitempty"`
	SuppliesData     datatypes.JSONMap `gorm:"type:jsonb" json:"supplies_data,omitempty"`
}

// TableName sets the database table name.
func (PrinterAsset) TableName() string { return "printer_assets" }

// Maintenance types recognized by schedule reporting.
const (
	MaintenancePreventive  = "preventive"
	MaintenanceInspection  = "inspection"
	MaintenanceCalibration = "calibration"
	MaintenanceReplacement = "replacement"
)

// MaintenanceTypes lists the fixed set used by reporting breakdowns.
var MaintenanceTypes = []string{
	MaintenancePreventive,
	MaintenanceInspection,
	MaintenanceCalibration,
	MaintenanceReplacement,
}

// MaintenanceSchedule plans recurring upkeep for an asset.
type MaintenanceSchedule struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"schedule_id"`
	TenantID          snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	AssetID           snowflake.ID `gorm:"not null;index" json:"asset_id"`
	ScheduleName      string       `gorm:"type:text;not null" json:"schedule_name"`
	MaintenanceType   string       `gorm:"type:text;not null" json:"maintenance_type"`
	FrequencyInterval int          `gorm:"not null" json:"frequency_interval"`
	IsActive          bool         `gorm:"not null;default:true" json:"is_active"`
	LastMaintenance   *time.Time   `gorm:"" json:"last_maintenance,omitempty"`
	NextMaintenance   time.Time    `gorm:"not null" json:"next_maintenance"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (MaintenanceSchedule) TableName() string { return "asset_maintenance_schedules" }
