package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/asset/domain"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dueWindow is how far ahead a schedule still counts as "due" rather than
// merely "upcoming".
const dueWindow = 7 * 24 * time.Hour

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, asset *domain.Asset) error {
	return db.WithContext(ctx).Create(asset).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Asset, error) {
	var asset domain.Asset
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, asset *domain.Asset) error {
	if asset == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE assets
		 SET asset_tag = ?, serial_number = ?, name = ?, status = ?, location = ?,
		     purchase_date = ?, warranty_end_date = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		asset.AssetTag,
		asset.SerialNumber,
		asset.Name,
		asset.Status,
		asset.Location,
		asset.PurchaseDate,
		asset.WarrantyEndDate,
		asset.UpdatedAt,
		asset.TenantID,
		asset.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Asset{}).Error
}

// applyListFilters builds the filtered query. It is called once for the count
// and once for the page so the total always matches the applied filters.
func (r *repo) applyListFilters(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListFilter, now time.Time) *gorm.DB {
	stmt := db.WithContext(ctx).
		Model(&domain.Asset{}).
		Where("assets.tenant_id = ?", tenantID)

	if filter.CompanyID != 0 {
		stmt = stmt.Where("assets.company_id = ?", filter.CompanyID)
	}
	if filter.CompanyName != "" {
		stmt = stmt.
			Joins("JOIN companies ON companies.id = assets.company_id AND companies.tenant_id = assets.tenant_id").
			Where("LOWER(companies.name) LIKE ?", "%"+strings.ToLower(filter.CompanyName)+"%")
	}
	if filter.TypeID != 0 {
		stmt = stmt.Where("assets.type_id = ?", filter.TypeID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("assets.status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		stmt = stmt.Where(
			"(LOWER(assets.name) LIKE ? OR LOWER(assets.asset_tag) LIKE ? OR LOWER(assets.serial_number) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	switch filter.MaintenanceStatus {
	case domain.MaintenanceStatusOverdue:
		stmt = stmt.Where(
			`EXISTS (SELECT 1 FROM asset_maintenance_schedules s
			 WHERE s.tenant_id = assets.tenant_id AND s.asset_id = assets.id
			   AND s.is_active AND s.next_maintenance < ?)`, now)
	case domain.MaintenanceStatusDue:
		stmt = stmt.Where(
			`EXISTS (SELECT 1 FROM asset_maintenance_schedules s
			 WHERE s.tenant_id = assets.tenant_id AND s.asset_id = assets.id
			   AND s.is_active AND s.next_maintenance >= ? AND s.next_maintenance < ?)`, now, now.Add(dueWindow))
	case domain.MaintenanceStatusUpcoming:
		stmt = stmt.Where(
			`EXISTS (SELECT 1 FROM asset_maintenance_schedules s
			 WHERE s.tenant_id = assets.tenant_id AND s.asset_id = assets.id
			   AND s.is_active AND s.next_maintenance >= ?)`, now)
	case domain.MaintenanceStatusCompleted:
		stmt = stmt.Where(
			`EXISTS (SELECT 1 FROM asset_maintenance_schedules s
			 WHERE s.tenant_id = assets.tenant_id AND s.asset_id = assets.id
			   AND s.last_maintenance IS NOT NULL)`)
	}

	if filter.MaintenanceType != "" {
		stmt = stmt.Where(
			`EXISTS (SELECT 1 FROM asset_maintenance_schedules s
			 WHERE s.tenant_id = assets.tenant_id AND s.asset_id = assets.id
			   AND s.maintenance_type = ?)`, filter.MaintenanceType)
	}

	return stmt
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListFilter, now time.Time) ([]domain.Asset, int64, error) {
	var total int64
	if err := r.applyListFilters(ctx, db, tenantID, filter, now).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.Asset
	err := r.applyListFilters(ctx, db, tenantID, filter, now).
		Order("assets.created_at DESC, assets.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) CompanySummary(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (*domain.CompanySummary, error) {
	var rows []struct {
		CompanyID snowflake.ID `gorm:"column:company_id"`
		Count     int64        `gorm:"column:cnt"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT company_id, COUNT(*) AS cnt FROM assets WHERE tenant_id = ? GROUP BY company_id`,
		tenantID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summary := &domain.CompanySummary{
		TotalCompanies: int64(len(rows)),
		AssetCounts:    make(map[string]int64, len(rows)),
	}
	for _, row := range rows {
		summary.AssetCounts[row.CompanyID.String()] = row.Count
	}
	return summary, nil
}

func (r *repo) UpsertExtension(ctx context.Context, db *gorm.DB, ext domain.Extension) error {
	if ext.IsZero() {
		return nil
	}

	// Native upsert keyed on asset_id; no check-then-write window.
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}},
		UpdateAll: true,
	}
	stmt := db.WithContext(ctx).Clauses(onConflict)

	switch ext.Kind {
	case assettypedomain.KindWorkstation:
		return stmt.Create(ext.Workstation).Error
	case assettypedomain.KindNetworkDevice:
		return stmt.Create(ext.NetworkDevice).Error
	case assettypedomain.KindServer:
		return stmt.Create(ext.Server).Error
	case assettypedomain.KindMobileDevice:
		return stmt.Create(ext.MobileDevice).Error
	case assettypedomain.KindPrinter:
		return stmt.Create(ext.Printer).Error
	default:
		return nil
	}
}

func (r *repo) GetExtension(ctx context.Context, db *gorm.DB, tenantID, assetID snowflake.ID, kind assettypedomain.ExtensionKind) (domain.Extension, error) {
	ext := domain.Extension{Kind: kind}
	stmt := db.WithContext(ctx).Where("tenant_id = ? AND asset_id = ?", tenantID, assetID)

	var err error
	switch kind {
	case assettypedomain.KindWorkstation:
		var row domain.WorkstationAsset
		if err = stmt.First(&row).Error; err == nil {
			ext.Workstation = &row
		}
	case assettypedomain.KindNetworkDevice:
		var row domain.NetworkDeviceAsset
		if err = stmt.First(&row).Error; err == nil {
			ext.NetworkDevice = &row
		}
	case assettypedomain.KindServer:
		var row domain.ServerAsset
		if err = stmt.First(&row).Error; err == nil {
			ext.Server = &row
		}
	case assettypedomain.KindMobileDevice:
		var row domain.MobileDeviceAsset
		if err = stmt.First(&row).Error; err == nil {
			ext.MobileDevice = &row
		}
	case assettypedomain.KindPrinter:
		var row domain.PrinterAsset
		if err = stmt.First(&row).Error; err == nil {
			ext.Printer = &row
		}
	default:
		return ext, nil
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Extension{Kind: kind}, err
	}
	return ext, nil
}

func (r *repo) InsertSchedule(ctx context.Context, db *gorm.DB, schedule *domain.MaintenanceSchedule) error {
	return db.WithContext(ctx).Create(schedule).Error
}

func (r *repo) FindScheduleByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.MaintenanceSchedule, error) {
	var schedule domain.MaintenanceSchedule
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *repo) UpdateSchedule(ctx context.Context, db *gorm.DB, schedule *domain.MaintenanceSchedule) error {
	if schedule == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE asset_maintenance_schedules
		 SET schedule_name = ?, maintenance_type = ?, frequency_interval = ?, is_active = ?,
		     last_maintenance = ?, next_maintenance = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		schedule.ScheduleName,
		schedule.MaintenanceType,
		schedule.FrequencyInterval,
		schedule.IsActive,
		schedule.LastMaintenance,
		schedule.NextMaintenance,
		schedule.UpdatedAt,
		schedule.TenantID,
		schedule.ID,
	).Error
}

func (r *repo) MaintenanceAggregate(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID, now time.Time) (*domain.MaintenanceAggregate, error) {
	agg := &domain.MaintenanceAggregate{
		CountsByType: make(map[string]int64, len(domain.MaintenanceTypes)),
	}
	for _, maintenanceType := range domain.MaintenanceTypes {
		agg.CountsByType[maintenanceType] = 0
	}

	err := db.WithContext(ctx).
		Table("assets").
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID).
		Count(&agg.TotalAssets).Error
	if err != nil {
		return nil, err
	}

	var totals struct {
		TotalSchedules      int64 `gorm:"column:total_schedules"`
		AssetsWithSchedules int64 `gorm:"column:assets_with_schedules"`
		FrequencySum        int64 `gorm:"column:frequency_sum"`
		Completed           int64 `gorm:"column:completed"`
		Overdue             int64 `gorm:"column:overdue"`
		Upcoming            int64 `gorm:"column:upcoming"`
	}
	err = db.WithContext(ctx).Raw(
		`SELECT
		   COUNT(*) AS total_schedules,
		   COUNT(DISTINCT s.asset_id) AS assets_with_schedules,
		   COALESCE(SUM(s.frequency_interval), 0) AS frequency_sum,
		   COALESCE(SUM(CASE WHEN s.last_maintenance IS NOT NULL THEN 1 ELSE 0 END), 0) AS completed,
		   COALESCE(SUM(CASE WHEN s.is_active AND s.next_maintenance < ? THEN 1 ELSE 0 END), 0) AS overdue,
		   COALESCE(SUM(CASE WHEN s.is_active AND s.next_maintenance >= ? THEN 1 ELSE 0 END), 0) AS upcoming
		 FROM asset_maintenance_schedules s
		 JOIN assets a ON a.id = s.asset_id AND a.tenant_id = s.tenant_id
		 WHERE s.tenant_id = ? AND a.company_id = ?`,
		now, now, tenantID, companyID,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	agg.TotalSchedules = totals.TotalSchedules
	agg.AssetsWithSchedules = totals.AssetsWithSchedules
	agg.FrequencySum = totals.FrequencySum
	agg.Completed = totals.Completed
	agg.Overdue = totals.Overdue
	agg.Upcoming = totals.Upcoming

	var byType []struct {
		MaintenanceType string `gorm:"column:maintenance_type"`
		Count           int64  `gorm:"column:cnt"`
	}
	err = db.WithContext(ctx).Raw(
		`SELECT s.maintenance_type AS maintenance_type, COUNT(*) AS cnt
		 FROM asset_maintenance_schedules s
		 JOIN assets a ON a.id = s.asset_id AND a.tenant_id = s.tenant_id
		 WHERE s.tenant_id = ? AND a.company_id = ?
		 GROUP BY s.maintenance_type`,
		tenantID, companyID,
	).Scan(&byType).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byType {
		agg.CountsByType[row.MaintenanceType] = row.Count
	}

	return agg, nil
}
