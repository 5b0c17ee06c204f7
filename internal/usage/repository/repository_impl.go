package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.UsageRecord, error) {
	var record domain.UsageRecord
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListFilter) ([]domain.UsageRecord, int64, error) {
	base := func() *gorm.DB {
		stmt := db.WithContext(ctx).
			Model(&domain.UsageRecord{}).
			Where("tenant_id = ?", tenantID)
		if filter.CompanyID != 0 {
			stmt = stmt.Where("company_id = ?", filter.CompanyID)
		}
		if filter.ServiceID != 0 {
			stmt = stmt.Where("service_id = ?", filter.ServiceID)
		}
		if filter.From != nil {
			stmt = stmt.Where("usage_date >= ?", *filter.From)
		}
		if filter.To != nil {
			stmt = stmt.Where("usage_date < ?", *filter.To)
		}
		return stmt
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.UsageRecord
	err := base().
		Order("usage_date DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *domain.UsageRecord) error {
	if record == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE usage_records
		 SET company_id = ?, service_id = ?, quantity = ?, usage_date = ?,
		     billing_plan_id = ?, comments = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		record.CompanyID,
		record.ServiceID,
		record.Quantity,
		record.UsageDate,
		record.BillingPlanID,
		record.Comments,
		record.UpdatedAt,
		record.TenantID,
		record.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.UsageRecord{}).Error
}

func (r *repo) EligiblePlans(ctx context.Context, db *gorm.DB, tenantID, companyID, serviceID snowflake.ID, now time.Time) ([]domain.EligiblePlan, error) {
	var plans []domain.EligiblePlan
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT bp.id AS plan_id, bp.plan_name, bp.plan_type
		 FROM company_billing_plans cbp
		 JOIN billing_plans bp ON bp.id = cbp.plan_id AND bp.tenant_id = cbp.tenant_id
		 JOIN plan_services ps ON ps.plan_id = cbp.plan_id AND ps.tenant_id = cbp.tenant_id
		 WHERE cbp.tenant_id = ?
		   AND cbp.company_id = ?
		   AND ps.service_id = ?
		   AND cbp.is_active
		   AND cbp.start_date <= ?
		   AND (cbp.end_date IS NULL OR cbp.end_date > ?)
		 ORDER BY bp.plan_name ASC`,
		tenantID, companyID, serviceID, now, now,
	).Scan(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}
