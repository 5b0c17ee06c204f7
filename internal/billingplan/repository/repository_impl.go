package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreatePlan(ctx context.Context, db *gorm.DB, plan *domain.BillingPlan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindPlanByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.BillingPlan, error) {
	var plan domain.BillingPlan
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req domain.ListPlansRequest) ([]domain.BillingPlan, int64, error) {
	base := func() *gorm.DB {
		stmt := db.WithContext(ctx).
			Model(&domain.BillingPlan{}).
			Where("tenant_id = ?", tenantID)
		if req.Search != "" {
			stmt = stmt.Where("LOWER(plan_name) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
		}
		if req.PlanType != "" {
			stmt = stmt.Where("plan_type = ?", req.PlanType)
		}
		return stmt
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.BillingPlan
	err := base().
		Order("plan_name ASC").
		Limit(req.Limit).
		Offset(req.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) UpdatePlan(ctx context.Context, db *gorm.DB, plan *domain.BillingPlan) error {
	if plan == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE billing_plans
		 SET plan_name = ?, billing_frequency = ?, plan_type = ?, is_custom = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		plan.Name,
		plan.BillingFrequency,
		plan.PlanType,
		plan.IsCustom,
		plan.UpdatedAt,
		plan.TenantID,
		plan.ID,
	).Error
}

func (r *repo) DeletePlan(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.BillingPlan{}).Error
}

func (r *repo) CountServices(ctx context.Context, db *gorm.DB, tenantID, planID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.PlanService{}).
		Where("tenant_id = ? AND plan_id = ?", tenantID, planID).
		Count(&count).Error
	return count, err
}

func (r *repo) CountAssignments(ctx context.Context, db *gorm.DB, tenantID, planID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.CompanyBillingPlan{}).
		Where("tenant_id = ? AND plan_id = ?", tenantID, planID).
		Count(&count).Error
	return count, err
}

func (r *repo) InsertLink(ctx context.Context, db *gorm.DB, link *domain.PlanService) error {
	return db.WithContext(ctx).Create(link).Error
}

func (r *repo) FindLink(ctx context.Context, db *gorm.DB, tenantID, planID, serviceID snowflake.ID) (*domain.PlanService, error) {
	var link domain.PlanService
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND plan_id = ? AND service_id = ?", tenantID, planID, serviceID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *repo) UpdateLink(ctx context.Context, db *gorm.DB, link *domain.PlanService) error {
	if link == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE plan_services SET quantity = ?, custom_rate = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		link.Quantity,
		link.CustomRate,
		link.UpdatedAt,
		link.TenantID,
		link.ID,
	).Error
}

func (r *repo) DeleteLink(ctx context.Context, db *gorm.DB, tenantID, planID, serviceID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND plan_id = ? AND service_id = ?", tenantID, planID, serviceID).
		Delete(&domain.PlanService{}).Error
}

func (r *repo) ListLinks(ctx context.Context, db *gorm.DB, tenantID, planID snowflake.ID) ([]domain.PlanServiceView, error) {
	var rows []struct {
		domain.PlanService
		ServiceName string `gorm:"column:service_name"`
		DefaultRate int64  `gorm:"column:default_rate"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT ps.*, s.service_name, s.default_rate
		 FROM plan_services ps
		 JOIN services s ON s.id = ps.service_id AND s.tenant_id = ps.tenant_id
		 WHERE ps.tenant_id = ? AND ps.plan_id = ?
		 ORDER BY s.service_name ASC`,
		tenantID, planID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]domain.PlanServiceView, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.PlanServiceView{
			PlanService:   row.PlanService,
			ServiceName:   row.ServiceName,
			EffectiveRate: row.PlanService.EffectiveRate(row.DefaultRate),
		})
	}
	return views, nil
}

func (r *repo) InsertAssignment(ctx context.Context, db *gorm.DB, assignment *domain.CompanyBillingPlan) error {
	return db.WithContext(ctx).Create(assignment).Error
}

func (r *repo) FindAssignmentByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.CompanyBillingPlan, error) {
	var assignment domain.CompanyBillingPlan
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *repo) CloseAssignment(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, endedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE company_billing_plans SET is_active = ?, end_date = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		false,
		endedAt,
		endedAt,
		tenantID,
		id,
	).Error
}

func (r *repo) ListAssignmentsByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) ([]domain.CompanyBillingPlan, error) {
	var assignments []domain.CompanyBillingPlan
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID).
		Order("start_date DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
