package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, service *domain.CatalogService) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.CatalogService, error) {
	var service domain.CatalogService
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, req domain.ListRequest) ([]domain.CatalogService, int64, error) {
	base := func() *gorm.DB {
		stmt := db.WithContext(ctx).
			Model(&domain.CatalogService{}).
			Where("tenant_id = ?", tenantID)
		if req.Search != "" {
			stmt = stmt.Where("LOWER(service_name) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
		}
		if req.BillingMethod != "" {
			stmt = stmt.Where("billing_method = ?", req.BillingMethod)
		}
		return stmt
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []domain.CatalogService
	err := base().
		Order("service_name ASC").
		Limit(req.Limit).
		Offset(req.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, service *domain.CatalogService) error {
	if service == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE services
		 SET service_name = ?, standard_service_type_id = ?, custom_service_type_id = ?,
		     billing_method = ?, default_rate = ?, unit_of_measure = ?,
		     is_taxable = ?, tax_region = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		service.Name,
		service.StandardServiceTypeID,
		service.CustomServiceTypeID,
		service.BillingMethod,
		service.DefaultRate,
		service.UnitOfMeasure,
		service.IsTaxable,
		service.TaxRegion,
		service.UpdatedAt,
		service.TenantID,
		service.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.CatalogService{}).Error
}

func (r *repo) CountPlanLinks(ctx context.Context, db *gorm.DB, tenantID, serviceID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Table("plan_services").
		Where("tenant_id = ? AND service_id = ?", tenantID, serviceID).
		Count(&count).Error
	return count, err
}
