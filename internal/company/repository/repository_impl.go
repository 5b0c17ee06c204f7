package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	return db.WithContext(ctx).Create(company).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Company, error) {
	var company domain.Company
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, filter domain.ListRequest) ([]domain.Company, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("tenant_id = ?", tenantID)

	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+filter.Name+"%")
	}
	if !filter.IncludeInactive {
		stmt = stmt.Where("is_inactive = ?", false)
	}

	var items []domain.Company
	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, company *domain.Company) error {
	if company == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE companies
		 SET name = ?, email = ?, phone = ?, address_line = ?, is_inactive = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		company.Name,
		company.Email,
		company.Phone,
		company.AddressLine,
		company.IsInactive,
		company.UpdatedAt,
		company.TenantID,
		company.ID,
	).Error
}

func (r *repo) AddCreditBalance(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, delta int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE companies SET credit_balance = credit_balance + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE tenant_id = ? AND id = ?`,
		delta,
		tenantID,
		id,
	).Error
}
