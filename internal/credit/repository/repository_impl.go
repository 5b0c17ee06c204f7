package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/credit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertTracking(ctx context.Context, db *gorm.DB, tracking *domain.CreditTracking) error {
	return db.WithContext(ctx).Create(tracking).Error
}

func (r *repo) FindTrackingByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.CreditTracking, error) {
	var tracking domain.CreditTracking
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&tracking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tracking, nil
}

func (r *repo) ListTrackingByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) ([]domain.CreditTracking, error) {
	var trackings []domain.CreditTracking
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID).
		Order("created_at DESC").
		Find(&trackings).Error
	if err != nil {
		return nil, err
	}
	return trackings, nil
}

func (r *repo) UpdateTracking(ctx context.Context, db *gorm.DB, tracking *domain.CreditTracking) error {
	if tracking == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE credit_tracking
		 SET remaining_amount = ?, expiration_date = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		tracking.RemainingAmount,
		tracking.ExpirationDate,
		tracking.UpdatedAt,
		tracking.TenantID,
		tracking.ID,
	).Error
}

func (r *repo) InsertTransaction(ctx context.Context, db *gorm.DB, txn *domain.CreditTransaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) ListTransactionsByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) ([]domain.CreditTransaction, error) {
	var txns []domain.CreditTransaction
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID).
		Order("occurred_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repo) SumTransactions(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) (int64, error) {
	var sum int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0) FROM credit_transactions
		 WHERE tenant_id = ? AND company_id = ?`,
		tenantID, companyID,
	).Scan(&sum).Error
	return sum, err
}

func (r *repo) SumApplications(ctx context.Context, db *gorm.DB, tenantID, creditID snowflake.ID) (int64, error) {
	var sum int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(-amount), 0) FROM credit_transactions
		 WHERE tenant_id = ? AND credit_id = ? AND type = ?`,
		tenantID, creditID, domain.TxnApplication,
	).Scan(&sum).Error
	return sum, err
}

func (r *repo) InsertReport(ctx context.Context, db *gorm.DB, report *domain.CreditReconciliationReport) error {
	return db.WithContext(ctx).Create(report).Error
}

func (r *repo) FindReportByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.CreditReconciliationReport, error) {
	var report domain.CreditReconciliationReport
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *repo) FindOpenReportByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) (*domain.CreditReconciliationReport, error) {
	var report domain.CreditReconciliationReport
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND company_id = ? AND status = ?", tenantID, companyID, domain.StatusOpen).
		Order("detection_date DESC").
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *repo) UpdateReport(ctx context.Context, db *gorm.DB, report *domain.CreditReconciliationReport) error {
	if report == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE credit_reconciliation_reports
		 SET expected_balance = ?, actual_balance = ?, difference = ?,
		     missing_tracking = ?, inconsistent_tracking = ?, detection_date = ?,
		     status = ?, validated_by = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		report.ExpectedBalance,
		report.ActualBalance,
		report.Difference,
		report.MissingTracking,
		report.InconsistentTracking,
		report.DetectionDate,
		report.Status,
		report.ValidatedBy,
		report.UpdatedAt,
		report.TenantID,
		report.ID,
	).Error
}

func (r *repo) ListReports(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, companyID snowflake.ID, status string) ([]domain.CreditReconciliationReport, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.CreditReconciliationReport{}).
		Where("tenant_id = ?", tenantID)
	if companyID != 0 {
		stmt = stmt.Where("company_id = ?", companyID)
	}
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}

	var reports []domain.CreditReconciliationReport
	if err := stmt.Order("detection_date DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
