package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertTracking(ctx context.Context, db *gorm.DB, tracking *CreditTracking) error
	FindTrackingByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*CreditTracking, error)
	ListTrackingByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) ([]CreditTracking, error)
	UpdateTracking(ctx context.Context, db *gorm.DB, tracking *CreditTracking) error

	InsertTransaction(ctx context.Context, db *gorm.DB, txn *CreditTransaction) error
	ListTransactionsByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) ([]CreditTransaction, error)
	SumTransactions(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) (int64, error)
	SumApplications(ctx context.Context, db *gorm.DB, tenantID, creditID snowflake.ID) (int64, error)

	InsertReport(ctx context.Context, db *gorm.DB, report *CreditReconciliationReport) error
	FindReportByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*CreditReconciliationReport, error)
	FindOpenReportByCompany(ctx context.Context, db *gorm.DB, tenantID, companyID snowflake.ID) (*CreditReconciliationReport, error)
	UpdateReport(ctx context.Context, db *gorm.DB, report *CreditReconciliationReport) error
	ListReports(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, companyID snowflake.ID, status string) ([]CreditReconciliationReport, error)
}
