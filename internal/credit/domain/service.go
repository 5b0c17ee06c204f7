package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidTenant            = errors.New("invalid_tenant")
	ErrInvalidID                = errors.New("invalid_id")
	ErrInvalidAmount            = errors.New("invalid_amount")
	ErrCompanyNotFound          = errors.New("company_not_found")
	ErrCreditNotFound           = errors.New("credit_not_found")
	ErrReportNotFound           = errors.New("reconciliation_report_not_found")
	ErrInsufficientCredit       = errors.New("insufficient_credit")
	ErrExpirationInPast         = errors.New("expiration_date_in_past")
	ErrInvalidStatusTransition  = errors.New("invalid_status_transition")
)

type IssueCreditRequest struct {
	CompanyID      string     `json:"company_id"`
	Amount         int64      `json:"amount"`
	ExpirationDate *time.Time `json:"expiration_date"`
}

type ApplyCreditRequest struct {
	CreditID string `json:"credit_id"`
	Amount   int64  `json:"amount"`
}

// ValidationResult is the outcome of reconciling a company's ledger against
// its stored balance.
type ValidationResult struct {
	CompanyID            string                      `json:"company_id"`
	ExpectedBalance      int64                       `json:"expected_balance"`
	ActualBalance        int64                       `json:"actual_balance"`
	Difference           int64                       `json:"difference"`
	MissingTracking      int64                       `json:"missing_tracking"`
	InconsistentTracking int64                       `json:"inconsistent_tracking"`
	Report               *CreditReconciliationReport `json:"report,omitempty"`
}

type ListReportsRequest struct {
	CompanyID string
	Status    string
}

type Service interface {
	IssueCredit(ctx context.Context, req IssueCreditRequest) (*CreditTracking, error)
	ApplyCredit(ctx context.Context, req ApplyCreditRequest) (*CreditTracking, error)
	UpdateExpiration(ctx context.Context, creditID string, newDate *time.Time) (*CreditTracking, error)
	ListByCompany(ctx context.Context, companyID string) ([]CreditTracking, error)

	ValidateCompanyCredit(ctx context.Context, companyID, userID string) (*ValidationResult, error)
	MarkInReview(ctx context.Context, reportID, userID string) (*CreditReconciliationReport, error)
	ResolveReport(ctx context.Context, reportID, userID string) (*CreditReconciliationReport, error)
	ListReports(ctx context.Context, req ListReportsRequest) ([]CreditReconciliationReport, error)
}
