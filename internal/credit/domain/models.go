// Package domain contains persistence models for company credits, their
// transaction ledger and reconciliation reports.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Credit transaction types. Issuances add to the balance, applications
// subtract; amounts are signed accordingly in the ledger.
const (
	TxnIssuance    = "issuance"
	TxnApplication = "application"
	TxnAdjustment  = "adjustment"
)

// Reconciliation report statuses. Reports only move forward; reopening a
// resolved discrepancy produces a new report.
const (
	StatusOpen     = "open"
	StatusInReview = "in_review"
	StatusResolved = "resolved"
)

// ValidTransition reports whether a report may move from one status to the
// next.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusOpen:
		return to == StatusInReview
	case StatusInReview:
		return to == StatusResolved
	}
	return false
}

// CreditTracking is an issued credit with its remaining balance. Remaining
// only ever decreases from the issued amount.
type CreditTracking struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"credit_id"`
	TenantID        snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CompanyID       snowflake.ID `gorm:"not null;index" json:"company_id"`
	Amount          int64        `gorm:"not null" json:"amount"`
	RemainingAmount int64        `gorm:"not null" json:"remaining_amount"`
	ExpirationDate  *time.Time   `gorm:"" json:"expiration_date,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CreditTracking) TableName() string { return "credit_tracking" }

// CreditTransaction is one signed ledger entry. The sum of a company's
// entries is its expected credit balance.
type CreditTransaction struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"transaction_id"`
	TenantID   snowflake.ID  `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CompanyID  snowflake.ID  `gorm:"not null;index" json:"company_id"`
	CreditID   *snowflake.ID `gorm:"index" json:"credit_id,omitempty"`
	Type       string        `gorm:"type:text;not null" json:"type"`
	Amount     int64         `gorm:"not null" json:"amount"`
	OccurredAt time.Time     `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CreditTransaction) TableName() string { return "credit_transactions" }

// CreditReconciliationReport records a detected mismatch between the ledger
// and the stored company balance.
type CreditReconciliationReport struct {
	ID                   snowflake.ID `gorm:"primaryKey" json:"report_id"`
	TenantID             snowflake.ID `gorm:"column:tenant_id;not null;index" json:"tenant_id"`
	CompanyID            snowflake.ID `gorm:"not null;index" json:"company_id"`
	ExpectedBalance      int64        `gorm:"not null" json:"expected_balance"`
	ActualBalance        int64        `gorm:"not null" json:"actual_balance"`
	Difference           int64        `gorm:"not null" json:"difference"`
	MissingTracking      int64        `gorm:"not null;default:0" json:"missing_tracking"`
	InconsistentTracking int64        `gorm:"not null;default:0" json:"inconsistent_tracking"`
	DetectionDate        time.Time    `gorm:"not null" json:"detection_date"`
	Status               string       `gorm:"type:text;not null" json:"status"`
	ValidatedBy          string       `gorm:"type:text" json:"validated_by,omitempty"`
	CreatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CreditReconciliationReport) TableName() string { return "credit_reconciliation_reports" }
