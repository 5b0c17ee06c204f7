package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/clock"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	"github.com/smallbiznis/mspdesk/internal/credit/domain"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	CompanyRepo companydomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	companyRepo companydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("credit.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
	}
}

func (s *Service) IssueCredit(ctx context.Context, req domain.IssueCreditRequest) (*domain.CreditTracking, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if req.ExpirationDate != nil && beforeToday(*req.ExpirationDate, s.clock.Now()) {
		return nil, domain.ErrExpirationInPast
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	now := s.clock.Now().UTC()
	tracking := &domain.CreditTracking{
		ID:              s.genID.Generate(),
		TenantID:        tenantID,
		CompanyID:       companyID,
		Amount:          req.Amount,
		RemainingAmount: req.Amount,
		ExpirationDate:  req.ExpirationDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertTracking(ctx, tx, tracking); err != nil {
			return err
		}
		creditID := tracking.ID
		if err := s.repo.InsertTransaction(ctx, tx, &domain.CreditTransaction{
			ID:         s.genID.Generate(),
			TenantID:   tenantID,
			CompanyID:  companyID,
			CreditID:   &creditID,
			Type:       domain.TxnIssuance,
			Amount:     req.Amount,
			OccurredAt: now,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		return s.companyRepo.AddCreditBalance(ctx, tx, tenantID, companyID, req.Amount)
	})
	if err != nil {
		s.log.Error("failed to issue credit", zap.Error(err))
		return nil, err
	}

	return tracking, nil
}

func (s *Service) ApplyCredit(ctx context.Context, req domain.ApplyCreditRequest) (*domain.CreditTracking, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	creditID, err := snowflake.ParseString(strings.TrimSpace(req.CreditID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var tracking *domain.CreditTracking
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tracking, err = s.repo.FindTrackingByID(ctx, tx, tenantID, creditID)
		if err != nil {
			return err
		}
		if tracking == nil {
			return domain.ErrCreditNotFound
		}
		if tracking.RemainingAmount < req.Amount {
			return domain.ErrInsufficientCredit
		}

		now := s.clock.Now().UTC()
		tracking.RemainingAmount -= req.Amount
		tracking.UpdatedAt = now
		if err := s.repo.UpdateTracking(ctx, tx, tracking); err != nil {
			return err
		}

		if err := s.repo.InsertTransaction(ctx, tx, &domain.CreditTransaction{
			ID:         s.genID.Generate(),
			TenantID:   tenantID,
			CompanyID:  tracking.CompanyID,
			CreditID:   &creditID,
			Type:       domain.TxnApplication,
			Amount:     -req.Amount,
			OccurredAt: now,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
		return s.companyRepo.AddCreditBalance(ctx, tx, tenantID, tracking.CompanyID, -req.Amount)
	})
	if err != nil {
		return nil, err
	}

	return tracking, nil
}

// UpdateExpiration changes or clears a credit's expiration. A new date
// strictly before today, date-only, is rejected.
func (s *Service) UpdateExpiration(ctx context.Context, creditID string, newDate *time.Time) (*domain.CreditTracking, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(creditID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	if newDate != nil && beforeToday(*newDate, s.clock.Now()) {
		return nil, domain.ErrExpirationInPast
	}

	tracking, err := s.repo.FindTrackingByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tracking == nil {
		return nil, domain.ErrCreditNotFound
	}

	tracking.ExpirationDate = newDate
	tracking.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateTracking(ctx, s.db, tracking); err != nil {
		return nil, err
	}
	return tracking, nil
}

func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]domain.CreditTracking, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(companyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	return s.repo.ListTrackingByCompany(ctx, s.db, tenantID, id)
}

// ValidateCompanyCredit reconciles the transaction ledger against the stored
// company balance. A nonzero difference creates an open report, or refreshes
// the company's existing open one.
func (s *Service) ValidateCompanyCredit(ctx context.Context, companyID, userID string) (*domain.ValidationResult, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(companyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	expected, err := s.repo.SumTransactions(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}

	missing, inconsistent, err := s.auditTrackings(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	result := &domain.ValidationResult{
		CompanyID:            id.String(),
		ExpectedBalance:      expected,
		ActualBalance:        company.CreditBalance,
		Difference:           expected - company.CreditBalance,
		MissingTracking:      missing,
		InconsistentTracking: inconsistent,
	}

	if result.Difference == 0 {
		return result, nil
	}

	now := s.clock.Now().UTC()
	report, err := s.repo.FindOpenReportByCompany(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if report != nil {
		report.ExpectedBalance = result.ExpectedBalance
		report.ActualBalance = result.ActualBalance
		report.Difference = result.Difference
		report.MissingTracking = missing
		report.InconsistentTracking = inconsistent
		report.DetectionDate = now
		report.ValidatedBy = strings.TrimSpace(userID)
		report.UpdatedAt = now
		if err := s.repo.UpdateReport(ctx, s.db, report); err != nil {
			return nil, err
		}
	} else {
		report = &domain.CreditReconciliationReport{
			ID:                   s.genID.Generate(),
			TenantID:             tenantID,
			CompanyID:            id,
			ExpectedBalance:      result.ExpectedBalance,
			ActualBalance:        result.ActualBalance,
			Difference:           result.Difference,
			MissingTracking:      missing,
			InconsistentTracking: inconsistent,
			DetectionDate:        now,
			Status:               domain.StatusOpen,
			ValidatedBy:          strings.TrimSpace(userID),
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := s.repo.InsertReport(ctx, s.db, report); err != nil {
			return nil, err
		}
	}

	s.log.Warn("credit discrepancy detected",
		zap.String("company_id", id.String()),
		zap.Int64("difference", result.Difference),
	)

	result.Report = report
	return result, nil
}

// auditTrackings counts issuance transactions without a tracking row and
// tracking rows whose remaining amount disagrees with the ledger.
func (s *Service) auditTrackings(ctx context.Context, tenantID, companyID snowflake.ID) (missing, inconsistent int64, err error) {
	trackings, err := s.repo.ListTrackingByCompany(ctx, s.db, tenantID, companyID)
	if err != nil {
		return 0, 0, err
	}
	known := make(map[snowflake.ID]bool, len(trackings))
	for _, t := range trackings {
		known[t.ID] = true
	}

	txns, err := s.repo.ListTransactionsByCompany(ctx, s.db, tenantID, companyID)
	if err != nil {
		return 0, 0, err
	}
	for _, txn := range txns {
		if txn.Type != domain.TxnIssuance {
			continue
		}
		if txn.CreditID == nil || !known[*txn.CreditID] {
			missing++
		}
	}

	for _, t := range trackings {
		applied, err := s.repo.SumApplications(ctx, s.db, tenantID, t.ID)
		if err != nil {
			return 0, 0, err
		}
		if t.RemainingAmount != t.Amount-applied || t.RemainingAmount < 0 || t.RemainingAmount > t.Amount {
			inconsistent++
		}
	}
	return missing, inconsistent, nil
}

func (s *Service) MarkInReview(ctx context.Context, reportID, userID string) (*domain.CreditReconciliationReport, error) {
	return s.transition(ctx, reportID, userID, domain.StatusInReview)
}

func (s *Service) ResolveReport(ctx context.Context, reportID, userID string) (*domain.CreditReconciliationReport, error) {
	return s.transition(ctx, reportID, userID, domain.StatusResolved)
}

func (s *Service) transition(ctx context.Context, reportID, userID, to string) (*domain.CreditReconciliationReport, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(reportID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	report, err := s.repo.FindReportByID(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, domain.ErrReportNotFound
	}

	if !domain.ValidTransition(report.Status, to) {
		return nil, domain.ErrInvalidStatusTransition
	}

	report.Status = to
	report.ValidatedBy = strings.TrimSpace(userID)
	report.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateReport(ctx, s.db, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) ListReports(ctx context.Context, req domain.ListReportsRequest) ([]domain.CreditReconciliationReport, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	var companyID snowflake.ID
	if v := strings.TrimSpace(req.CompanyID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		companyID = id
	}

	return s.repo.ListReports(ctx, s.db, tenantID, companyID, strings.TrimSpace(req.Status))
}

// beforeToday compares dates only, ignoring the time of day.
func beforeToday(t, now time.Time) bool {
	ty, tm, td := t.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).
		Before(time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC))
}
