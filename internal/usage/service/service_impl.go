package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/cache"
	"github.com/smallbiznis/mspdesk/internal/clock"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	catalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	"github.com/smallbiznis/mspdesk/internal/usage/domain"
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
	CatalogRepo catalogdomain.Repository
	Eligibility cache.PlanEligibilityCache
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	companyRepo companydomain.Repository
	catalogRepo catalogdomain.Repository
	eligibility cache.PlanEligibilityCache
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("usage.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		catalogRepo: p.CatalogRepo,
		eligibility: p.Eligibility,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	serviceID, err := snowflake.ParseString(strings.TrimSpace(req.ServiceID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if req.UsageDate.IsZero() {
		return nil, domain.ErrInvalidUsageDate
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	catalogService, err := s.catalogRepo.FindByID(ctx, s.db, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if catalogService == nil {
		return nil, domain.ErrServiceNotFound
	}

	eligible, err := s.eligiblePlans(ctx, tenantID, companyID, serviceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	record := &domain.UsageRecord{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		CompanyID: companyID,
		ServiceID: serviceID,
		Quantity:  req.Quantity,
		UsageDate: req.UsageDate.UTC(),
		Comments:  strings.TrimSpace(req.Comments),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if raw := strings.TrimSpace(req.BillingPlanID); raw != "" {
		planID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		if !planEligible(eligible, planID) {
			return nil, domain.ErrPlanNotEligible
		}
		record.BillingPlanID = &planID
	} else if selected := domain.DefaultPlanSelection(eligible); selected != nil {
		record.BillingPlanID = &selected.PlanID
	}

	if err := s.repo.Insert(ctx, s.db, record); err != nil {
		s.log.Error("failed to create usage record", zap.Error(err))
		return nil, err
	}

	return s.respond(record, eligible), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	eligible, err := s.eligiblePlans(ctx, tenantID, record.CompanyID, record.ServiceID)
	if err != nil {
		return nil, err
	}

	return s.respond(record, eligible), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	req.Pagination = req.Pagination.Normalize()

	filter := domain.ListFilter{
		From:   req.From,
		To:     req.To,
		Limit:  req.Limit,
		Offset: req.Offset(),
	}
	if v := strings.TrimSpace(req.CompanyID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.CompanyID = id
	}
	if v := strings.TrimSpace(req.ServiceID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.ServiceID = id
	}

	records, total, err := s.repo.List(ctx, s.db, tenantID, filter)
	if err != nil {
		return nil, err
	}

	return &domain.ListResponse{
		Records: records,
		Total:   total,
		Page:    req.Page,
		Limit:   req.Limit,
	}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	recordID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	if req.CompanyID != nil {
		companyID, err := snowflake.ParseString(strings.TrimSpace(*req.CompanyID))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		company, err := s.companyRepo.FindByID(ctx, s.db, tenantID, companyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrCompanyNotFound
		}
		record.CompanyID = companyID
	}
	if req.ServiceID != nil {
		serviceID, err := snowflake.ParseString(strings.TrimSpace(*req.ServiceID))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		catalogService, err := s.catalogRepo.FindByID(ctx, s.db, tenantID, serviceID)
		if err != nil {
			return nil, err
		}
		if catalogService == nil {
			return nil, domain.ErrServiceNotFound
		}
		record.ServiceID = serviceID
	}
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		record.Quantity = *req.Quantity
	}
	if req.UsageDate != nil {
		if req.UsageDate.IsZero() {
			return nil, domain.ErrInvalidUsageDate
		}
		record.UsageDate = req.UsageDate.UTC()
	}
	if req.Comments != nil {
		record.Comments = strings.TrimSpace(*req.Comments)
	}

	eligible, err := s.eligiblePlans(ctx, tenantID, record.CompanyID, record.ServiceID)
	if err != nil {
		return nil, err
	}

	switch {
	case req.BillingPlanID != nil && strings.TrimSpace(*req.BillingPlanID) != "":
		planID, err := snowflake.ParseString(strings.TrimSpace(*req.BillingPlanID))
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		if !planEligible(eligible, planID) {
			return nil, domain.ErrPlanNotEligible
		}
		record.BillingPlanID = &planID
	case req.BillingPlanID != nil:
		// Explicitly cleared; re-apply the default policy.
		record.BillingPlanID = nil
	}

	// A selection that stopped being eligible is cleared rather than billed
	// against a stale plan.
	if record.BillingPlanID != nil && !planEligible(eligible, *record.BillingPlanID) {
		record.BillingPlanID = nil
	}
	if record.BillingPlanID == nil {
		if selected := domain.DefaultPlanSelection(eligible); selected != nil {
			record.BillingPlanID = &selected.PlanID
		}
	}

	record.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, record); err != nil {
		return nil, err
	}

	return s.respond(record, eligible), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	record, err := s.repo.FindByID(ctx, s.db, tenantID, recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, tenantID, recordID)
}

func (s *Service) EligibleBillingPlans(ctx context.Context, companyID, serviceID string) ([]domain.EligiblePlan, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	cID, err := snowflake.ParseString(strings.TrimSpace(companyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	sID, err := snowflake.ParseString(strings.TrimSpace(serviceID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	return s.eligiblePlans(ctx, tenantID, cID, sID)
}

func (s *Service) eligiblePlans(ctx context.Context, tenantID, companyID, serviceID snowflake.ID) ([]domain.EligiblePlan, error) {
	if plans, ok := s.eligibility.GetEligiblePlans(tenantID.String(), companyID.String(), serviceID.String()); ok {
		return plans, nil
	}

	plans, err := s.repo.EligiblePlans(ctx, s.db, tenantID, companyID, serviceID, s.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.eligibility.SetEligiblePlans(tenantID.String(), companyID.String(), serviceID.String(), plans)
	return plans, nil
}

func (s *Service) respond(record *domain.UsageRecord, eligible []domain.EligiblePlan) *domain.Response {
	return &domain.Response{
		UsageRecord:       *record,
		RequiresSelection: record.BillingPlanID == nil && len(eligible) > 1,
		EligiblePlans:     eligible,
	}
}

func planEligible(eligible []domain.EligiblePlan, planID snowflake.ID) bool {
	for _, plan := range eligible {
		if plan.PlanID == planID {
			return true
		}
	}
	return false
}
