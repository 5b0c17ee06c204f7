package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	"github.com/smallbiznis/mspdesk/internal/clock"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	catalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	pkgdb "github.com/smallbiznis/mspdesk/pkg/db"
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
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	companyRepo companydomain.Repository
	catalogRepo catalogdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("billingplan.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		catalogRepo: p.CatalogRepo,
	}
}

func (s *Service) CreatePlan(ctx context.Context, req domain.CreatePlanRequest) (*domain.BillingPlan, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	planType := strings.ToLower(strings.TrimSpace(req.PlanType))
	if !domain.ValidPlanType(planType) {
		return nil, domain.ErrInvalidPlanType
	}

	now := s.clock.Now().UTC()
	plan := &domain.BillingPlan{
		ID:               s.genID.Generate(),
		TenantID:         tenantID,
		Name:             name,
		BillingFrequency: strings.TrimSpace(req.BillingFrequency),
		PlanType:         planType,
		IsCustom:         req.IsCustom,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.CreatePlan(ctx, s.db, plan); err != nil {
		s.log.Error("failed to create billing plan", zap.Error(err))
		return nil, err
	}

	return plan, nil
}

func (s *Service) GetPlanByID(ctx context.Context, id string) (*domain.BillingPlan, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, tenantID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func (s *Service) ListPlans(ctx context.Context, req domain.ListPlansRequest) (*domain.ListPlansResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	req.Pagination = req.Pagination.Normalize()
	req.Search = strings.TrimSpace(req.Search)
	req.PlanType = strings.ToLower(strings.TrimSpace(req.PlanType))

	plans, total, err := s.repo.ListPlans(ctx, s.db, tenantID, req)
	if err != nil {
		return nil, err
	}

	return &domain.ListPlansResponse{
		Plans: plans,
		Total: total,
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

func (s *Service) UpdatePlan(ctx context.Context, req domain.UpdatePlanRequest) (*domain.BillingPlan, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, tenantID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		plan.Name = name
	}
	if req.BillingFrequency != nil {
		plan.BillingFrequency = strings.TrimSpace(*req.BillingFrequency)
	}
	if req.PlanType != nil {
		planType := strings.ToLower(strings.TrimSpace(*req.PlanType))
		if !domain.ValidPlanType(planType) {
			return nil, domain.ErrInvalidPlanType
		}
		plan.PlanType = planType
	}
	if req.IsCustom != nil {
		plan.IsCustom = *req.IsCustom
	}

	plan.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdatePlan(ctx, s.db, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan refuses while plan-service rows or company assignments still
// reference the plan, each with its own error so callers can tell the two
// conflicts apart.
func (s *Service) DeletePlan(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, tenantID, planID)
	if err != nil {
		return err
	}
	if plan == nil {
		return domain.ErrNotFound
	}

	services, err := s.repo.CountServices(ctx, s.db, tenantID, planID)
	if err != nil {
		return err
	}
	if services > 0 {
		return domain.ErrPlanHasServices
	}

	assignments, err := s.repo.CountAssignments(ctx, s.db, tenantID, planID)
	if err != nil {
		return err
	}
	if assignments > 0 {
		return domain.ErrPlanInUseByCompanies
	}

	return s.repo.DeletePlan(ctx, s.db, tenantID, planID)
}

func (s *Service) AddService(ctx context.Context, req domain.AddServiceRequest) (*domain.PlanServiceView, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
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
	if req.CustomRate != nil && *req.CustomRate < 0 {
		return nil, domain.ErrInvalidRate
	}

	plan, err := s.repo.FindPlanByID(ctx, s.db, tenantID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	catalogService, err := s.catalogRepo.FindByID(ctx, s.db, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if catalogService == nil {
		return nil, domain.ErrServiceNotFound
	}

	now := s.clock.Now().UTC()
	link := &domain.PlanService{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		PlanID:     planID,
		ServiceID:  serviceID,
		Quantity:   req.Quantity,
		CustomRate: req.CustomRate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.InsertLink(ctx, s.db, link); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, domain.ErrServiceAlreadyOnPlan
		}
		return nil, err
	}

	return &domain.PlanServiceView{
		PlanService:   *link,
		ServiceName:   catalogService.Name,
		EffectiveRate: link.EffectiveRate(catalogService.DefaultRate),
	}, nil
}

func (s *Service) ListPlanServices(ctx context.Context, planID string) ([]domain.PlanServiceView, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(planID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	return s.repo.ListLinks(ctx, s.db, tenantID, id)
}

func (s *Service) UpdateQuantity(ctx context.Context, planID, serviceID string, quantity int) (*domain.PlanServiceView, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.mutateLink(ctx, planID, serviceID, func(link *domain.PlanService) error {
		link.Quantity = quantity
		return nil
	})
}

// UpdateCustomRate sets the per-plan rate override; nil clears it so the link
// falls back to the service default.
func (s *Service) UpdateCustomRate(ctx context.Context, planID, serviceID string, customRate *int64) (*domain.PlanServiceView, error) {
	if customRate != nil && *customRate < 0 {
		return nil, domain.ErrInvalidRate
	}
	return s.mutateLink(ctx, planID, serviceID, func(link *domain.PlanService) error {
		link.CustomRate = customRate
		return nil
	})
}

func (s *Service) mutateLink(ctx context.Context, planID, serviceID string, mutate func(*domain.PlanService) error) (*domain.PlanServiceView, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	pID, err := snowflake.ParseString(strings.TrimSpace(planID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	sID, err := snowflake.ParseString(strings.TrimSpace(serviceID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	link, err := s.repo.FindLink(ctx, s.db, tenantID, pID, sID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}

	if err := mutate(link); err != nil {
		return nil, err
	}
	link.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.UpdateLink(ctx, s.db, link); err != nil {
		return nil, err
	}

	catalogService, err := s.catalogRepo.FindByID(ctx, s.db, tenantID, sID)
	if err != nil {
		return nil, err
	}

	view := &domain.PlanServiceView{PlanService: *link}
	if catalogService != nil {
		view.ServiceName = catalogService.Name
		view.EffectiveRate = link.EffectiveRate(catalogService.DefaultRate)
	}
	return view, nil
}

func (s *Service) RemoveService(ctx context.Context, planID, serviceID string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	pID, err := snowflake.ParseString(strings.TrimSpace(planID))
	if err != nil {
		return domain.ErrInvalidID
	}
	sID, err := snowflake.ParseString(strings.TrimSpace(serviceID))
	if err != nil {
		return domain.ErrInvalidID
	}

	link, err := s.repo.FindLink(ctx, s.db, tenantID, pID, sID)
	if err != nil {
		return err
	}
	if link == nil {
		return domain.ErrLinkNotFound
	}

	return s.repo.DeleteLink(ctx, s.db, tenantID, pID, sID)
}

func (s *Service) Assign(ctx context.Context, req domain.AssignRequest) (*domain.CompanyBillingPlan, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
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

	plan, err := s.repo.FindPlanByID(ctx, s.db, tenantID, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	startDate := req.StartDate.UTC()
	if req.StartDate.IsZero() {
		startDate = now
	}

	assignment := &domain.CompanyBillingPlan{
		ID:              s.genID.Generate(),
		TenantID:        tenantID,
		CompanyID:       companyID,
		PlanID:          planID,
		StartDate:       startDate,
		EndDate:         req.EndDate,
		ServiceCategory: strings.TrimSpace(req.ServiceCategory),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.InsertAssignment(ctx, s.db, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

func (s *Service) Unassign(ctx context.Context, assignmentID string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(assignmentID))
	if err != nil {
		return domain.ErrInvalidID
	}

	assignment, err := s.repo.FindAssignmentByID(ctx, s.db, tenantID, id)
	if err != nil {
		return err
	}
	if assignment == nil {
		return domain.ErrAssignmentNotFound
	}

	return s.repo.CloseAssignment(ctx, s.db, tenantID, id, s.clock.Now().UTC())
}

func (s *Service) ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]domain.CompanyBillingPlan, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(companyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	assignments, err := s.repo.ListAssignmentsByCompany(ctx, s.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !activeOnly {
		return assignments, nil
	}

	now := s.clock.Now().UTC()
	active := assignments[:0]
	for _, a := range assignments {
		if a.ActiveAt(now) {
			active = append(active, a)
		}
	}
	return active, nil
}
