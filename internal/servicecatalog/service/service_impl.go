package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("servicecatalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.CatalogService, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	standardID, err := parseOptionalID(req.StandardServiceTypeID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	customID, err := parseOptionalID(req.CustomServiceTypeID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	if standardID == nil && customID == nil {
		return nil, domain.ErrServiceTypeRequired
	}
	if standardID != nil && customID != nil {
		return nil, domain.ErrServiceTypeExclusive
	}

	billingMethod := strings.ToLower(strings.TrimSpace(req.BillingMethod))
	if !domain.ValidBillingMethod(billingMethod) {
		return nil, domain.ErrInvalidBillingMethod
	}
	if req.DefaultRate < 0 {
		return nil, domain.ErrInvalidRate
	}

	unit := strings.TrimSpace(req.UnitOfMeasure)
	if billingMethod == domain.BillingPerUnit && unit == "" {
		return nil, domain.ErrUnitOfMeasureRequired
	}
	if billingMethod == domain.BillingFixed {
		unit = ""
	}

	categoryID, err := parseOptionalID(req.CategoryID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	now := s.clock.Now().UTC()
	service := &domain.CatalogService{
		ID:                    s.genID.Generate(),
		TenantID:              tenantID,
		Name:                  name,
		StandardServiceTypeID: standardID,
		CustomServiceTypeID:   customID,
		BillingMethod:         billingMethod,
		DefaultRate:           req.DefaultRate,
		UnitOfMeasure:         unit,
		CategoryID:            categoryID,
		IsTaxable:             req.IsTaxable,
		TaxRegion:             strings.TrimSpace(req.TaxRegion),
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.repo.Create(ctx, s.db, service); err != nil {
		s.log.Error("failed to create catalog service", zap.Error(err))
		return nil, err
	}

	return service, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.CatalogService, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	serviceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	service, err := s.repo.FindByID(ctx, s.db, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	return service, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	req.Pagination = req.Pagination.Normalize()
	req.Search = strings.TrimSpace(req.Search)
	req.BillingMethod = strings.ToLower(strings.TrimSpace(req.BillingMethod))

	services, total, err := s.repo.List(ctx, s.db, tenantID, req)
	if err != nil {
		return nil, err
	}

	return &domain.ListResponse{
		Services: services,
		Total:    total,
		Page:     req.Page,
		Limit:    req.Limit,
	}, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.CatalogService, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	serviceID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	service, err := s.repo.FindByID(ctx, s.db, tenantID, serviceID)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		service.Name = name
	}

	// Service type ids are mutually exclusive; setting one clears the other.
	if req.StandardServiceTypeID != nil {
		id, err := parseOptionalID(*req.StandardServiceTypeID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		service.StandardServiceTypeID = id
		if id != nil {
			service.CustomServiceTypeID = nil
		}
	}
	if req.CustomServiceTypeID != nil {
		id, err := parseOptionalID(*req.CustomServiceTypeID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		service.CustomServiceTypeID = id
		if id != nil {
			service.StandardServiceTypeID = nil
		}
	}
	if service.StandardServiceTypeID == nil && service.CustomServiceTypeID == nil {
		return nil, domain.ErrServiceTypeRequired
	}

	if req.BillingMethod != nil {
		method := strings.ToLower(strings.TrimSpace(*req.BillingMethod))
		if !domain.ValidBillingMethod(method) {
			return nil, domain.ErrInvalidBillingMethod
		}
		service.BillingMethod = method
	}
	if req.DefaultRate != nil {
		if *req.DefaultRate < 0 {
			return nil, domain.ErrInvalidRate
		}
		service.DefaultRate = *req.DefaultRate
	}
	if req.UnitOfMeasure != nil {
		service.UnitOfMeasure = strings.TrimSpace(*req.UnitOfMeasure)
	}
	if service.BillingMethod == domain.BillingPerUnit && service.UnitOfMeasure == "" {
		return nil, domain.ErrUnitOfMeasureRequired
	}
	if service.BillingMethod == domain.BillingFixed {
		service.UnitOfMeasure = ""
	}

	if req.IsTaxable != nil {
		service.IsTaxable = *req.IsTaxable
	}
	if req.TaxRegion != nil {
		service.TaxRegion = strings.TrimSpace(*req.TaxRegion)
	}

	service.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, service); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	serviceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	service, err := s.repo.FindByID(ctx, s.db, tenantID, serviceID)
	if err != nil {
		return err
	}
	if service == nil {
		return domain.ErrNotFound
	}

	links, err := s.repo.CountPlanLinks(ctx, s.db, tenantID, serviceID)
	if err != nil {
		return err
	}
	if links > 0 {
		return domain.ErrServiceInUse
	}

	return s.repo.Delete(ctx, s.db, tenantID, serviceID)
}

func parseOptionalID(raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
