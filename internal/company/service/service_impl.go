package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/internal/company/domain"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
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
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now().UTC()
	company := &domain.Company{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		Name:        name,
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		AddressLine: strings.TrimSpace(req.AddressLine),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Metadata != nil {
		company.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := s.repo.Create(ctx, s.db, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	company, err := s.repo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	filter := domain.ListRequest{
		Name:            strings.ToLower(strings.TrimSpace(req.Name)),
		IncludeInactive: req.IncludeInactive,
	}
	return s.repo.List(ctx, s.db, tenantID, filter)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	company, err := s.repo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		company.Name = name
	}
	if req.Email != nil {
		company.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.AddressLine != nil {
		company.AddressLine = strings.TrimSpace(*req.AddressLine)
	}
	if req.IsInactive != nil {
		company.IsInactive = *req.IsInactive
	}

	company.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) AdjustCreditBalance(ctx context.Context, id string, delta int64) (*domain.Company, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	company, err := s.repo.FindByID(ctx, s.db, tenantID, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	if err := s.repo.AddCreditBalance(ctx, s.db, tenantID, companyID, delta); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, s.db, tenantID, companyID)
}
