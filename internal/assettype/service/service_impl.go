package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/assettype/domain"
	"github.com/smallbiznis/mspdesk/internal/clock"
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
		log:   p.Log.Named("assettype.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.AssetType, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	parentID, err := parseOptionalID(req.ParentTypeID)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	now := s.clock.Now().UTC()
	assetType := &domain.AssetType{
		ID:           s.genID.Generate(),
		TenantID:     tenantID,
		Name:         name,
		ParentTypeID: parentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.AttributesSchema != nil {
		assetType.AttributesSchema = datatypes.JSONMap(req.AttributesSchema)
	}
	if err := s.repo.Create(ctx, s.db, assetType); err != nil {
		return nil, err
	}
	return assetType, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.AssetType, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	typeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	assetType, err := s.repo.FindByID(ctx, s.db, tenantID, typeID)
	if err != nil {
		return nil, err
	}
	if assetType == nil {
		return nil, domain.ErrNotFound
	}
	return assetType, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.AssetType, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	typeID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	assetType, err := s.repo.FindByID(ctx, s.db, tenantID, typeID)
	if err != nil {
		return nil, err
	}
	if assetType == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		assetType.Name = name
	}
	if req.ParentTypeID != nil {
		parentID, err := parseOptionalID(req.ParentTypeID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		assetType.ParentTypeID = parentID
	}
	if req.AttributesSchema != nil {
		assetType.AttributesSchema = datatypes.JSONMap(req.AttributesSchema)
	}

	assetType.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, assetType); err != nil {
		return nil, err
	}
	return assetType, nil
}

func (s *Service) List(ctx context.Context) ([]domain.AssetType, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}
	return s.repo.FindAll(ctx, s.db, tenantID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	typeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	assetType, err := s.repo.FindByID(ctx, s.db, tenantID, typeID)
	if err != nil {
		return err
	}
	if assetType == nil {
		return domain.ErrNotFound
	}

	// Types stay referenced while assets exist; never cascade.
	count, err := s.repo.CountAssets(ctx, s.db, tenantID, typeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrTypeInUse
	}

	return s.repo.Delete(ctx, s.db, tenantID, typeID)
}

func parseOptionalID(value *string) (*snowflake.ID, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
