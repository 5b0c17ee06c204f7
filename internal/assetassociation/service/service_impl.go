package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("assetassociation.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.AssetAssociation, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	assetID, err := snowflake.ParseString(strings.TrimSpace(req.AssetID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	entityID, err := snowflake.ParseString(strings.TrimSpace(req.EntityID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	entityType := strings.ToLower(strings.TrimSpace(req.EntityType))
	if !domain.ValidEntityType(entityType) {
		return nil, domain.ErrInvalidEntityType
	}

	association := &domain.AssetAssociation{
		TenantID:         tenantID,
		AssetID:          assetID,
		EntityID:         entityID,
		EntityType:       entityType,
		RelationshipType: strings.TrimSpace(req.RelationshipType),
		CreatedBy:        strings.TrimSpace(req.CreatedBy),
		CreatedAt:        s.clock.Now().UTC(),
	}
	if err := s.repo.Create(ctx, s.db, association); err != nil {
		return nil, err
	}
	return association, nil
}

func (s *Service) FindByAssetAndEntity(ctx context.Context, assetID, entityID, entityType string) (*domain.AssetAssociation, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	aID, eID, eType, err := parseTriple(assetID, entityID, entityType)
	if err != nil {
		return nil, err
	}

	association, err := s.repo.Find(ctx, s.db, tenantID, aID, eID, eType)
	if err != nil {
		return nil, err
	}
	if association == nil {
		return nil, domain.ErrNotFound
	}
	return association, nil
}

func (s *Service) ListByAsset(ctx context.Context, assetID string) ([]domain.AssetAssociation, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	aID, err := snowflake.ParseString(strings.TrimSpace(assetID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return s.repo.ListByAsset(ctx, s.db, tenantID, aID)
}

func (s *Service) ListByEntity(ctx context.Context, entityID, entityType string) ([]domain.AssetAssociation, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	eID, err := snowflake.ParseString(strings.TrimSpace(entityID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	eType := strings.ToLower(strings.TrimSpace(entityType))
	if !domain.ValidEntityType(eType) {
		return nil, domain.ErrInvalidEntityType
	}
	return s.repo.ListByEntity(ctx, s.db, tenantID, eID, eType)
}

func (s *Service) Delete(ctx context.Context, assetID, entityID, entityType string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	aID, eID, eType, err := parseTriple(assetID, entityID, entityType)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, tenantID, aID, eID, eType)
}

func parseTriple(assetID, entityID, entityType string) (snowflake.ID, snowflake.ID, string, error) {
	aID, err := snowflake.ParseString(strings.TrimSpace(assetID))
	if err != nil {
		return 0, 0, "", domain.ErrInvalidID
	}
	eID, err := snowflake.ParseString(strings.TrimSpace(entityID))
	if err != nil {
		return 0, 0, "", domain.ErrInvalidID
	}
	eType := strings.ToLower(strings.TrimSpace(entityType))
	if !domain.ValidEntityType(eType) {
		return 0, 0, "", domain.ErrInvalidEntityType
	}
	return aID, eID, eType, nil
}
