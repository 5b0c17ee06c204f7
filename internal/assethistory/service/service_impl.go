package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/assethistory/domain"
	"github.com/smallbiznis/mspdesk/internal/clock"
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
		log:   p.Log.Named("assethistory.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (*domain.AssetHistory, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	if req.AssetID == 0 {
		return nil, domain.ErrInvalidAsset
	}

	entry := &domain.AssetHistory{
		ID:         s.genID.Generate(),
		TenantID:   tenantID,
		AssetID:    req.AssetID,
		ChangedBy:  strings.TrimSpace(req.ChangedBy),
		ChangeType: req.ChangeType,
		Changes:    datatypes.JSONMap(req.Changes),
		ChangedAt:  s.clock.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Error("failed to record asset history", zap.Error(err))
		return nil, err
	}

	return entry, nil
}

func (s *Service) ListByAsset(ctx context.Context, assetID string) ([]domain.AssetHistory, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	id, err := snowflake.ParseString(strings.TrimSpace(assetID))
	if err != nil {
		return nil, domain.ErrInvalidAsset
	}

	return s.repo.ListByAsset(ctx, s.db, tenantID, id)
}
