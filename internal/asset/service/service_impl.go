package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/asset/domain"
	associationdomain "github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	historydomain "github.com/smallbiznis/mspdesk/internal/assethistory/domain"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
	"github.com/smallbiznis/mspdesk/internal/clock"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
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
	TypeRepo    assettypedomain.Repository
	HistoryRepo historydomain.Repository
	AssocRepo   associationdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	companyRepo companydomain.Repository
	typeRepo    assettypedomain.Repository
	historyRepo historydomain.Repository
	assocRepo   associationdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("asset.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		typeRepo:    p.TypeRepo,
		historyRepo: p.HistoryRepo,
		assocRepo:   p.AssocRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	if strings.TrimSpace(req.TypeID) == "" {
		return nil, domain.ErrTypeRequired
	}
	typeID, err := snowflake.ParseString(strings.TrimSpace(req.TypeID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	if strings.TrimSpace(req.CompanyID) == "" {
		return nil, domain.ErrCompanyRequired
	}
	companyID, err := snowflake.ParseString(strings.TrimSpace(req.CompanyID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	assetTag := strings.TrimSpace(req.AssetTag)
	if assetTag == "" {
		return nil, domain.ErrInvalidAssetTag
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = "active"
	}

	now := s.clock.Now().UTC()
	asset := &domain.Asset{
		ID:              s.genID.Generate(),
		TenantID:        tenantID,
		TypeID:          typeID,
		CompanyID:       companyID,
		AssetTag:        assetTag,
		SerialNumber:    strings.TrimSpace(req.SerialNumber),
		Name:            name,
		Status:          status,
		Location:        strings.TrimSpace(req.Location),
		PurchaseDate:    req.PurchaseDate,
		WarrantyEndDate: req.WarrantyEndDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var (
		company   *companydomain.Company
		assetType *assettypedomain.AssetType
		ext       domain.Extension
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		company, err = s.companyRepo.FindByID(ctx, tx, tenantID, companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrCompanyNotFound
		}

		assetType, err = s.typeRepo.FindByID(ctx, tx, tenantID, typeID)
		if err != nil {
			return err
		}
		if assetType == nil {
			return domain.ErrTypeNotFound
		}

		if err := s.repo.Insert(ctx, tx, asset); err != nil {
			return err
		}

		ext = req.Extension.ForKind(assetType.ExtensionKind())
		if !ext.IsZero() {
			ext = ext.Stamp(tenantID, asset.ID)
			if err := s.repo.UpsertExtension(ctx, tx, ext); err != nil {
				return err
			}
		}

		return s.historyRepo.Insert(ctx, tx, &historydomain.AssetHistory{
			ID:         s.genID.Generate(),
			TenantID:   tenantID,
			AssetID:    asset.ID,
			ChangedBy:  strings.TrimSpace(req.CreatedBy),
			ChangeType: historydomain.ChangeCreated,
			Changes: datatypes.JSONMap{
				"name":      asset.Name,
				"asset_tag": asset.AssetTag,
				"status":    asset.Status,
			},
			ChangedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("asset created",
		zap.String("asset_id", asset.ID.String()),
		zap.String("company_id", companyID.String()),
	)

	return s.compose(asset, assetType, company, ext), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	assetID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	asset, err := s.repo.FindByID(ctx, s.db, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.ErrNotFound
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, tenantID, asset.CompanyID)
	if err != nil {
		return nil, err
	}

	assetType, err := s.typeRepo.FindByID(ctx, s.db, tenantID, asset.TypeID)
	if err != nil {
		return nil, err
	}

	var ext domain.Extension
	if assetType != nil {
		ext, err = s.repo.GetExtension(ctx, s.db, tenantID, asset.ID, assetType.ExtensionKind())
		if err != nil {
			return nil, err
		}
	}

	associations, err := s.assocRepo.ListByAsset(ctx, s.db, tenantID, asset.ID)
	if err != nil {
		return nil, err
	}

	resp := s.compose(asset, assetType, company, ext)
	resp.Associations = associations
	return resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	req.Pagination = req.Pagination.Normalize()

	filter := domain.ListFilter{
		CompanyName:       strings.TrimSpace(req.CompanyName),
		Status:            strings.TrimSpace(req.Status),
		Search:            strings.TrimSpace(req.Search),
		MaintenanceStatus: strings.TrimSpace(req.MaintenanceStatus),
		MaintenanceType:   strings.TrimSpace(req.MaintenanceType),
		Limit:             req.Limit,
		Offset:            req.Offset(),
	}
	if v := strings.TrimSpace(req.CompanyID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.CompanyID = id
	}
	if v := strings.TrimSpace(req.TypeID); v != "" {
		id, err := snowflake.ParseString(v)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		filter.TypeID = id
	}

	now := s.clock.Now().UTC()
	assets, total, err := s.repo.List(ctx, s.db, tenantID, filter, now)
	if err != nil {
		return nil, err
	}

	companies := make(map[snowflake.ID]*companydomain.Company)
	types := make(map[snowflake.ID]*assettypedomain.AssetType)

	responses := make([]domain.Response, 0, len(assets))
	for i := range assets {
		asset := assets[i]

		assetType, cached := types[asset.TypeID]
		if !cached {
			assetType, err = s.typeRepo.FindByID(ctx, s.db, tenantID, asset.TypeID)
			if err != nil {
				return nil, err
			}
			types[asset.TypeID] = assetType
		}

		var company *companydomain.Company
		if req.IncludeCompanyDetails {
			company, cached = companies[asset.CompanyID]
			if !cached {
				company, err = s.companyRepo.FindByID(ctx, s.db, tenantID, asset.CompanyID)
				if err != nil {
					return nil, err
				}
				companies[asset.CompanyID] = company
			}
		}

		var ext domain.Extension
		if req.IncludeExtensionData && assetType != nil {
			ext, err = s.repo.GetExtension(ctx, s.db, tenantID, asset.ID, assetType.ExtensionKind())
			if err != nil {
				return nil, err
			}
		}

		responses = append(responses, *s.compose(&asset, assetType, company, ext))
	}

	out := &domain.ListResponse{
		Assets: responses,
		Total:  total,
		Page:   req.Page,
		Limit:  req.Limit,
	}

	if req.IncludeCompanyDetails {
		summary, err := s.repo.CompanySummary(ctx, s.db, tenantID)
		if err != nil {
			return nil, err
		}
		out.CompanySummary = summary
	}

	return out, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	assetID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var (
		asset     *domain.Asset
		assetType *assettypedomain.AssetType
		ext       domain.Extension
	)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		asset, err = s.repo.FindByID(ctx, tx, tenantID, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return domain.ErrNotFound
		}

		changes := datatypes.JSONMap{}
		if req.AssetTag != nil && *req.AssetTag != asset.AssetTag {
			if strings.TrimSpace(*req.AssetTag) == "" {
				return domain.ErrInvalidAssetTag
			}
			asset.AssetTag = strings.TrimSpace(*req.AssetTag)
			changes["asset_tag"] = asset.AssetTag
		}
		if req.SerialNumber != nil && *req.SerialNumber != asset.SerialNumber {
			asset.SerialNumber = strings.TrimSpace(*req.SerialNumber)
			changes["serial_number"] = asset.SerialNumber
		}
		if req.Name != nil && *req.Name != asset.Name {
			if strings.TrimSpace(*req.Name) == "" {
				return domain.ErrInvalidName
			}
			asset.Name = strings.TrimSpace(*req.Name)
			changes["name"] = asset.Name
		}
		if req.Status != nil && *req.Status != asset.Status {
			asset.Status = strings.TrimSpace(*req.Status)
			changes["status"] = asset.Status
		}
		if req.Location != nil && *req.Location != asset.Location {
			asset.Location = strings.TrimSpace(*req.Location)
			changes["location"] = asset.Location
		}
		if req.PurchaseDate != nil {
			asset.PurchaseDate = req.PurchaseDate
			changes["purchase_date"] = req.PurchaseDate.Format(time.RFC3339)
		}
		if req.WarrantyEndDate != nil {
			asset.WarrantyEndDate = req.WarrantyEndDate
			changes["warranty_end_date"] = req.WarrantyEndDate.Format(time.RFC3339)
		}

		assetType, err = s.typeRepo.FindByID(ctx, tx, tenantID, asset.TypeID)
		if err != nil {
			return err
		}

		now := s.clock.Now().UTC()
		if len(changes) > 0 {
			asset.UpdatedAt = now
			if err := s.repo.Update(ctx, tx, asset); err != nil {
				return err
			}
		}

		if assetType != nil && !req.Extension.IsZero() {
			ext = req.Extension.ForKind(assetType.ExtensionKind())
			if !ext.IsZero() {
				ext = ext.Stamp(tenantID, asset.ID)
				if err := s.repo.UpsertExtension(ctx, tx, ext); err != nil {
					return err
				}
				changes["extension"] = string(assetType.ExtensionKind())
			}
		}

		if len(changes) == 0 {
			return nil
		}

		return s.historyRepo.Insert(ctx, tx, &historydomain.AssetHistory{
			ID:         s.genID.Generate(),
			TenantID:   tenantID,
			AssetID:    asset.ID,
			ChangedBy:  strings.TrimSpace(req.UpdatedBy),
			ChangeType: historydomain.ChangeUpdated,
			Changes:    changes,
			ChangedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, tenantID, asset.CompanyID)
	if err != nil {
		return nil, err
	}

	if ext.IsZero() && assetType != nil {
		ext, err = s.repo.GetExtension(ctx, s.db, tenantID, asset.ID, assetType.ExtensionKind())
		if err != nil {
			return nil, err
		}
	}

	return s.compose(asset, assetType, company, ext), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return domain.ErrInvalidTenant
	}

	assetID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		asset, err := s.repo.FindByID(ctx, tx, tenantID, assetID)
		if err != nil {
			return err
		}
		if asset == nil {
			return domain.ErrNotFound
		}

		if err := s.repo.Delete(ctx, tx, tenantID, assetID); err != nil {
			return err
		}

		return s.historyRepo.Insert(ctx, tx, &historydomain.AssetHistory{
			ID:         s.genID.Generate(),
			TenantID:   tenantID,
			AssetID:    assetID,
			ChangeType: historydomain.ChangeDeleted,
			Changes: datatypes.JSONMap{
				"name":      asset.Name,
				"asset_tag": asset.AssetTag,
			},
			ChangedAt: s.clock.Now().UTC(),
		})
	})
}

func (s *Service) CompanyAssetReport(ctx context.Context, companyID string) (*domain.CompanyReport, error) {
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

	agg, err := s.repo.MaintenanceAggregate(ctx, s.db, tenantID, id, s.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	byType := make(map[string]int64, len(domain.MaintenanceTypes))
	for _, t := range domain.MaintenanceTypes {
		byType[t] = agg.CountsByType[t]
	}

	// Compliance counts completed maintenances against the expected number
	// implied by the sum of frequency intervals. No schedules means nothing
	// was missed.
	rate := 100.0
	if agg.FrequencySum > 0 {
		rate = float64(agg.Completed) / float64(agg.FrequencySum) * 100
		if rate > 100 {
			rate = 100
		}
	}

	return &domain.CompanyReport{
		CompanyID:            id.String(),
		TotalAssets:          agg.TotalAssets,
		AssetsWithSchedules:  agg.AssetsWithSchedules,
		TotalSchedules:       agg.TotalSchedules,
		OverdueMaintenances:  agg.Overdue,
		UpcomingMaintenances: agg.Upcoming,
		ByMaintenanceType:    byType,
		ComplianceRate:       rate,
	}, nil
}

func (s *Service) CreateSchedule(ctx context.Context, req domain.CreateScheduleRequest) (*domain.MaintenanceSchedule, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	assetID, err := snowflake.ParseString(strings.TrimSpace(req.AssetID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	maintenanceType := strings.ToLower(strings.TrimSpace(req.MaintenanceType))
	if !validMaintenanceType(maintenanceType) {
		return nil, domain.ErrInvalidMaintenanceType
	}
	if req.FrequencyInterval <= 0 {
		return nil, domain.ErrInvalidFrequency
	}

	asset, err := s.repo.FindByID(ctx, s.db, tenantID, assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	schedule := &domain.MaintenanceSchedule{
		ID:                s.genID.Generate(),
		TenantID:          tenantID,
		AssetID:           assetID,
		ScheduleName:      strings.TrimSpace(req.ScheduleName),
		MaintenanceType:   maintenanceType,
		FrequencyInterval: req.FrequencyInterval,
		IsActive:          true,
		NextMaintenance:   req.NextMaintenance.UTC(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.InsertSchedule(ctx, s.db, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *Service) RecordMaintenance(ctx context.Context, req domain.RecordMaintenanceRequest) (*domain.MaintenanceSchedule, error) {
	tenantID, ok := tenantctx.TenantIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidTenant
	}

	scheduleID, err := snowflake.ParseString(strings.TrimSpace(req.ScheduleID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	schedule, err := s.repo.FindScheduleByID(ctx, s.db, tenantID, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, domain.ErrScheduleNotFound
	}

	performedAt := s.clock.Now().UTC()
	if req.PerformedAt != nil {
		performedAt = req.PerformedAt.UTC()
	}

	schedule.LastMaintenance = &performedAt
	schedule.NextMaintenance = performedAt.AddDate(0, 0, schedule.FrequencyInterval)
	schedule.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.UpdateSchedule(ctx, s.db, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *Service) compose(asset *domain.Asset, assetType *assettypedomain.AssetType, company *companydomain.Company, ext domain.Extension) *domain.Response {
	resp := &domain.Response{Asset: *asset, Extension: ext}
	if assetType != nil {
		resp.TypeName = assetType.Name
	}
	if company != nil {
		resp.Company = domain.CompanyInfo{
			ID:          company.ID.String(),
			Name:        company.Name,
			Email:       company.Email,
			Phone:       company.Phone,
			AddressLine: company.AddressLine,
			IsInactive:  company.IsInactive,
		}
	}
	return resp
}

func validMaintenanceType(t string) bool {
	for _, v := range domain.MaintenanceTypes {
		if v == t {
			return true
		}
	}
	return false
}
