package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/mspdesk/internal/asset/domain"
	assetrepo "github.com/smallbiznis/mspdesk/internal/asset/repository"
	associationdomain "github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	associationrepo "github.com/smallbiznis/mspdesk/internal/assetassociation/repository"
	historydomain "github.com/smallbiznis/mspdesk/internal/assethistory/domain"
	historyrepo "github.com/smallbiznis/mspdesk/internal/assethistory/repository"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
	assettyperepo "github.com/smallbiznis/mspdesk/internal/assettype/repository"
	"github.com/smallbiznis/mspdesk/internal/clock"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	companyrepo "github.com/smallbiznis/mspdesk/internal/company/repository"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

type assetFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	tenantID  snowflake.ID
	companyID snowflake.ID
	typeIDs   map[string]snowflake.ID
}

func setupAssetService(t *testing.T) *assetFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(
		&domain.Asset{},
		&domain.WorkstationAsset{},
		&domain.NetworkDeviceAsset{},
		&domain.ServerAsset{},
		&domain.MobileDeviceAsset{},
		&domain.PrinterAsset{},
		&domain.MaintenanceSchedule{},
		&companydomain.Company{},
		&assettypedomain.AssetType{},
		&historydomain.AssetHistory{},
		&associationdomain.AssetAssociation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	fc := clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))
	tenantID := node.Generate()

	companyID := node.Generate()
	if err := db.Create(&companydomain.Company{
		ID:       companyID,
		TenantID: tenantID,
		Name:     "Acme Industrial",
		Email:    "it@acme.example",
	}).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}

	typeIDs := make(map[string]snowflake.ID)
	for _, name := range []string{"Server", "Workstation", "Printer"} {
		id := node.Generate()
		typeIDs[name] = id
		if err := db.Create(&assettypedomain.AssetType{
			ID:       id,
			TenantID: tenantID,
			Name:     name,
		}).Error; err != nil {
			t.Fatalf("seed type %s: %v", name, err)
		}
	}

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fc,
		Repo:        assetrepo.Provide(),
		CompanyRepo: companyrepo.Provide(),
		TypeRepo:    assettyperepo.Provide(),
		HistoryRepo: historyrepo.Provide(),
		AssocRepo:   associationrepo.Provide(),
	})

	return &assetFixture{
		svc:       svc,
		db:        db,
		node:      node,
		clock:     fc,
		tenantID:  tenantID,
		companyID: companyID,
		typeIDs:   typeIDs,
	}
}

func (f *assetFixture) ctx() context.Context {
	return tenantctx.WithTenantID(context.Background(), f.tenantID)
}

func TestCreateServerAssetRoundTrip(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	req := domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-0001",
		Name:      "db-primary",
		CreatedBy: "tech@msp.example",
		Extension: domain.Extension{
			Server: &domain.ServerAsset{
				OSType:    "linux",
				OSVersion: "ubuntu-24.04",
				CPUCores:  32,
				RAMGB:     128,
				IsVirtual: false,
			},
			// Payload for the wrong type must be discarded.
			Workstation: &domain.WorkstationAsset{OSType: "windows"},
		},
	}

	created, err := f.svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != "active" {
		t.Fatalf("expected default status active, got %q", created.Status)
	}
	if created.TypeName != "Server" {
		t.Fatalf("expected type name Server, got %q", created.TypeName)
	}
	if created.Extension.Server == nil {
		t.Fatal("expected server extension on response")
	}
	if created.Extension.Workstation != nil {
		t.Fatal("workstation payload should have been discarded")
	}

	var wsCount int64
	f.db.Model(&domain.WorkstationAsset{}).Count(&wsCount)
	if wsCount != 0 {
		t.Fatalf("expected no workstation rows, got %d", wsCount)
	}

	if err := f.db.Create(&associationdomain.AssetAssociation{
		TenantID:         f.tenantID,
		AssetID:          created.ID,
		EntityID:         f.node.Generate(),
		EntityType:       associationdomain.EntityTicket,
		RelationshipType: "affected_by",
		CreatedBy:        "tech@msp.example",
		CreatedAt:        f.clock.Now(),
	}).Error; err != nil {
		t.Fatalf("seed association: %v", err)
	}

	got, err := f.svc.GetByID(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Extension.Server == nil || got.Extension.Server.RAMGB != 128 {
		t.Fatalf("extension did not round-trip: %+v", got.Extension.Server)
	}
	if got.Company.Name != "Acme Industrial" {
		t.Fatalf("expected company details, got %+v", got.Company)
	}
	if len(got.Associations) != 1 || got.Associations[0].EntityType != associationdomain.EntityTicket {
		t.Fatalf("expected one ticket association, got %+v", got.Associations)
	}

	var historyCount int64
	f.db.Model(&historydomain.AssetHistory{}).
		Where("asset_id = ? AND change_type = ?", created.ID, historydomain.ChangeCreated).
		Count(&historyCount)
	if historyCount != 1 {
		t.Fatalf("expected 1 created history entry, got %d", historyCount)
	}
}

func TestCreateRejectsUnknownCompanyAndType(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.node.Generate().String(),
		AssetTag:  "SRV-0002",
		Name:      "orphan",
	})
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}

	_, err = f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.node.Generate().String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-0003",
		Name:      "orphan",
	})
	if !errors.Is(err, domain.ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}

	// Failed creates must not leave partial rows behind.
	var count int64
	f.db.Model(&domain.Asset{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no assets, got %d", count)
	}
}

func TestUpdateUpsertsExtension(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-0010",
		Name:      "app-server",
		Extension: domain.Extension{
			Server: &domain.ServerAsset{RAMGB: 64},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.Update(ctx, domain.UpdateRequest{
		ID: created.ID.String(),
		Extension: domain.Extension{
			Server: &domain.ServerAsset{RAMGB: 256, IsVirtual: true},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Extension.Server == nil || updated.Extension.Server.RAMGB != 256 {
		t.Fatalf("expected updated extension, got %+v", updated.Extension.Server)
	}

	var count int64
	f.db.Model(&domain.ServerAsset{}).Where("asset_id = ?", created.ID).Count(&count)
	if count != 1 {
		t.Fatalf("upsert should keep one row per asset, got %d", count)
	}
}

func TestUpdateRecordsFieldChanges(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Printer"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "PRN-0001",
		Name:      "front-desk",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := "in_repair"
	location := "Warehouse B"
	if _, err := f.svc.Update(ctx, domain.UpdateRequest{
		ID:        created.ID.String(),
		Status:    &status,
		Location:  &location,
		UpdatedBy: "dispatch@msp.example",
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var entries []historydomain.AssetHistory
	if err := f.db.Where("asset_id = ? AND change_type = ?", created.ID, historydomain.ChangeUpdated).
		Find(&entries).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 update entry, got %d", len(entries))
	}
	if entries[0].ChangedBy != "dispatch@msp.example" {
		t.Fatalf("unexpected changed_by %q", entries[0].ChangedBy)
	}
	if entries[0].Changes["status"] != "in_repair" {
		t.Fatalf("expected status change recorded, got %+v", entries[0].Changes)
	}
}

func TestListPagination(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	for i := 0; i < 25; i++ {
		f.clock.Advance(time.Minute)
		if _, err := f.svc.Create(ctx, domain.CreateRequest{
			TypeID:    f.typeIDs["Workstation"].String(),
			CompanyID: f.companyID.String(),
			AssetTag:  fmt.Sprintf("WS-%04d", i),
			Name:      fmt.Sprintf("workstation-%d", i),
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	seen := 0
	for page, want := range map[int]int{1: 10, 2: 10, 3: 5} {
		resp, err := f.svc.List(ctx, domain.ListRequest{
			Pagination: pagination.Pagination{Page: page, Limit: 10},
		})
		if err != nil {
			t.Fatalf("list page %d: %v", page, err)
		}
		if resp.Total != 25 {
			t.Fatalf("page %d: expected total 25, got %d", page, resp.Total)
		}
		if len(resp.Assets) != want {
			t.Fatalf("page %d: expected %d assets, got %d", page, want, len(resp.Assets))
		}
		seen += len(resp.Assets)
	}
	if seen != 25 {
		t.Fatalf("expected to page through 25 assets, saw %d", seen)
	}
}

func TestListClampsDegeneratePagination(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	for i := 0; i < 3; i++ {
		f.clock.Advance(time.Minute)
		if _, err := f.svc.Create(ctx, domain.CreateRequest{
			TypeID:    f.typeIDs["Workstation"].String(),
			CompanyID: f.companyID.String(),
			AssetTag:  fmt.Sprintf("WS-%04d", i),
			Name:      fmt.Sprintf("workstation-%d", i),
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	for _, p := range []pagination.Pagination{
		{Page: 0, Limit: 0},
		{Page: -1, Limit: -5},
	} {
		resp, err := f.svc.List(ctx, domain.ListRequest{Pagination: p})
		if err != nil {
			t.Fatalf("list page=%d limit=%d: %v", p.Page, p.Limit, err)
		}
		if resp.Total != 3 {
			t.Fatalf("expected total 3, got %d", resp.Total)
		}
		if len(resp.Assets) != 1 {
			t.Fatalf("expected a non-empty first page, got %d assets", len(resp.Assets))
		}
		if resp.Page != 1 || resp.Limit != 1 {
			t.Fatalf("expected clamped page=1 limit=1, got page=%d limit=%d", resp.Page, resp.Limit)
		}
	}
}

func TestListFiltersAndSummary(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	if _, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-1000",
		Name:      "billing-db",
	}); err != nil {
		t.Fatalf("create server: %v", err)
	}
	if _, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Printer"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "PRN-1000",
		Name:      "copy-room",
		Status:    "retired",
	}); err != nil {
		t.Fatalf("create printer: %v", err)
	}

	resp, err := f.svc.List(ctx, domain.ListRequest{
		Pagination: pagination.Pagination{Page: 1, Limit: 10},
		TypeID:     f.typeIDs["Server"].String(),
	})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(resp.Assets) != 1 || resp.Assets[0].Name != "billing-db" {
		t.Fatalf("expected only the server asset, got %+v", resp.Assets)
	}

	resp, err = f.svc.List(ctx, domain.ListRequest{
		Pagination: pagination.Pagination{Page: 1, Limit: 10},
		Search:     "copy",
	})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(resp.Assets) != 1 || resp.Assets[0].AssetTag != "PRN-1000" {
		t.Fatalf("expected printer via search, got %+v", resp.Assets)
	}

	resp, err = f.svc.List(ctx, domain.ListRequest{
		Pagination:  pagination.Pagination{Page: 1, Limit: 10},
		CompanyName: "ACME",
	})
	if err != nil {
		t.Fatalf("list by company name: %v", err)
	}
	if len(resp.Assets) != 2 {
		t.Fatalf("expected mixed-case company name to match, got %d assets", len(resp.Assets))
	}

	resp, err = f.svc.List(ctx, domain.ListRequest{
		Pagination:            pagination.Pagination{Page: 1, Limit: 10},
		IncludeCompanyDetails: true,
	})
	if err != nil {
		t.Fatalf("list with summary: %v", err)
	}
	if resp.CompanySummary == nil {
		t.Fatal("expected company summary")
	}
	if resp.CompanySummary.AssetCounts[f.companyID.String()] != 2 {
		t.Fatalf("expected 2 assets for company, got %+v", resp.CompanySummary.AssetCounts)
	}
	if resp.Assets[0].Company.Name != "Acme Industrial" {
		t.Fatalf("expected company details on rows, got %+v", resp.Assets[0].Company)
	}
}

func TestTenantIsolation(t *testing.T) {
	f := setupAssetService(t)

	created, err := f.svc.Create(f.ctx(), domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-2000",
		Name:      "isolated",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	otherCtx := tenantctx.WithTenantID(context.Background(), f.node.Generate())

	if _, err := f.svc.GetByID(otherCtx, created.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound across tenants, got %v", err)
	}

	resp, err := f.svc.List(otherCtx, domain.ListRequest{
		Pagination: pagination.Pagination{Page: 1, Limit: 10},
	})
	if err != nil {
		t.Fatalf("list other tenant: %v", err)
	}
	if resp.Total != 0 || len(resp.Assets) != 0 {
		t.Fatalf("expected empty list for other tenant, got total=%d", resp.Total)
	}
}

func TestDeleteRecordsHistory(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-3000",
		Name:      "decommissioned",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.Delete(ctx, created.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.svc.GetByID(ctx, created.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	var count int64
	f.db.Model(&historydomain.AssetHistory{}).
		Where("asset_id = ? AND change_type = ?", created.ID, historydomain.ChangeDeleted).
		Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 deleted history entry, got %d", count)
	}
}

func TestCompanyAssetReport(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-4000",
		Name:      "maintained",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now := f.clock.Now()

	overdue, err := f.svc.CreateSchedule(ctx, domain.CreateScheduleRequest{
		AssetID:           created.ID.String(),
		ScheduleName:      "quarterly check",
		MaintenanceType:   domain.MaintenancePreventive,
		FrequencyInterval: 90,
		NextMaintenance:   now.Add(-48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create overdue schedule: %v", err)
	}
	if _, err := f.svc.CreateSchedule(ctx, domain.CreateScheduleRequest{
		AssetID:           created.ID.String(),
		ScheduleName:      "annual inspection",
		MaintenanceType:   domain.MaintenanceInspection,
		FrequencyInterval: 365,
		NextMaintenance:   now.Add(72 * time.Hour),
	}); err != nil {
		t.Fatalf("create upcoming schedule: %v", err)
	}

	report, err := f.svc.CompanyAssetReport(ctx, f.companyID.String())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalAssets != 1 || report.AssetsWithSchedules != 1 {
		t.Fatalf("unexpected asset counts: %+v", report)
	}
	if report.TotalSchedules != 2 {
		t.Fatalf("expected 2 schedules, got %d", report.TotalSchedules)
	}
	if report.OverdueMaintenances != 1 || report.UpcomingMaintenances != 1 {
		t.Fatalf("unexpected maintenance counts: %+v", report)
	}
	if report.ByMaintenanceType[domain.MaintenancePreventive] != 1 {
		t.Fatalf("expected preventive breakdown, got %+v", report.ByMaintenanceType)
	}
	if _, ok := report.ByMaintenanceType[domain.MaintenanceCalibration]; !ok {
		t.Fatal("breakdown should list every maintenance type")
	}

	// Completing the overdue schedule pushes next_maintenance forward.
	updatedSchedule, err := f.svc.RecordMaintenance(ctx, domain.RecordMaintenanceRequest{
		ScheduleID: overdue.ID.String(),
	})
	if err != nil {
		t.Fatalf("record maintenance: %v", err)
	}
	wantNext := now.AddDate(0, 0, 90)
	if !updatedSchedule.NextMaintenance.Equal(wantNext) {
		t.Fatalf("expected next maintenance %s, got %s", wantNext, updatedSchedule.NextMaintenance)
	}
	if updatedSchedule.LastMaintenance == nil {
		t.Fatal("expected last maintenance set")
	}

	if _, err := f.svc.CompanyAssetReport(ctx, f.node.Generate().String()); !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestCreateScheduleValidation(t *testing.T) {
	f := setupAssetService(t)
	ctx := f.ctx()

	created, err := f.svc.Create(ctx, domain.CreateRequest{
		TypeID:    f.typeIDs["Server"].String(),
		CompanyID: f.companyID.String(),
		AssetTag:  "SRV-5000",
		Name:      "scheduled",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.CreateSchedule(ctx, domain.CreateScheduleRequest{
		AssetID:           created.ID.String(),
		MaintenanceType:   "oiling",
		FrequencyInterval: 30,
		NextMaintenance:   f.clock.Now(),
	})
	if !errors.Is(err, domain.ErrInvalidMaintenanceType) {
		t.Fatalf("expected ErrInvalidMaintenanceType, got %v", err)
	}

	_, err = f.svc.CreateSchedule(ctx, domain.CreateScheduleRequest{
		AssetID:           created.ID.String(),
		MaintenanceType:   domain.MaintenancePreventive,
		FrequencyInterval: 0,
		NextMaintenance:   f.clock.Now(),
	})
	if !errors.Is(err, domain.ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}
