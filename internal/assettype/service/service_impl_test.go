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

	assetdomain "github.com/smallbiznis/mspdesk/internal/asset/domain"
	"github.com/smallbiznis/mspdesk/internal/assettype/domain"
	"github.com/smallbiznis/mspdesk/internal/assettype/repository"
	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

func setupTypeService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, context.Context) {
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
		&domain.AssetType{},
		&assetdomain.Asset{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})

	ctx := tenantctx.WithTenantID(context.Background(), node.Generate())
	return svc, db, node, ctx
}

func TestTypeHierarchyRoundTrip(t *testing.T) {
	svc, _, _, ctx := setupTypeService(t)

	parent, err := svc.Create(ctx, domain.CreateRequest{Name: "Server"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	parentID := parent.ID.String()
	child, err := svc.Create(ctx, domain.CreateRequest{
		Name:         "Hypervisor Host",
		ParentTypeID: &parentID,
		AttributesSchema: map[string]any{
			"cluster": map[string]any{"type": "string"},
		},
	})
	if err != nil {
		t.Fatalf("create child: %v", err)
	}
	if child.ParentTypeID == nil || *child.ParentTypeID != parent.ID {
		t.Fatalf("parent link not stored: %+v", child.ParentTypeID)
	}

	got, err := svc.GetByID(ctx, child.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AttributesSchema == nil {
		t.Fatal("attributes schema did not round-trip")
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 types, got %d", len(all))
	}
}

func TestExtensionKindResolution(t *testing.T) {
	svc, _, _, ctx := setupTypeService(t)

	cases := map[string]domain.ExtensionKind{
		"Server":         domain.KindServer,
		"WORKSTATION":    domain.KindWorkstation,
		"network_device": domain.KindNetworkDevice,
		"Mobile_Device":  domain.KindMobileDevice,
		"printer":        domain.KindPrinter,
		"Licensing":      domain.KindNone,
	}
	for name, want := range cases {
		created, err := svc.Create(ctx, domain.CreateRequest{Name: name})
		if err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
		if got := created.ExtensionKind(); got != want {
			t.Fatalf("type %q resolved to kind %q, want %q", name, got, want)
		}
	}
}

func TestDeleteGuardedByAssets(t *testing.T) {
	svc, db, node, ctx := setupTypeService(t)
	tenantID, _ := tenantctx.TenantIDFromContext(ctx)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Printer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	asset := assetdomain.Asset{
		ID:        node.Generate(),
		TenantID:  tenantID,
		TypeID:    created.ID,
		CompanyID: node.Generate(),
		AssetTag:  "PRN-001",
		Name:      "Lobby Printer",
		Status:    "active",
	}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("seed asset: %v", err)
	}

	if err := svc.Delete(ctx, created.ID.String()); !errors.Is(err, domain.ErrTypeInUse) {
		t.Fatalf("expected ErrTypeInUse, got %v", err)
	}

	if err := db.Delete(&asset).Error; err != nil {
		t.Fatalf("remove asset: %v", err)
	}
	if err := svc.Delete(ctx, created.ID.String()); err != nil {
		t.Fatalf("delete after removing asset: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
