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

	"github.com/smallbiznis/mspdesk/internal/assethistory/domain"
	"github.com/smallbiznis/mspdesk/internal/assethistory/repository"
	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

func setupHistoryService(t *testing.T) (domain.Service, *snowflake.Node, context.Context) {
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

	if err := db.AutoMigrate(&domain.AssetHistory{}); err != nil {
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
	return svc, node, ctx
}

func TestRecordAndListHistory(t *testing.T) {
	svc, node, ctx := setupHistoryService(t)

	assetID := node.Generate()
	if _, err := svc.Record(ctx, domain.RecordRequest{
		AssetID:    assetID,
		ChangedBy:  "tech@msp.example",
		ChangeType: domain.ChangeCreated,
		Changes:    map[string]interface{}{"name": "Edge Router"},
	}); err != nil {
		t.Fatalf("record created: %v", err)
	}
	if _, err := svc.Record(ctx, domain.RecordRequest{
		AssetID:    assetID,
		ChangedBy:  "tech@msp.example",
		ChangeType: domain.ChangeUpdated,
		Changes:    map[string]interface{}{"status": "retired"},
	}); err != nil {
		t.Fatalf("record updated: %v", err)
	}

	entries, err := svc.ListByAsset(ctx, assetID.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.AssetID != assetID {
			t.Fatalf("entry for wrong asset: %v", entry.AssetID)
		}
	}
}

func TestRecordRequiresAsset(t *testing.T) {
	svc, _, ctx := setupHistoryService(t)

	if _, err := svc.Record(ctx, domain.RecordRequest{ChangeType: domain.ChangeCreated}); !errors.Is(err, domain.ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset, got %v", err)
	}
}

func TestHistoryTenantIsolation(t *testing.T) {
	svc, node, ctx := setupHistoryService(t)

	assetID := node.Generate()
	if _, err := svc.Record(ctx, domain.RecordRequest{
		AssetID:    assetID,
		ChangeType: domain.ChangeDeleted,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	otherCtx := tenantctx.WithTenantID(context.Background(), node.Generate())
	entries, err := svc.ListByAsset(otherCtx, assetID.String())
	if err != nil {
		t.Fatalf("list other tenant: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no cross-tenant history, got %d", len(entries))
	}
}
