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

	billingplandomain "github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	"github.com/smallbiznis/mspdesk/internal/servicecatalog/repository"
	"github.com/smallbiznis/mspdesk/pkg/db/pagination"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

func setupCatalogService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node, context.Context) {
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
		&domain.CatalogService{},
		&billingplandomain.PlanService{},
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

	tenantID := node.Generate()
	ctx := tenantctx.WithTenantID(context.Background(), tenantID)
	return svc, db, node, ctx
}

func TestCreateRoundTripsCents(t *testing.T) {
	svc, _, node, ctx := setupCatalogService(t)

	typeID := node.Generate().String()
	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:                  "Managed Backup",
		StandardServiceTypeID: typeID,
		BillingMethod:         domain.BillingFixed,
		DefaultRate:           1250, // $12.50
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.DefaultRate != 1250 {
		t.Fatalf("expected default_rate 1250, got %d", created.DefaultRate)
	}

	got, err := svc.GetByID(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DefaultRate != 1250 {
		t.Fatalf("rate did not round-trip, got %d", got.DefaultRate)
	}
}

func TestListClampsDegeneratePagination(t *testing.T) {
	svc, _, node, ctx := setupCatalogService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, domain.CreateRequest{
			Name:                  fmt.Sprintf("Service %d", i),
			StandardServiceTypeID: node.Generate().String(),
			BillingMethod:         domain.BillingFixed,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	resp, err := svc.List(ctx, domain.ListRequest{
		Pagination: pagination.Pagination{Page: 0, Limit: 0},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("expected total 3, got %d", resp.Total)
	}
	if len(resp.Services) != 1 {
		t.Fatalf("expected a non-empty first page, got %d services", len(resp.Services))
	}
	if resp.Page != 1 || resp.Limit != 1 {
		t.Fatalf("expected clamped page=1 limit=1, got page=%d limit=%d", resp.Page, resp.Limit)
	}
}

func TestServiceTypeExclusivity(t *testing.T) {
	svc, _, node, ctx := setupCatalogService(t)

	_, err := svc.Create(ctx, domain.CreateRequest{
		Name:          "No Type",
		BillingMethod: domain.BillingFixed,
	})
	if !errors.Is(err, domain.ErrServiceTypeRequired) {
		t.Fatalf("expected ErrServiceTypeRequired, got %v", err)
	}

	_, err = svc.Create(ctx, domain.CreateRequest{
		Name:                  "Both Types",
		StandardServiceTypeID: node.Generate().String(),
		CustomServiceTypeID:   node.Generate().String(),
		BillingMethod:         domain.BillingFixed,
	})
	if !errors.Is(err, domain.ErrServiceTypeExclusive) {
		t.Fatalf("expected ErrServiceTypeExclusive, got %v", err)
	}

	standardID := node.Generate()
	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:                  "Standard",
		StandardServiceTypeID: standardID.String(),
		BillingMethod:         domain.BillingFixed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Setting the custom type clears the standard one.
	customID := node.Generate().String()
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:                  created.ID.String(),
		CustomServiceTypeID: &customID,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.StandardServiceTypeID != nil {
		t.Fatal("standard type should have been cleared")
	}
	if updated.CustomServiceTypeID == nil {
		t.Fatal("custom type should be set")
	}
	if eff := updated.EffectiveServiceTypeID(); eff == nil || eff.String() != customID {
		t.Fatalf("unexpected effective type: %v", eff)
	}
}

func TestUnitOfMeasureGating(t *testing.T) {
	svc, _, node, ctx := setupCatalogService(t)

	typeID := node.Generate().String()
	_, err := svc.Create(ctx, domain.CreateRequest{
		Name:                  "Per GB Storage",
		StandardServiceTypeID: typeID,
		BillingMethod:         domain.BillingPerUnit,
		DefaultRate:           50,
	})
	if !errors.Is(err, domain.ErrUnitOfMeasureRequired) {
		t.Fatalf("expected ErrUnitOfMeasureRequired, got %v", err)
	}

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:                  "Per GB Storage",
		StandardServiceTypeID: typeID,
		BillingMethod:         domain.BillingPerUnit,
		DefaultRate:           50,
		UnitOfMeasure:         "GB",
	})
	if err != nil {
		t.Fatalf("create per_unit: %v", err)
	}
	if created.UnitOfMeasure != "GB" {
		t.Fatalf("expected unit GB, got %q", created.UnitOfMeasure)
	}

	// Switching to fixed billing drops the unit.
	fixed := domain.BillingFixed
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:            created.ID.String(),
		BillingMethod: &fixed,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UnitOfMeasure != "" {
		t.Fatalf("expected unit cleared for fixed billing, got %q", updated.UnitOfMeasure)
	}
}

func TestDeleteGuardedByPlanLinks(t *testing.T) {
	svc, db, node, ctx := setupCatalogService(t)
	tenantID, _ := tenantctx.TenantIDFromContext(ctx)

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:                  "Monitoring",
		StandardServiceTypeID: node.Generate().String(),
		BillingMethod:         domain.BillingFixed,
		DefaultRate:           9900,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	link := billingplandomain.PlanService{
		ID:        node.Generate(),
		TenantID:  tenantID,
		PlanID:    node.Generate(),
		ServiceID: created.ID,
		Quantity:  1,
	}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}

	if err := svc.Delete(ctx, created.ID.String()); !errors.Is(err, domain.ErrServiceInUse) {
		t.Fatalf("expected ErrServiceInUse, got %v", err)
	}

	if err := db.Delete(&link).Error; err != nil {
		t.Fatalf("remove link: %v", err)
	}
	if err := svc.Delete(ctx, created.ID.String()); err != nil {
		t.Fatalf("delete after unlink: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID.String()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
