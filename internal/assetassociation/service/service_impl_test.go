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

	"github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	"github.com/smallbiznis/mspdesk/internal/assetassociation/repository"
	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

func setupAssociationService(t *testing.T) (domain.Service, *snowflake.Node, context.Context) {
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

	if err := db.AutoMigrate(&domain.AssetAssociation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})

	ctx := tenantctx.WithTenantID(context.Background(), node.Generate())
	return svc, node, ctx
}

func TestAssociationLifecycle(t *testing.T) {
	svc, node, ctx := setupAssociationService(t)

	assetID := node.Generate()
	ticketID := node.Generate()

	created, err := svc.Create(ctx, domain.CreateRequest{
		AssetID:          assetID.String(),
		EntityID:         ticketID.String(),
		EntityType:       "Ticket",
		RelationshipType: "affected_device",
		CreatedBy:        "tech@msp.example",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.EntityType != domain.EntityTicket {
		t.Fatalf("entity type not normalized: %q", created.EntityType)
	}

	found, err := svc.FindByAssetAndEntity(ctx, assetID.String(), ticketID.String(), domain.EntityTicket)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.RelationshipType != "affected_device" {
		t.Fatalf("unexpected relationship: %q", found.RelationshipType)
	}

	if err := svc.Delete(ctx, assetID.String(), ticketID.String(), domain.EntityTicket); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.FindByAssetAndEntity(ctx, assetID.String(), ticketID.String(), domain.EntityTicket); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAssociationEntityTypeValidation(t *testing.T) {
	svc, node, ctx := setupAssociationService(t)

	_, err := svc.Create(ctx, domain.CreateRequest{
		AssetID:    node.Generate().String(),
		EntityID:   node.Generate().String(),
		EntityType: "invoice",
	})
	if !errors.Is(err, domain.ErrInvalidEntityType) {
		t.Fatalf("expected ErrInvalidEntityType, got %v", err)
	}
}

func TestAssociationListings(t *testing.T) {
	svc, node, ctx := setupAssociationService(t)

	assetID := node.Generate()
	projectID := node.Generate()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreateRequest{
			AssetID:    assetID.String(),
			EntityID:   node.Generate().String(),
			EntityType: domain.EntityTicket,
		})
		if err != nil {
			t.Fatalf("seed ticket link %d: %v", i, err)
		}
	}
	if _, err := svc.Create(ctx, domain.CreateRequest{
		AssetID:    assetID.String(),
		EntityID:   projectID.String(),
		EntityType: domain.EntityProject,
	}); err != nil {
		t.Fatalf("seed project link: %v", err)
	}

	byAsset, err := svc.ListByAsset(ctx, assetID.String())
	if err != nil {
		t.Fatalf("list by asset: %v", err)
	}
	if len(byAsset) != 4 {
		t.Fatalf("expected 4 links, got %d", len(byAsset))
	}

	byProject, err := svc.ListByEntity(ctx, projectID.String(), domain.EntityProject)
	if err != nil {
		t.Fatalf("list by entity: %v", err)
	}
	if len(byProject) != 1 || byProject[0].AssetID != assetID {
		t.Fatalf("unexpected project links: %+v", byProject)
	}

	// Another tenant sees nothing.
	otherCtx := tenantctx.WithTenantID(context.Background(), node.Generate())
	otherLinks, err := svc.ListByAsset(otherCtx, assetID.String())
	if err != nil {
		t.Fatalf("list other tenant: %v", err)
	}
	if len(otherLinks) != 0 {
		t.Fatalf("expected no cross-tenant links, got %d", len(otherLinks))
	}
}
