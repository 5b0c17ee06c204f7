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

	"github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	"github.com/smallbiznis/mspdesk/internal/billingplan/repository"
	"github.com/smallbiznis/mspdesk/internal/clock"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	companyrepo "github.com/smallbiznis/mspdesk/internal/company/repository"
	catalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	catalogrepo "github.com/smallbiznis/mspdesk/internal/servicecatalog/repository"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

type planFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	tenantID  snowflake.ID
	companyID snowflake.ID
	serviceID snowflake.ID
}

func setupPlanService(t *testing.T) *planFixture {
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
		&domain.BillingPlan{},
		&domain.PlanService{},
		&domain.CompanyBillingPlan{},
		&companydomain.Company{},
		&catalogdomain.CatalogService{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	fc := clock.NewFakeClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	tenantID := node.Generate()

	companyID := node.Generate()
	if err := db.Create(&companydomain.Company{
		ID:       companyID,
		TenantID: tenantID,
		Name:     "Globex",
	}).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}

	serviceID := node.Generate()
	standardType := node.Generate()
	if err := db.Create(&catalogdomain.CatalogService{
		ID:                    serviceID,
		TenantID:              tenantID,
		Name:                  "Endpoint Protection",
		StandardServiceTypeID: &standardType,
		BillingMethod:         catalogdomain.BillingPerUnit,
		DefaultRate:           500,
		UnitOfMeasure:         "endpoint",
	}).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fc,
		Repo:        repository.Provide(),
		CompanyRepo: companyrepo.Provide(),
		CatalogRepo: catalogrepo.Provide(),
	})

	return &planFixture{
		svc:       svc,
		db:        db,
		node:      node,
		clock:     fc,
		tenantID:  tenantID,
		companyID: companyID,
		serviceID: serviceID,
	}
}

func (f *planFixture) ctx() context.Context {
	return tenantctx.WithTenantID(context.Background(), f.tenantID)
}

func (f *planFixture) createPlan(t *testing.T, name, planType string) *domain.BillingPlan {
	t.Helper()
	plan, err := f.svc.CreatePlan(f.ctx(), domain.CreatePlanRequest{
		Name:     name,
		PlanType: planType,
	})
	if err != nil {
		t.Fatalf("create plan %s: %v", name, err)
	}
	return plan
}

func TestDeletePlanGuards(t *testing.T) {
	f := setupPlanService(t)
	ctx := f.ctx()

	plan := f.createPlan(t, "Silver", domain.PlanFixed)

	if _, err := f.svc.AddService(ctx, domain.AddServiceRequest{
		PlanID:    plan.ID.String(),
		ServiceID: f.serviceID.String(),
		Quantity:  5,
	}); err != nil {
		t.Fatalf("add service: %v", err)
	}

	if err := f.svc.DeletePlan(ctx, plan.ID.String()); !errors.Is(err, domain.ErrPlanHasServices) {
		t.Fatalf("expected ErrPlanHasServices, got %v", err)
	}

	if err := f.svc.RemoveService(ctx, plan.ID.String(), f.serviceID.String()); err != nil {
		t.Fatalf("remove service: %v", err)
	}

	if _, err := f.svc.Assign(ctx, domain.AssignRequest{
		CompanyID: f.companyID.String(),
		PlanID:    plan.ID.String(),
		StartDate: f.clock.Now(),
	}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// The two conflicts must stay distinguishable.
	if err := f.svc.DeletePlan(ctx, plan.ID.String()); !errors.Is(err, domain.ErrPlanInUseByCompanies) {
		t.Fatalf("expected ErrPlanInUseByCompanies, got %v", err)
	}
}

func TestPlanServiceLinkRates(t *testing.T) {
	f := setupPlanService(t)
	ctx := f.ctx()

	plan := f.createPlan(t, "Gold", domain.PlanBucket)

	view, err := f.svc.AddService(ctx, domain.AddServiceRequest{
		PlanID:    plan.ID.String(),
		ServiceID: f.serviceID.String(),
		Quantity:  10,
	})
	if err != nil {
		t.Fatalf("add service: %v", err)
	}
	if view.EffectiveRate != 500 {
		t.Fatalf("expected default rate 500, got %d", view.EffectiveRate)
	}

	// An override takes precedence over the service default.
	override := int64(450)
	view, err = f.svc.UpdateCustomRate(ctx, plan.ID.String(), f.serviceID.String(), &override)
	if err != nil {
		t.Fatalf("set custom rate: %v", err)
	}
	if view.EffectiveRate != 450 {
		t.Fatalf("expected override 450, got %d", view.EffectiveRate)
	}

	// Clearing it falls back to the default.
	view, err = f.svc.UpdateCustomRate(ctx, plan.ID.String(), f.serviceID.String(), nil)
	if err != nil {
		t.Fatalf("clear custom rate: %v", err)
	}
	if view.CustomRate != nil {
		t.Fatal("expected custom rate cleared")
	}
	if view.EffectiveRate != 500 {
		t.Fatalf("expected fallback 500, got %d", view.EffectiveRate)
	}
}

func TestPlanServiceLinkUniqueAndQuantity(t *testing.T) {
	f := setupPlanService(t)
	ctx := f.ctx()

	plan := f.createPlan(t, "Platinum", domain.PlanUsageBased)

	if _, err := f.svc.AddService(ctx, domain.AddServiceRequest{
		PlanID:    plan.ID.String(),
		ServiceID: f.serviceID.String(),
		Quantity:  1,
	}); err != nil {
		t.Fatalf("add service: %v", err)
	}

	_, err := f.svc.AddService(ctx, domain.AddServiceRequest{
		PlanID:    plan.ID.String(),
		ServiceID: f.serviceID.String(),
		Quantity:  2,
	})
	if !errors.Is(err, domain.ErrServiceAlreadyOnPlan) {
		t.Fatalf("expected ErrServiceAlreadyOnPlan, got %v", err)
	}

	if _, err := f.svc.UpdateQuantity(ctx, plan.ID.String(), f.serviceID.String(), 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	view, err := f.svc.UpdateQuantity(ctx, plan.ID.String(), f.serviceID.String(), 25)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if view.Quantity != 25 {
		t.Fatalf("expected quantity 25, got %d", view.Quantity)
	}
}

func TestAssignmentActiveWindow(t *testing.T) {
	f := setupPlanService(t)
	ctx := f.ctx()

	plan := f.createPlan(t, "Bronze", domain.PlanFixed)

	assignment, err := f.svc.Assign(ctx, domain.AssignRequest{
		CompanyID: f.companyID.String(),
		PlanID:    plan.ID.String(),
		StartDate: f.clock.Now(),
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}

	active, err := f.svc.ListByCompany(ctx, f.companyID.String(), true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active assignment, got %d", len(active))
	}

	if err := f.svc.Unassign(ctx, assignment.ID.String()); err != nil {
		t.Fatalf("unassign: %v", err)
	}

	active, err = f.svc.ListByCompany(ctx, f.companyID.String(), true)
	if err != nil {
		t.Fatalf("list active after unassign: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active assignments, got %d", len(active))
	}

	all, err := f.svc.ListByCompany(ctx, f.companyID.String(), false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 assignment overall, got %d", len(all))
	}

	// A future-dated assignment is not active yet.
	if _, err := f.svc.Assign(ctx, domain.AssignRequest{
		CompanyID: f.companyID.String(),
		PlanID:    plan.ID.String(),
		StartDate: f.clock.Now().AddDate(0, 1, 0),
	}); err != nil {
		t.Fatalf("assign future: %v", err)
	}
	active, err = f.svc.ListByCompany(ctx, f.companyID.String(), true)
	if err != nil {
		t.Fatalf("list active with future: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("future assignment should not be active, got %d", len(active))
	}
}
