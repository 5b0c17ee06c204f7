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
	"github.com/smallbiznis/mspdesk/internal/cache"
	"github.com/smallbiznis/mspdesk/internal/clock"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	companyrepo "github.com/smallbiznis/mspdesk/internal/company/repository"
	catalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	catalogrepo "github.com/smallbiznis/mspdesk/internal/servicecatalog/repository"
	"github.com/smallbiznis/mspdesk/internal/usage/domain"
	"github.com/smallbiznis/mspdesk/internal/usage/repository"
	"github.com/smallbiznis/mspdesk/pkg/tenantctx"
)

type usageFixture struct {
	svc       domain.Service
	db        *gorm.DB
	node      *snowflake.Node
	clock     *clock.FakeClock
	tenantID  snowflake.ID
	companyID snowflake.ID
	serviceID snowflake.ID
}

func setupUsageService(t *testing.T) *usageFixture {
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
		&domain.UsageRecord{},
		&companydomain.Company{},
		&catalogdomain.CatalogService{},
		&billingplandomain.BillingPlan{},
		&billingplandomain.PlanService{},
		&billingplandomain.CompanyBillingPlan{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	fc := clock.NewFakeClock(time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC))
	tenantID := node.Generate()

	companyID := node.Generate()
	if err := db.Create(&companydomain.Company{
		ID:       companyID,
		TenantID: tenantID,
		Name:     "Initech",
	}).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}

	serviceID := node.Generate()
	standardType := node.Generate()
	if err := db.Create(&catalogdomain.CatalogService{
		ID:                    serviceID,
		TenantID:              tenantID,
		Name:                  "Helpdesk Hours",
		StandardServiceTypeID: &standardType,
		BillingMethod:         catalogdomain.BillingPerUnit,
		DefaultRate:           15000,
		UnitOfMeasure:         "hour",
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
		Eligibility: cache.NewPlanEligibilityCache(),
	})

	return &usageFixture{
		svc:       svc,
		db:        db,
		node:      node,
		clock:     fc,
		tenantID:  tenantID,
		companyID: companyID,
		serviceID: serviceID,
	}
}

func (f *usageFixture) ctx() context.Context {
	return tenantctx.WithTenantID(context.Background(), f.tenantID)
}

// seedPlan creates a plan carrying the fixture service and assigns it to the
// fixture company, active as of the fake clock.
func (f *usageFixture) seedPlan(t *testing.T, name, planType string) snowflake.ID {
	t.Helper()

	planID := f.node.Generate()
	if err := f.db.Create(&billingplandomain.BillingPlan{
		ID:       planID,
		TenantID: f.tenantID,
		Name:     name,
		PlanType: planType,
	}).Error; err != nil {
		t.Fatalf("seed plan %s: %v", name, err)
	}
	if err := f.db.Create(&billingplandomain.PlanService{
		ID:        f.node.Generate(),
		TenantID:  f.tenantID,
		PlanID:    planID,
		ServiceID: f.serviceID,
		Quantity:  1,
	}).Error; err != nil {
		t.Fatalf("seed plan service %s: %v", name, err)
	}
	if err := f.db.Create(&billingplandomain.CompanyBillingPlan{
		ID:        f.node.Generate(),
		TenantID:  f.tenantID,
		CompanyID: f.companyID,
		PlanID:    planID,
		StartDate: f.clock.Now().AddDate(0, -1, 0),
		IsActive:  true,
	}).Error; err != nil {
		t.Fatalf("seed assignment %s: %v", name, err)
	}
	return planID
}

func (f *usageFixture) createUsage(t *testing.T, planID string) *domain.Response {
	t.Helper()
	resp, err := f.svc.Create(f.ctx(), domain.CreateRequest{
		CompanyID:     f.companyID.String(),
		ServiceID:     f.serviceID.String(),
		Quantity:      2.5,
		UsageDate:     f.clock.Now(),
		BillingPlanID: planID,
	})
	if err != nil {
		t.Fatalf("create usage: %v", err)
	}
	return resp
}

func TestDefaultPlanSelectionPolicy(t *testing.T) {
	one := domain.EligiblePlan{PlanID: 1, PlanType: billingplandomain.PlanFixed}
	bucket := domain.EligiblePlan{PlanID: 2, PlanType: billingplandomain.PlanBucket}
	bucket2 := domain.EligiblePlan{PlanID: 3, PlanType: billingplandomain.PlanBucket}

	if got := domain.DefaultPlanSelection(nil); got != nil {
		t.Fatalf("empty set should select nothing, got %+v", got)
	}
	if got := domain.DefaultPlanSelection([]domain.EligiblePlan{one}); got == nil || got.PlanID != 1 {
		t.Fatalf("single plan should auto-select, got %+v", got)
	}
	if got := domain.DefaultPlanSelection([]domain.EligiblePlan{one, bucket}); got == nil || got.PlanID != 2 {
		t.Fatalf("single bucket should win, got %+v", got)
	}
	if got := domain.DefaultPlanSelection([]domain.EligiblePlan{one, bucket, bucket2}); got != nil {
		t.Fatalf("two buckets is ambiguous, got %+v", got)
	}
	if got := domain.DefaultPlanSelection([]domain.EligiblePlan{one, {PlanID: 4, PlanType: billingplandomain.PlanFixed}}); got != nil {
		t.Fatalf("two non-bucket plans is ambiguous, got %+v", got)
	}
}

func TestCreateAutoSelectsSinglePlan(t *testing.T) {
	f := setupUsageService(t)
	planID := f.seedPlan(t, "Standard", billingplandomain.PlanFixed)

	resp := f.createUsage(t, "")
	if resp.BillingPlanID == nil || *resp.BillingPlanID != planID {
		t.Fatalf("expected auto-selected plan %s, got %v", planID, resp.BillingPlanID)
	}
	if resp.RequiresSelection {
		t.Fatal("single plan should not require selection")
	}
}

func TestCreatePrefersBucketPlan(t *testing.T) {
	f := setupUsageService(t)
	f.seedPlan(t, "Overage", billingplandomain.PlanUsageBased)
	bucketID := f.seedPlan(t, "Pool", billingplandomain.PlanBucket)

	resp := f.createUsage(t, "")
	if resp.BillingPlanID == nil || *resp.BillingPlanID != bucketID {
		t.Fatalf("expected bucket plan %s, got %v", bucketID, resp.BillingPlanID)
	}
}

func TestCreateAmbiguousRequiresSelection(t *testing.T) {
	f := setupUsageService(t)
	f.seedPlan(t, "Plan A", billingplandomain.PlanFixed)
	f.seedPlan(t, "Plan B", billingplandomain.PlanFixed)

	resp := f.createUsage(t, "")
	if resp.BillingPlanID != nil {
		t.Fatalf("ambiguous eligibility must not auto-select, got %v", resp.BillingPlanID)
	}
	if !resp.RequiresSelection {
		t.Fatal("expected requires_selection flag")
	}
	if len(resp.EligiblePlans) != 2 {
		t.Fatalf("expected 2 eligible plans in response, got %d", len(resp.EligiblePlans))
	}
}

func TestExplicitPlanMustBeEligible(t *testing.T) {
	f := setupUsageService(t)
	f.seedPlan(t, "Only Plan", billingplandomain.PlanFixed)

	_, err := f.svc.Create(f.ctx(), domain.CreateRequest{
		CompanyID:     f.companyID.String(),
		ServiceID:     f.serviceID.String(),
		Quantity:      1,
		UsageDate:     f.clock.Now(),
		BillingPlanID: f.node.Generate().String(),
	})
	if !errors.Is(err, domain.ErrPlanNotEligible) {
		t.Fatalf("expected ErrPlanNotEligible, got %v", err)
	}
}

func TestUpdateClearsStaleSelection(t *testing.T) {
	f := setupUsageService(t)
	planID := f.seedPlan(t, "Contract", billingplandomain.PlanFixed)

	resp := f.createUsage(t, "")
	if resp.BillingPlanID == nil || *resp.BillingPlanID != planID {
		t.Fatalf("expected selection %s, got %v", planID, resp.BillingPlanID)
	}

	// Moving the record to a company with no plans leaves the old selection
	// ineligible; it must be cleared, not silently billed.
	otherCompany := f.node.Generate()
	if err := f.db.Create(&companydomain.Company{
		ID:       otherCompany,
		TenantID: f.tenantID,
		Name:     "No Contract LLC",
	}).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}

	otherCompanyID := otherCompany.String()
	updated, err := f.svc.Update(f.ctx(), domain.UpdateRequest{
		ID:        resp.ID.String(),
		CompanyID: &otherCompanyID,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.BillingPlanID != nil {
		t.Fatalf("expected selection cleared, got %v", updated.BillingPlanID)
	}
	if updated.RequiresSelection {
		t.Fatal("no eligible plans means nothing to select")
	}
}

func TestEligibilityLookupsAreCached(t *testing.T) {
	f := setupUsageService(t)
	planID := f.seedPlan(t, "Cached", billingplandomain.PlanFixed)
	ctx := f.ctx()

	plans, err := f.svc.EligibleBillingPlans(ctx, f.companyID.String(), f.serviceID.String())
	if err != nil {
		t.Fatalf("eligible plans: %v", err)
	}
	if len(plans) != 1 || plans[0].PlanID != planID {
		t.Fatalf("unexpected eligible plans: %+v", plans)
	}

	// Within the TTL the cached result survives an underlying change.
	if err := f.db.Where("tenant_id = ?", f.tenantID).
		Delete(&billingplandomain.CompanyBillingPlan{}).Error; err != nil {
		t.Fatalf("remove assignments: %v", err)
	}

	plans, err = f.svc.EligibleBillingPlans(ctx, f.companyID.String(), f.serviceID.String())
	if err != nil {
		t.Fatalf("eligible plans cached: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected cached result, got %+v", plans)
	}
}

func TestQuantityValidation(t *testing.T) {
	f := setupUsageService(t)
	f.seedPlan(t, "Any", billingplandomain.PlanFixed)

	_, err := f.svc.Create(f.ctx(), domain.CreateRequest{
		CompanyID: f.companyID.String(),
		ServiceID: f.serviceID.String(),
		Quantity:  0,
		UsageDate: f.clock.Now(),
	})
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}
