package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/mspdesk/internal/asset"
	assetdomain "github.com/smallbiznis/mspdesk/internal/asset/domain"
	"github.com/smallbiznis/mspdesk/internal/assetassociation"
	assetassociationdomain "github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	"github.com/smallbiznis/mspdesk/internal/assethistory"
	assethistorydomain "github.com/smallbiznis/mspdesk/internal/assethistory/domain"
	"github.com/smallbiznis/mspdesk/internal/assettype"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
	"github.com/smallbiznis/mspdesk/internal/billingplan"
	billingplandomain "github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	"github.com/smallbiznis/mspdesk/internal/cache"
	"github.com/smallbiznis/mspdesk/internal/company"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	"github.com/smallbiznis/mspdesk/internal/config"
	"github.com/smallbiznis/mspdesk/internal/credit"
	creditdomain "github.com/smallbiznis/mspdesk/internal/credit/domain"
	"github.com/smallbiznis/mspdesk/internal/observability"
	obslogger "github.com/smallbiznis/mspdesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/mspdesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/mspdesk/internal/observability/tracing"
	"github.com/smallbiznis/mspdesk/internal/servicecatalog"
	servicecatalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	"github.com/smallbiznis/mspdesk/internal/usage"
	usagedomain "github.com/smallbiznis/mspdesk/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	cache.Module,
	company.Module,
	assettype.Module,
	asset.Module,
	assetassociation.Module,
	assethistory.Module,
	servicecatalog.Module,
	billingplan.Module,
	usage.Module,
	credit.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// RunHTTP binds the engine to the configured address under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, s *Server) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	companySvc     companydomain.Service
	assetTypeSvc   assettypedomain.Service
	assetSvc       assetdomain.Service
	associationSvc assetassociationdomain.Service
	historySvc     assethistorydomain.Service
	catalogSvc     servicecatalogdomain.Service
	planSvc        billingplandomain.Service
	usageSvc       usagedomain.Service
	creditSvc      creditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	CompanySvc     companydomain.Service
	AssetTypeSvc   assettypedomain.Service
	AssetSvc       assetdomain.Service
	AssociationSvc assetassociationdomain.Service
	HistorySvc     assethistorydomain.Service
	CatalogSvc     servicecatalogdomain.Service
	PlanSvc        billingplandomain.Service
	UsageSvc       usagedomain.Service
	CreditSvc      creditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		db:             p.DB,
		genID:          p.GenID,
		companySvc:     p.CompanySvc,
		assetTypeSvc:   p.AssetTypeSvc,
		assetSvc:       p.AssetSvc,
		associationSvc: p.AssociationSvc,
		historySvc:     p.HistorySvc,
		catalogSvc:     p.CatalogSvc,
		planSvc:        p.PlanSvc,
		usageSvc:       p.UsageSvc,
		creditSvc:      p.CreditSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1", TenantRequired())

	// -------- Companies --------
	api.GET("/companies", s.ListCompanies)
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:id", s.GetCompanyByID)
	api.PATCH("/companies/:id", s.UpdateCompany)
	api.POST("/companies/:id/credit_adjustments", s.AdjustCompanyCredit)
	api.GET("/companies/:id/asset_report", s.GetCompanyAssetReport)
	api.GET("/companies/:id/billing_plans", s.ListCompanyBillingPlans)
	api.GET("/companies/:id/credits", s.ListCompanyCredits)
	api.POST("/companies/:id/credit_validation", s.ValidateCompanyCredit)

	// -------- Asset Types --------
	api.GET("/asset_types", s.ListAssetTypes)
	api.POST("/asset_types", s.CreateAssetType)
	api.GET("/asset_types/:id", s.GetAssetTypeByID)
	api.PATCH("/asset_types/:id", s.UpdateAssetType)
	api.DELETE("/asset_types/:id", s.DeleteAssetType)

	// -------- Assets --------
	api.GET("/assets", s.ListAssets)
	api.POST("/assets", s.CreateAsset)
	api.GET("/assets/:id", s.GetAssetByID)
	api.PATCH("/assets/:id", s.UpdateAsset)
	api.DELETE("/assets/:id", s.DeleteAsset)
	api.GET("/assets/:id/history", s.ListAssetHistory)
	api.GET("/assets/:id/associations", s.ListAssetAssociations)

	// -------- Maintenance --------
	api.POST("/maintenance_schedules", s.CreateMaintenanceSchedule)
	api.POST("/maintenance_schedules/:id/completions", s.RecordMaintenance)

	// -------- Asset Associations --------
	api.GET("/asset_associations", s.FindAssetAssociations)
	api.POST("/asset_associations", s.CreateAssetAssociation)
	api.DELETE("/asset_associations", s.DeleteAssetAssociation)

	// -------- Service Catalog --------
	api.GET("/services", s.ListCatalogServices)
	api.POST("/services", s.CreateCatalogService)
	api.GET("/services/:id", s.GetCatalogServiceByID)
	api.PATCH("/services/:id", s.UpdateCatalogService)
	api.DELETE("/services/:id", s.DeleteCatalogService)

	// -------- Billing Plans --------
	api.GET("/billing_plans", s.ListBillingPlans)
	api.POST("/billing_plans", s.CreateBillingPlan)
	api.GET("/billing_plans/:id", s.GetBillingPlanByID)
	api.PATCH("/billing_plans/:id", s.UpdateBillingPlan)
	api.DELETE("/billing_plans/:id", s.DeleteBillingPlan)
	api.GET("/billing_plans/:id/services", s.ListBillingPlanServices)
	api.POST("/billing_plans/:id/services", s.AddBillingPlanService)
	api.PATCH("/billing_plans/:id/services/:serviceId", s.UpdateBillingPlanService)
	api.DELETE("/billing_plans/:id/services/:serviceId", s.RemoveBillingPlanService)
	api.POST("/billing_plan_assignments", s.AssignBillingPlan)
	api.DELETE("/billing_plan_assignments/:id", s.UnassignBillingPlan)

	// -------- Usage --------
	api.GET("/usage_records", s.ListUsageRecords)
	api.POST("/usage_records", s.CreateUsageRecord)
	api.GET("/usage_records/eligible_plans", s.ListEligibleBillingPlans)
	api.GET("/usage_records/:id", s.GetUsageRecordByID)
	api.PATCH("/usage_records/:id", s.UpdateUsageRecord)
	api.DELETE("/usage_records/:id", s.DeleteUsageRecord)

	// -------- Credits --------
	api.POST("/credits", s.IssueCredit)
	api.POST("/credits/:id/applications", s.ApplyCredit)
	api.PATCH("/credits/:id/expiration", s.UpdateCreditExpiration)
	api.GET("/reconciliation_reports", s.ListReconciliationReports)
	api.POST("/reconciliation_reports/:id/review", s.MarkReportInReview)
	api.POST("/reconciliation_reports/:id/resolution", s.ResolveReport)
}
