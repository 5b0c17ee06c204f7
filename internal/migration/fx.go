package migration

import (
	assetdomain "github.com/smallbiznis/mspdesk/internal/asset/domain"
	assetassociationdomain "github.com/smallbiznis/mspdesk/internal/assetassociation/domain"
	assethistorydomain "github.com/smallbiznis/mspdesk/internal/assethistory/domain"
	assettypedomain "github.com/smallbiznis/mspdesk/internal/assettype/domain"
	billingplandomain "github.com/smallbiznis/mspdesk/internal/billingplan/domain"
	companydomain "github.com/smallbiznis/mspdesk/internal/company/domain"
	"github.com/smallbiznis/mspdesk/internal/config"
	creditdomain "github.com/smallbiznis/mspdesk/internal/credit/domain"
	servicecatalogdomain "github.com/smallbiznis/mspdesk/internal/servicecatalog/domain"
	usagedomain "github.com/smallbiznis/mspdesk/internal/usage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// The embedded SQL targets postgres. Other dialects get the
			// gorm schema instead, which keeps sqlite and mysql setups
			// working for local development.
			return conn.AutoMigrate(
				&companydomain.Company{},
				&assettypedomain.AssetType{},
				&assetdomain.Asset{},
				&assetdomain.WorkstationAsset{},
				&assetdomain.NetworkDeviceAsset{},
				&assetdomain.ServerAsset{},
				&assetdomain.MobileDeviceAsset{},
				&assetdomain.PrinterAsset{},
				&assetdomain.MaintenanceSchedule{},
				&assetassociationdomain.AssetAssociation{},
				&assethistorydomain.AssetHistory{},
				&servicecatalogdomain.CatalogService{},
				&billingplandomain.BillingPlan{},
				&billingplandomain.PlanService{},
				&billingplandomain.CompanyBillingPlan{},
				&usagedomain.UsageRecord{},
				&creditdomain.CreditTracking{},
				&creditdomain.CreditTransaction{},
				&creditdomain.CreditReconciliationReport{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
