package migration

import (
	"github.com/gufolabs/gestiune/internal/config"
	customerdomain "github.com/gufolabs/gestiune/internal/customer/domain"
	invoicedomain "github.com/gufolabs/gestiune/internal/invoice/domain"
	productdomain "github.com/gufolabs/gestiune/internal/product/domain"
	profiledomain "github.com/gufolabs/gestiune/internal/profile/domain"
	"github.com/gufolabs/gestiune/internal/seed"
	tenantdomain "github.com/gufolabs/gestiune/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql and sqlite installs rely on the model schema.
			if err := conn.AutoMigrate(
				&tenantdomain.Tenant{},
				&customerdomain.Customer{},
				&productdomain.Product{},
				&profiledomain.NumberingProfile{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceLine{},
				&invoicedomain.SequenceState{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoTenant(conn)
		}
		return nil
	}),
)
