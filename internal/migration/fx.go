package migration

import (
	auditdomain "github.com/clubworks/sponsorpay/internal/audit/domain"
	"github.com/clubworks/sponsorpay/internal/config"
	sponsorshipdomain "github.com/clubworks/sponsorpay/internal/sponsorship/domain"
	tenantdomain "github.com/clubworks/sponsorpay/internal/tenant/domain"
	webhookdomain "github.com/clubworks/sponsorpay/internal/webhook/domain"
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
			return RunMigrations(sqlDB)
		}

		// mysql/sqlite deployments rely on gorm's schema derivation.
		return conn.AutoMigrate(
			&tenantdomain.TenantConfig{},
			&sponsorshipdomain.Sponsorship{},
			&webhookdomain.WebhookEvent{},
			&auditdomain.AuditLog{},
		)
	}),
)
