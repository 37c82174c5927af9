package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/evalia-hr/evalia/internal/config"
	"github.com/evalia-hr/evalia/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(log *zap.Logger, conn *gorm.DB, cfg config.Config) error {
		if err := Run(conn); err != nil {
			return err
		}
		return seed.EnsureBootstrapAdmin(log, conn, cfg)
	}),
)
