// Package seed provisions the first admin account on an empty
// database so the invitation chain has somewhere to start.
package seed

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	admindomain "github.com/evalia-hr/evalia/internal/admin/domain"
	"github.com/evalia-hr/evalia/internal/auth/password"
	"github.com/evalia-hr/evalia/internal/config"
)

// EnsureBootstrapAdmin creates the configured admin when no admin
// exists yet. It is a no-op without bootstrap credentials or once any
// admin row is present.
func EnsureBootstrapAdmin(log *zap.Logger, conn *gorm.DB, cfg config.Config) error {
	if cfg.Bootstrap.AdminEmail == "" || cfg.Bootstrap.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := conn.Model(&admindomain.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}
	hashed, err := password.Hash(cfg.Bootstrap.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &admindomain.Admin{
		ID:           node.Generate(),
		Name:         cfg.Bootstrap.AdminName,
		Email:        cfg.Bootstrap.AdminEmail,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := conn.Create(admin).Error; err != nil {
		return err
	}

	log.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}
