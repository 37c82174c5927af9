package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/evalia-hr/evalia/internal/admin"
	"github.com/evalia-hr/evalia/internal/auth"
	"github.com/evalia-hr/evalia/internal/clock"
	"github.com/evalia-hr/evalia/internal/company"
	"github.com/evalia-hr/evalia/internal/config"
	"github.com/evalia-hr/evalia/internal/course"
	"github.com/evalia-hr/evalia/internal/employee"
	"github.com/evalia-hr/evalia/internal/invitation"
	"github.com/evalia-hr/evalia/internal/migration"
	"github.com/evalia-hr/evalia/internal/providers/email"
	"github.com/evalia-hr/evalia/internal/ratelimit"
	"github.com/evalia-hr/evalia/internal/server"
	"github.com/evalia-hr/evalia/pkg/db"
	"github.com/evalia-hr/evalia/pkg/log"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		admin.Module,
		company.Module,
		employee.Module,
		auth.Module,
		course.Module,
		invitation.Module,
		email.Module,
		ratelimit.Module,

		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
