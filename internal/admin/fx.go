package admin

import (
	"github.com/evalia-hr/evalia/internal/admin/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("admin",
	fx.Provide(repository.New),
)
