package employee

import (
	"github.com/evalia-hr/evalia/internal/employee/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("employee",
	fx.Provide(repository.New),
)
