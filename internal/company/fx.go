package company

import (
	"github.com/evalia-hr/evalia/internal/company/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("company",
	fx.Provide(repository.New),
)
