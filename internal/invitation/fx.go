package invitation

import (
	"go.uber.org/fx"

	"github.com/evalia-hr/evalia/internal/invitation/repository"
	"github.com/evalia-hr/evalia/internal/invitation/service"
)

var Module = fx.Module("invitation",
	fx.Provide(
		repository.New,
		service.New,
	),
)
