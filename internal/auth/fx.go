package auth

import (
	"github.com/evalia-hr/evalia/internal/auth/service"
	"github.com/evalia-hr/evalia/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(token.NewIssuer),
	fx.Provide(service.New),
)
