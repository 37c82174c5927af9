package course

import "go.uber.org/fx"

var Module = fx.Module("course",
	fx.Provide(NewSeeder),
)
