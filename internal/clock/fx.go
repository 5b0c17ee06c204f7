package clock

import "go.uber.org/fx"

// Module wires the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystem),
)
