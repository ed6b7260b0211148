package components

import (
	"library-rental/internal/handler"
	"library-rental/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRentalHandler,
	),
	fx.Invoke(handler.NewRouter),
)
