package servicecatalog

import (
	"github.com/smallbiznis/mspdesk/internal/servicecatalog/repository"
	"github.com/smallbiznis/mspdesk/internal/servicecatalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicecatalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
