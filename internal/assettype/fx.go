package assettype

import (
	"github.com/smallbiznis/mspdesk/internal/assettype/repository"
	"github.com/smallbiznis/mspdesk/internal/assettype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assettype.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
