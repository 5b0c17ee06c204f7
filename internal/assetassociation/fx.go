package assetassociation

import (
	"github.com/smallbiznis/mspdesk/internal/assetassociation/repository"
	"github.com/smallbiznis/mspdesk/internal/assetassociation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assetassociation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
