package assethistory

import (
	"github.com/smallbiznis/mspdesk/internal/assethistory/repository"
	"github.com/smallbiznis/mspdesk/internal/assethistory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("assethistory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
