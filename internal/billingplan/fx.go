package billingplan

import (
	"github.com/smallbiznis/mspdesk/internal/billingplan/repository"
	"github.com/smallbiznis/mspdesk/internal/billingplan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billingplan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
