package inventorylog

import (
	"github.com/openshelf/stockroom/internal/inventorylog/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("inventorylog",
	fx.Provide(repository.Provide),
)
