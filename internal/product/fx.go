package product

import (
	"github.com/openshelf/stockroom/internal/product/repository"
	"github.com/openshelf/stockroom/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
