package storage

import (
	"github.com/openshelf/stockroom/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.storage",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) (Provider, error) {
	return NewLocal(cfg.UploadDir, cfg.UploadBaseURL)
}
