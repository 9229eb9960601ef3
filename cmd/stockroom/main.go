package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/openshelf/stockroom/internal/clock"
	"github.com/openshelf/stockroom/internal/config"
	"github.com/openshelf/stockroom/internal/logger"
	"github.com/openshelf/stockroom/internal/migration"
	"github.com/openshelf/stockroom/internal/server"
	"github.com/openshelf/stockroom/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
