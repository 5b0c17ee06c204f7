package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/mspdesk/internal/clock"
	"github.com/smallbiznis/mspdesk/internal/config"
	"github.com/smallbiznis/mspdesk/internal/logger"
	"github.com/smallbiznis/mspdesk/internal/migration"
	"github.com/smallbiznis/mspdesk/internal/observability"
	"github.com/smallbiznis/mspdesk/internal/server"
	"github.com/smallbiznis/mspdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
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
