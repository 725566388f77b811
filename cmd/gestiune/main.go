package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gufolabs/gestiune/internal/config"
	"github.com/gufolabs/gestiune/internal/logger"
	"github.com/gufolabs/gestiune/internal/migration"
	"github.com/gufolabs/gestiune/internal/server"
	"github.com/gufolabs/gestiune/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,

		// HTTP surface and functional domains
		server.Module,
	)
	app.Run()
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
