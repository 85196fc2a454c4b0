package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/clubworks/sponsorpay/internal/config"
	"github.com/clubworks/sponsorpay/internal/migration"
	"github.com/clubworks/sponsorpay/internal/server"
	"github.com/clubworks/sponsorpay/pkg/db"
	"github.com/clubworks/sponsorpay/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
