package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/dmitrijs2005/babysteps/internal/server"
	"github.com/dmitrijs2005/babysteps/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
