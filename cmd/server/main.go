package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
