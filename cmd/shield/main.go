package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/commsshield/internal/buildinfo"
	"github.com/dmitrijs2005/commsshield/internal/cli"
	"github.com/dmitrijs2005/commsshield/internal/config"
	"github.com/dmitrijs2005/commsshield/internal/engine"
	"github.com/dmitrijs2005/commsshield/internal/logging"
	"github.com/google/uuid"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel).With("session", uuid.NewString())

	e, err := engine.New(ctx, cfg, logger, engine.Options{})
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(e, cfg, logger, os.Stdin, os.Stdout)
	app.Run(ctx)
}
