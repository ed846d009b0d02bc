package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/gophtasks/internal/client/cli"
	"github.com/dmitrijs2005/gophtasks/internal/client/client"
	"github.com/dmitrijs2005/gophtasks/internal/client/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, args, err := config.LoadConfig(os.Args[1:], env.ToMap(os.Environ()))
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			cli.NewApp(nil, os.Stdin, os.Stdout).Usage()
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr, cfg.AccessToken)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer c.Close()

	app := cli.NewApp(c, os.Stdin, os.Stdout)
	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
