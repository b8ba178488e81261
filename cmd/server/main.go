package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/tuannm99/novaquery/internal"
	"github.com/tuannm99/novaquery/server/querywire"
)

func main() {
	app := &cli.App{
		Name:  "novaquery-server",
		Usage: "serve the novaquery statement executor over TCP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address (overrides server.addr)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "novaquery-server: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := internal.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if c.Bool("debug") {
		cfg.Server.Debug = true
	}

	internal.SetupLogging(os.Stderr, cfg.Server.Debug)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return querywire.Run(ctx, querywire.ServerConfig{
		Addr:           cfg.Server.Addr,
		StatementCache: cfg.Executor.StatementCache,
	})
}
