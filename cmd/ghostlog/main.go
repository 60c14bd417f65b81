// Command ghostlog serves the ghost-hunt log API and manages its data from the shell.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/ghost-log/app"
	"github.com/Black-And-White-Club/ghost-log/app/observability"
	"github.com/Black-And-White-Club/ghost-log/config"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ghostlog:", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "ghostlog",
		Usage: "record and browse ghost-hunting runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"GHOSTLOG_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			exportCommand(),
			importCommand(),
			clearCommand(),
			runsCommand(),
			reportsCommand(),
			migrateCommand(),
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withApp builds the application for one command and closes it afterwards.
func withApp(c *cli.Context, fn func(*app.App) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	obs, err := observability.New(cfg, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	application, err := app.NewApp(c.Context, cfg, obs)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			obs.Logger.Error("Failed to close application", "error", err)
		}
	}()
	return fn(application)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the HTTP API until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides http.addr"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(application *app.App) error {
				if addr := c.String("addr"); addr != "" {
					application.Config.HTTP.Addr = addr
				}
				return application.Start(c.Context)
			})
		},
	}
}
