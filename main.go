// loandash is a dashboard and command-line client for the loan approval
// prediction service.
//
// Usage:
//
//	loandash serve --addr :3000
//	loandash predict --income 75000 --loan-amount 25000 --loan-int-rate 10 --age 35 --previous-defaults no --home-ownership rent
//	loandash batch loans.csv --all
//	loandash analyze loans.csv
//	loandash export loans.csv --out predictions.csv
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"loan-dashboard/api"
	"loan-dashboard/config"
	"loan-dashboard/locale"
	"loan-dashboard/utils"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "loandash",
		Usage:   "Loan approval dashboard for the prediction service",
		Version: version,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Base URL of the prediction service",
				EnvVars: []string{"API_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "locale",
				Usage:   "Display locale (en, th)",
				EnvVars: []string{"LOCALE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout for the prediction service (0 waits indefinitely)",
			},
		},

		Commands: []*cli.Command{
			serveCommand(),
			predictCommand(),
			batchCommand(),
			analyzeCommand(),
			exportCommand(),
			historyCommand(),
			snapshotCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command needs: configuration with flag overrides
// applied, a logger, the display locale and the service client.
type env struct {
	cfg    *config.Config
	logger *utils.Logger
	loc    locale.Config
	client *api.Client
}

func setup(c *cli.Context) *env {
	cfg := config.Load()
	if v := c.String("api-url"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := c.String("locale"); v != "" {
		cfg.Locale = v
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeout = c.Duration("timeout")
	}

	logger := utils.NewLoggerTo(os.Stdout, os.Stderr, utils.ParseLevel(c.String("log-level")))
	loc := locale.Lookup(cfg.Locale)

	opts := []api.Option{api.WithPageSize(cfg.PageSize)}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.RequestTimeout))
	}
	client := api.NewClient(cfg.APIBaseURL, logger, opts...)

	logger.Debug("Config: api %s | locale %s | page size %d | timeout %v",
		cfg.APIBaseURL, loc.Code, cfg.PageSize, cfg.RequestTimeout.Round(time.Second))
	return &env{cfg: cfg, logger: logger, loc: loc, client: client}
}
