package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"loan-dashboard/dashboard"
	"loan-dashboard/form"
	"loan-dashboard/models"
	"loan-dashboard/services"
	"loan-dashboard/snapshot"
	"loan-dashboard/storage"
	"loan-dashboard/upload"
	"loan-dashboard/utils"
	"loan-dashboard/web"
)

// =============================================================================
// SERVE
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address", EnvVars: []string{"LISTEN_ADDR"}},
			&cli.IntFlag{Name: "max-upload-mb", Usage: "Largest accepted CSV in MB", EnvVars: []string{"MAX_UPLOAD_MB"}},
			&cli.BoolFlag{Name: "history", Usage: "Store predictions in PostgreSQL", EnvVars: []string{"HISTORY_ENABLED"}},
			&cli.StringFlag{Name: "history-csv", Usage: "Also append predictions to this CSV file", EnvVars: []string{"HISTORY_CSV"}},
			&cli.BoolFlag{Name: "secure-cookie", Usage: "Mark the session cookie Secure (behind HTTPS)"},
		},
		Action: func(c *cli.Context) error {
			e := setup(c)
			if v := c.String("addr"); v != "" {
				e.cfg.ListenAddr = v
			}
			if c.IsSet("max-upload-mb") {
				e.cfg.MaxUploadMB = c.Int("max-upload-mb")
			}
			if c.IsSet("history") {
				e.cfg.HistoryEnabled = c.Bool("history")
			}
			if v := c.String("history-csv"); v != "" {
				e.cfg.HistoryCSVPath = v
			}

			e.logger.Info("=== Loan Approval Dashboard starting ===")
			e.logger.Info("Config — api: %s | locale: %s | page size: %d | max upload: %dMB",
				e.cfg.APIBaseURL, e.loc.Code, e.cfg.PageSize, e.cfg.MaxUploadMB)

			var sinks storage.MultiWriter
			if e.cfg.HistoryEnabled {
				pg, err := storage.NewPostgresWriter(e.cfg.DSN(), e.logger)
				if err != nil {
					return fmt.Errorf("connect to PostgreSQL: %w", err)
				}
				sinks = append(sinks, pg)
				e.logger.Info("Prediction history enabled (table: predictions)")
			}
			if e.cfg.HistoryCSVPath != "" {
				cw, err := storage.OpenCSVWriter(e.cfg.HistoryCSVPath)
				if err != nil {
					_ = sinks.Close()
					return fmt.Errorf("open history CSV: %w", err)
				}
				sinks = append(sinks, cw)
				e.logger.Info("Prediction history appended to %s", e.cfg.HistoryCSVPath)
			}
			var history storage.PredictionWriter
			if len(sinks) > 0 {
				defer sinks.Close()
				history = sinks
			}

			sessions := dashboard.NewSessions(e.cfg.SessionTTL, func(id string) *dashboard.Orchestrator {
				return dashboard.NewOrchestrator(id, e.client, history, e.logger)
			})
			srv, err := web.NewServer(sessions, web.Options{
				Locale:       e.loc,
				MaxUploadMB:  e.cfg.MaxUploadMB,
				SessionTTL:   e.cfg.SessionTTL,
				SecureCookie: c.Bool("secure-cookie"),
				Version:      version,
			}, e.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, e.cfg.ListenAddr)
		},
	}
}

// =============================================================================
// PREDICT
// =============================================================================

// flagValues adapts CLI flags to form.Values; flag names use dashes.
type flagValues struct{ c *cli.Context }

func (f flagValues) Get(field string) string {
	return f.c.String(dashed(field))
}

func dashed(field string) string {
	out := []byte(field)
	for i, b := range out {
		if b == '_' {
			out[i] = '-'
		}
	}
	return string(out)
}

func predictCommand() *cli.Command {
	flags := make([]cli.Flag, 0, len(form.Fields)+1)
	for _, f := range form.Fields {
		flags = append(flags, &cli.StringFlag{Name: dashed(f), Required: true})
	}
	flags = append(flags, &cli.BoolFlag{Name: "json", Usage: "Print the raw service response"})

	return &cli.Command{
		Name:  "predict",
		Usage: "Score a single loan application",
		Flags: flags,
		Action: func(c *cli.Context) error {
			e := setup(c)
			var resp *models.PredictionResponse

			f := form.New(func(ctx context.Context, app models.LoanApplication) error {
				var err error
				resp, err = e.client.PredictSingle(ctx, app)
				return err
			}, e.logger)

			errs, err := f.Submit(c.Context, flagValues{c})
			if errs != nil {
				for _, field := range form.Fields {
					if msg, ok := errs[field]; ok {
						fmt.Fprintf(os.Stderr, "  --%s: %s\n", dashed(field), msg)
					}
				}
				return errs
			}
			if err != nil {
				return err
			}

			if c.Bool("json") {
				return printJSON(resp)
			}
			return newInsights(e).PrintPredictions(os.Stdout, resp)
		},
	}
}

// =============================================================================
// BATCH / EXPORT
// =============================================================================

// readUpload loads path through the upload gate. The size is checked before
// the file is read.
func readUpload(ctx context.Context, e *env, path string, onFile upload.FileFunc) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	gate := upload.NewGate(e.cfg.MaxUploadMB, onFile, e.logger)
	file := models.Upload{Name: filepath.Base(path), Size: info.Size(), SelectedAt: time.Now()}
	if err := gate.Check(file); err != nil {
		return err
	}

	file.Data, err = os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return gate.Select(ctx, upload.SourcePicker, file)
}

// pageSink receives each fetched page; calls may be concurrent.
type pageSink func(file string, resp *models.PredictionResponse) error

// fetchPages requests page first for each file and, when all is set, the
// remaining pages on the worker pool.
func fetchPages(c *cli.Context, e *env, paths []string, first, pageSize int, all bool, sink pageSink) error {
	pool := utils.NewWorkerPool(e.cfg.MaxConcurrency, e.cfg.RateLimitMs)

	for _, path := range paths {
		path := path
		err := readUpload(c.Context, e, path, func(ctx context.Context, file models.Upload) error {
			resp, err := e.client.PredictBatch(ctx, file, first, pageSize)
			if err != nil {
				return fmt.Errorf("%s page %d: %w", file.Name, first, err)
			}
			if err := sink(file.Name, resp); err != nil {
				return err
			}
			if !all {
				return nil
			}

			e.logger.Info("%s: %d applications across %d pages", file.Name,
				resp.Pagination.TotalItems, resp.Pagination.TotalPages)
			for page := 1; page <= resp.Pagination.TotalPages; page++ {
				if page == first {
					continue
				}
				page := page
				pool.Submit(func() error {
					r, err := e.client.PredictBatch(ctx, file, page, pageSize)
					if err != nil {
						return fmt.Errorf("%s page %d: %w", file.Name, page, err)
					}
					return sink(file.Name, r)
				})
			}
			return nil
		})
		if err != nil {
			var reject *upload.RejectError
			if errors.As(err, &reject) {
				e.logger.Warn("Skipping %s: %s", path, reject.Message)
				continue
			}
			e.logger.Error("%v", err)
			pool.Submit(func() error { return err })
		}
	}
	return pool.Wait()
}

func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "page", Value: 1, Usage: "First page to fetch"},
		&cli.IntFlag{Name: "page-size", Usage: "Rows per page (default PAGE_SIZE)"},
		&cli.BoolFlag{Name: "all", Usage: "Fetch every page"},
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Score one or more CSV files",
		ArgsUsage: "FILE.csv [FILE.csv...]",
		Flags: append(batchFlags(),
			&cli.BoolFlag{Name: "json", Usage: "Print raw service responses"},
			&cli.StringSliceFlag{Name: "sort", Usage: "Sort each page by column; repeat a column to sort descending"},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one CSV file is required", 2)
			}
			e := setup(c)
			insights := newInsights(e)
			pageSize := pageSizeFlag(c, e)

			var mu sync.Mutex
			return fetchPages(c, e, c.Args().Slice(), c.Int("page"), pageSize, c.Bool("all"),
				func(name string, resp *models.PredictionResponse) error {
					mu.Lock()
					defer mu.Unlock()
					if c.Bool("json") {
						return printJSON(resp)
					}
					fmt.Printf("\n%s\n", name)
					return insights.PrintPredictions(os.Stdout, resp, c.StringSlice("sort")...)
				})
		},
	}
}

func exportCommand() *cli.Command {
	flags := append(batchFlags(), &cli.StringFlag{
		Name: "out", Aliases: []string{"o"}, Value: "output/predictions.csv", Usage: "CSV file to write",
	})
	return &cli.Command{
		Name:      "export",
		Usage:     "Score CSV files and write the predictions to a CSV file",
		ArgsUsage: "FILE.csv [FILE.csv...]",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one CSV file is required", 2)
			}
			e := setup(c)

			out := c.String("out")
			w, err := storage.NewCSVWriter(out)
			if err != nil {
				return err
			}

			var rows int
			var mu sync.Mutex
			err = fetchPages(c, e, c.Args().Slice(), c.Int("page"), pageSizeFlag(c, e), c.Bool("all"),
				func(_ string, resp *models.PredictionResponse) error {
					mu.Lock()
					rows += len(resp.Results)
					mu.Unlock()
					return w.WritePredictions(resp.Results)
				})
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			e.logger.Info("Wrote %d predictions to %s", rows, out)
			return nil
		},
	}
}

func pageSizeFlag(c *cli.Context, e *env) int {
	if n := c.Int("page-size"); n > 0 {
		return n
	}
	return e.client.PageSize()
}

// =============================================================================
// ANALYZE
// =============================================================================

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Print approval analytics for a CSV file",
		ArgsUsage: "FILE.csv",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the raw service response"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("exactly one CSV file is required", 2)
			}
			e := setup(c)

			return readUpload(c.Context, e, c.Args().First(), func(ctx context.Context, file models.Upload) error {
				res, err := e.client.AnalyzeCSV(ctx, file)
				if err != nil {
					return err
				}
				if c.Bool("json") {
					return printJSON(res)
				}
				newInsights(e).Print(os.Stdout, *res)
				return nil
			})
		},
	}
}

// =============================================================================
// HISTORY
// =============================================================================

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List predictions stored by the dashboard",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Number of records"},
			&cli.BoolFlag{Name: "clear", Usage: "Delete all stored predictions"},
		},
		Action: func(c *cli.Context) error {
			e := setup(c)
			pg, err := storage.NewPostgresWriter(e.cfg.DSN(), e.logger)
			if err != nil {
				e.logger.Error("Make sure PostgreSQL is running: docker compose up -d")
				return fmt.Errorf("connect to PostgreSQL: %w", err)
			}
			defer pg.Close()

			if c.Bool("clear") {
				if err := pg.Clear(); err != nil {
					return err
				}
				e.logger.Info("Prediction history cleared")
				return nil
			}

			var reader storage.PredictionReader = pg
			records, err := reader.FetchRecent(c.Int("limit"))
			if err != nil {
				return err
			}
			return newInsights(e).PrintHistory(os.Stdout, records)
		},
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Save PNG screenshots of a running dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:3000", Usage: "Dashboard base URL"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "snapshots", Usage: "Output directory"},
			&cli.StringSliceFlag{Name: "tab", Usage: "Tab to capture (repeatable; default all)"},
		},
		Action: func(c *cli.Context) error {
			e := setup(c)
			paths, err := snapshot.New(e.cfg, e.logger).Capture(c.Context, c.String("url"), c.String("out"), c.StringSlice("tab"))
			for _, p := range paths {
				if p != "" {
					fmt.Println(p)
				}
			}
			return err
		},
	}
}

func newInsights(e *env) *services.InsightService {
	return services.NewInsightService(e.logger, e.loc, isTerminal(os.Stdout))
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
