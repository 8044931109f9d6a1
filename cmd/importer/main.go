// Command importer bulk-loads points of interest from a GeoJSON
// FeatureCollection into the database.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/hanamagouda9611/map-poi-app/internal/adapters/postgres"
	"github.com/hanamagouda9611/map-poi-app/internal/core/usecases"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/config"
	"github.com/hanamagouda9611/map-poi-app/internal/pkg/logging"
)

type Options struct {
	Input  string `short:"i" long:"in" description:"GeoJSON file path. Reads from stdin if empty"`
	DryRun bool   `short:"n" long:"dry-run" description:"Validate features without writing to the database"`
}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup completes first.
func run() int {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	cfg, err := config.Load("poimap-importer")
	if err != nil {
		slog.Error("load config", "error", err)
		return 1
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			slog.Error("open input", "path", opts.Input, "error", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	ctx := context.Background()

	var svc poiCreator
	if !opts.DryRun {
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			slog.Error("database", "error", err)
			return 1
		}
		defer db.Close()
		svc = usecases.NewPOIService(postgres.NewPOIRepo(db))
	}

	rep, err := importFeatures(ctx, svc, in, opts.DryRun)
	if err != nil {
		slog.Error("import failed", "created", rep.Created, "skipped", rep.Skipped, "error", err)
		return 1
	}
	slog.Info("import finished", "created", rep.Created, "skipped", rep.Skipped, "dry_run", opts.DryRun)
	return 0
}
