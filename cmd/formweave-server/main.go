// Command formweave-server hosts the form engine over HTTP: upload CSV
// schemas, serve rendered forms from either backend, collect draft and
// submitted responses, and export them as CSV.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/formweave/formweave/pkg/orchestrator"
	"github.com/formweave/formweave/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "server config YAML path")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		sugar.Fatalf("load config: %v", err)
	}

	st := store.NewMemoryStore()
	gen := orchestrator.New(orchestrator.WithStylesheets(cfg.Stylesheets...))

	if err := preloadTemplates(context.Background(), st, cfg, sugar); err != nil {
		sugar.Fatalf("preload templates: %v", err)
	}

	srv := NewServer(st, gen, sugar)
	srv.RegisterRoutes()

	sugar.Infow("starting server", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		sugar.Fatalf("serve: %v", err)
	}
}

func preloadTemplates(ctx context.Context, st store.Store, cfg Config, sugar *zap.SugaredLogger) error {
	for _, seed := range cfg.Templates {
		data, err := os.ReadFile(seed.Schema)
		if err != nil {
			return err
		}
		tmpl, warnings, err := buildTemplate(string(data), seed.JobID, seed.Title)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			sugar.Warnw("schema warning", "job", seed.JobID, "row", w.Row, "message", w.Message)
		}
		saved, err := st.SaveTemplate(ctx, tmpl)
		if err != nil {
			return err
		}
		sugar.Infow("template loaded", "job", saved.JobID, "version", saved.Version, "fields", len(saved.Fields))
	}
	return nil
}
