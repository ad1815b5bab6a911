package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/content"
	"github.com/sells-group/sourcing-cli/internal/extraction"
	"github.com/sells-group/sourcing-cli/internal/ocr"
	"github.com/sells-group/sourcing-cli/internal/rates"
	"github.com/sells-group/sourcing-cli/internal/store"
	"github.com/sells-group/sourcing-cli/internal/synthesis"
	"github.com/sells-group/sourcing-cli/pkg/vision"
)

// env holds the wired subsystems a command needs.
type env struct {
	Store   store.Store
	Catalog *content.Catalog
	Engine  *synthesis.Engine
}

func (e *env) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("store close failed", zap.Error(err))
		}
	}
}

// openStore opens the configured backend.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// initEngine wires the full synthesis stack: store, OCR, vision, the
// content catalog, and the optional duty table.
func initEngine(ctx context.Context) (*env, error) {
	if err := cfg.Validate("synthesize"); err != nil {
		return nil, err
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Driver != "postgres" {
		// SQLite migrations are cheap and idempotent; apply on open.
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
	}

	catalog, err := content.Load()
	if err != nil {
		st.Close()
		return nil, err
	}

	ocrClient, err := ocr.NewExtractor(cfg.OCR)
	if err != nil {
		st.Close()
		return nil, err
	}

	visionClient := vision.NewClientWithRate(
		cfg.Anthropic.Key, cfg.Anthropic.Model,
		cfg.Anthropic.RatePerSecond, cfg.Anthropic.Burst,
	)

	runner := extraction.NewRunner(ocrClient, visionClient,
		time.Duration(cfg.Extraction.AttemptTimeoutSecs)*time.Second)

	var table *rates.Table
	if _, statErr := os.Stat(cfg.Rates.XLSXPath); statErr == nil {
		table, err = rates.LoadXLSX(cfg.Rates.XLSXPath)
		if err != nil {
			zap.L().Warn("duty table unavailable",
				zap.String("path", cfg.Rates.XLSXPath), zap.Error(err))
			table = nil
		}
	}

	return &env{
		Store:   st,
		Catalog: catalog,
		Engine:  synthesis.NewEngine(st, runner, catalog, table),
	}, nil
}
