package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/tichopad/consumptions/internal/api"
	"github.com/tichopad/consumptions/internal/billing"
	"github.com/tichopad/consumptions/internal/config"
	"github.com/tichopad/consumptions/internal/storage"
)

type serveOptions struct {
	port   string
	driver string
	dsn    string
}

// resolve applies command line flags on top of the environment.
func (o serveOptions) resolve() config.Config {
	cfg := config.FromEnv()
	if o.port != "" {
		cfg.Port = o.port
	}
	if o.driver != "" {
		cfg.DBDriver = o.driver
		if o.dsn == "" && o.driver == "sqlite" {
			cfg.DBDSN = "consumptions.db"
		}
	}
	if o.dsn != "" {
		cfg.DBDSN = o.dsn
	}
	return cfg
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg := opts.resolve()

	st, err := storage.Open(ctx, storage.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.Close()

	mux := api.NewMux(st)

	addr := ":" + cfg.Port
	log.Printf("consumptions listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func runMigrate(ctx context.Context, opts serveOptions) error {
	cfg := opts.resolve()
	if cfg.DBDriver == "memory" {
		return fmt.Errorf("migrate needs a database driver, got %q", cfg.DBDriver)
	}
	st, err := storage.Open(ctx, storage.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return err
	}
	defer st.Close()
	log.Printf("schema is up to date (driver=%s)", cfg.DBDriver)
	return nil
}

func runCalculate(w io.Writer, path, format string) error {
	in, err := loadInput(path)
	if err != nil {
		return err
	}
	out, err := billing.CalculateBills(in)
	if err != nil {
		return fmt.Errorf("calculate %s: %w", in.EnergyType, err)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "table", "":
		printBills(w, in, out)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
