package main

import (
	"context"
	"os"

	"github.com/jabirmahmud0/techhive-client/internal/app"
	"github.com/jabirmahmud0/techhive-client/internal/catalog"
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// Smoke CLI: wires the full client against the configured backend,
// lists the catalog, and reports session state. Useful for checking a
// backend (stub or real) end to end without a UI.
func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	application, err := app.New(cfg, logg, app.Options{Registry: prometheus.NewRegistry()})
	if err != nil {
		logg.Error(context.Background(), "failed to wire client", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if current := application.Session.Current(); current != nil {
		logg.Info(logg.WithUserID(ctx, current.ID), "restored session from local storage")
	} else {
		logg.Info(ctx, "no stored session, browsing anonymously")
	}

	products, err := application.Catalog.List(ctx, catalog.ListOptions{})
	if err != nil {
		logg.Error(ctx, "failed to list catalog", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "count", len(products)), "catalog reachable")

	for _, notice := range application.Notices.Drain() {
		logg.Info(logg.WithField(ctx, "level", string(notice.Level)), notice.Message)
	}
}
