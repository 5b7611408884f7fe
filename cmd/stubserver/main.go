package main

import (
	"context"
	"net/http"
	"os"

	"github.com/jabirmahmud0/techhive-client/internal/stubserver"
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "stubserver"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "stubserver",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store := stubserver.NewStore()
	if cfg.Stub.Seed {
		if err := stubserver.Seed(store, cfg.Password); err != nil {
			logg.Error(context.Background(), "failed to seed store", err)
			os.Exit(1)
		}
		ctx := logg.WithField(context.Background(), "admin_email", stubserver.SeedAdminEmail)
		logg.Info(ctx, "seeded demo catalog and admin account")
	}

	server, err := stubserver.NewServer(stubserver.ServerParams{
		Store:    store,
		Logger:   logg,
		JWT:      cfg.JWT,
		Password: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create server", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Stub.Port
	logg.Info(logg.WithField(context.Background(), "addr", addr), "stub backend listening")
	if err := http.ListenAndServe(addr, server); err != nil {
		logg.Error(context.Background(), "server stopped", err)
		os.Exit(1)
	}
}
