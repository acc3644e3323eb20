package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomasbaio/progettomarvel/marvelcards"
	"github.com/thomasbaio/progettomarvel/marvelcards/database"
	"github.com/thomasbaio/progettomarvel/marvelcards/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler()))

	slog.Info("Starting Marvel card trading service",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	resetSchema := flag.Bool("init-schema", true, "initialize database schema on startup")
	flag.Parse()

	cfg, err := marvelcards.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if *resetSchema {
		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize database schema", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	app := marvelcards.New(*cfg, version, commit)
	app.DB = db
	if err := app.Setup(); err != nil {
		slog.Error("Failed to set up services", slog.Any("error", err))
		os.Exit(-1)
	}

	logger.LogSystem("Marvel card trading service is ready")

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down...")
}
