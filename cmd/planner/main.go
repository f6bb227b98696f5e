package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"room-planner/internal/common/config"
	"room-planner/internal/common/logging"
	"room-planner/internal/common/middleware"
	"room-planner/internal/planner/assets"
	"room-planner/internal/planner/editor"
	"room-planner/internal/planner/handlers"
	"room-planner/internal/planner/store"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/hashicorp/go-hclog"
)

// ============================================================
// Room Planner Service
// ============================================================

func main() {
	cfg := config.Load()
	logger := logging.New("planner", cfg.LogLevel, cfg.JSONLogs())

	if err := run(cfg, logger); err != nil {
		logger.Error("planner stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger hclog.Logger) error {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return err
	}

	// ============================================================
	// Storage
	// ============================================================

	db, dialect, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := store.New(db, dialect, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = repo.Init(ctx)
	cancel()
	if err != nil {
		return err
	}

	files := store.NewFileStorage(cfg.StorageRoot)

	// ============================================================
	// Models
	// ============================================================

	var source assets.Provider = assets.NewFileProvider(files.ModelPath)
	if cfg.AssetsURL != "" {
		remote, err := assets.NewHTTPProvider(cfg.AssetsURL, &http.Client{Timeout: 30 * time.Second}, cfg.AssetsMaxBytes())
		if err != nil {
			return err
		}
		source = remote
	}
	models := assets.NewCachedProvider(source, logger)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    32 * 1024 * 1024,
		AppName:      "Room Planner",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins...))

	// ============================================================
	// API Routes
	// ============================================================

	h := handlers.New(repo, files, editor.NewRegistry(logger), models, editor.OptionsFromSettings(settings), logger)
	h.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting room planner", "addr", addr, "env", cfg.Environment, "db", dialect.Driver, "assets", cfg.AssetsURL)

	return app.Listen(addr)
}
