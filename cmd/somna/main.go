package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/api"
	"github.com/solenne/somna/internal/client"
	"github.com/solenne/somna/internal/config"
	"github.com/solenne/somna/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config init failed: %v", err)
	}

	appLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format, "somna")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer appLogger.Sync()

	sleepAPI := client.New(cfg.SleepAPIBaseURL, cfg.SleepAPITimeout, appLogger)

	handler, err := api.NewHandler(sleepAPI, cfg, appLogger, filepath.Join("web", "templates"))
	if err != nil {
		appLogger.Fatal("handler init failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               "Somna",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if cfg.Debug {
		app.Use(fiberlogger.New())
	}
	app.Use(compress.New())

	app.Static("/static", filepath.Join("web", "static"))
	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	appLogger.Info("somna listening",
		zap.String("port", cfg.Port),
		zap.String("sleep_api", cfg.SleepAPIBaseURL))
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Fatal("server exited", zap.Error(err))
	}
}
