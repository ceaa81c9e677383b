// cmd/credit-engine/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"credit-engine/internal/api"
	"credit-engine/internal/common/cache"
	"credit-engine/internal/common/config"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/observability"
	"credit-engine/internal/engine"
	"credit-engine/internal/predictor"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting credit engine...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Result cache (optional) ---
	var store engine.Store
	var isMiss engine.IsMissFunc
	var pinger api.Pinger

	redisClient, err := cache.New(cfg.Redis)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = redisClient.Ping(pingCtx)
		cancel()
	}
	if err != nil {
		// Scoring works without the cache; GET /score will always miss.
		log.Warn("result cache unavailable, running without write-through", map[string]interface{}{
			"address": cfg.Redis.Address,
			"error":   err.Error(),
		})
	} else {
		store = redisClient
		isMiss = cache.IsMiss
		pinger = redisClient
		defer redisClient.Close()
		log.Info("result cache connected", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
	}

	// --- Scoring predictor ---
	pred := loadPredictor(cfg.Model.Path, log)

	eng := engine.New(cfg, pred, store, isMiss, log)
	log.Info("scoring mode selected", map[string]interface{}{"mode": eng.Mode()})

	// --- Scheduled estimator reload ---
	var scheduler *cron.Cron
	if cfg.Model.ReloadCron != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Model.ReloadCron, func() {
			next := loadPredictor(cfg.Model.Path, log)
			eng.SwapPredictor(next)
			log.Info("predictor reloaded", map[string]interface{}{"mode": next.Mode()})
		})
		if err != nil {
			zapLog.Fatal("invalid model.reload_cron expression", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// --- HTTP server ---
	server := api.NewServer(cfg, eng, pinger, obs, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case err := <-errCh:
		zapLog.Fatal("http server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("credit engine stopped", nil)
}

// loadPredictor builds a trained predictor from the configured artifact, or a
// fallback predictor when the artifact is missing or broken. Never fatal: a
// bad artifact degrades scoring, it does not take the service down.
func loadPredictor(path string, log logger.Logger) *predictor.Predictor {
	model, err := predictor.LoadArtifact(path)
	if err != nil {
		log.Warn("estimator artifact unavailable, using fallback formula", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return predictor.NewFallback(log)
	}
	log.Info("estimator artifact loaded", map[string]interface{}{
		"path":    path,
		"version": model.Version(),
	})
	return predictor.NewTrained(model, log)
}
