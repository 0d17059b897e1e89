package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bigfuture-scraper/api"
	"bigfuture-scraper/browser"
	"bigfuture-scraper/config"
	"bigfuture-scraper/scraper/bigfuture"
	"bigfuture-scraper/services"
	"bigfuture-scraper/storage"
	"bigfuture-scraper/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scrape worker and the data API",
	Long: `Run the always-on service: a single scrape worker cycling through the
college list, plus the HTTP endpoint serving the accumulated dataset.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger := utils.NewLogger()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := logger.TeeToFile(cfg.LogPath()); err != nil {
		logger.Warn("Could not open log file %s: %v", cfg.LogPath(), err)
	}
	defer logger.Close()

	logger.Info("=== BigFuture Scraping Service starting ===")
	logger.Info("Config: data dir %s | scrape delay %s | restart cooldown %s | API port %d",
		cfg.DataDir, cfg.ScrapeDelay, cfg.RestartCooldown, cfg.APIPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataset, err := storage.NewDataset(cfg.DatasetPath(), logger)
	if err != nil {
		return err
	}
	if err := ensureSeeded(cfg, dataset, logger); err != nil {
		logger.Warn("Could not seed dataset from %s: %v", cfg.InputPath(), err)
	}

	colleges, err := storage.ReadColleges(cfg.InputPath())
	if err != nil {
		return fmt.Errorf("read college list: %w", err)
	}
	if len(colleges) == 0 {
		return fmt.Errorf("college list %s is empty", cfg.InputPath())
	}
	logger.Info("Loaded %d colleges from %s", len(colleges), cfg.InputPath())

	cache, err := storage.NewSlugCache(cfg.SlugCachePath(), cfg.CacheCapacity, logger)
	if err != nil {
		return err
	}
	checkpoint := storage.NewCheckpoint(cfg.CheckpointPath(), logger)
	misses := storage.NewMissLog(cfg.MissLogPath())

	var mirror storage.RowSink
	if cfg.MirrorEnabled {
		store, err := storage.NewMirrorStore(ctx, cfg.DSN(), logger)
		if err != nil {
			logger.Error("PostgreSQL mirror unavailable, continuing without it: %v", err)
		} else {
			defer store.Close()
			mirror = store
		}
	}

	apiServer := api.New(api.Config{Port: cfg.APIPort, KeyFile: cfg.EndpointKeyFile}, dataset, logger)
	apiErr := make(chan error, 1)
	go func() { apiErr <- apiServer.Run(ctx) }()

	superviseWorker(ctx, cfg, logger, bigfuture.WorkerDeps{
		Colleges:   colleges,
		Dataset:    dataset,
		Checkpoint: checkpoint,
		Cache:      cache,
		Misses:     misses,
		Mirror:     mirror,
	})

	if err := cache.Save(); err != nil {
		logger.Warn("Could not save slug cache: %v", err)
	}
	if err := <-apiErr; err != nil {
		logger.Error("API server: %v", err)
	}

	logger.Info("=== BigFuture Scraping Service stopped ===")
	return nil
}

// superviseWorker keeps one worker alive until shutdown. Whatever kills
// a run (browser crash, unrecoverable tab state), it waits out the
// cooldown and starts over with a fresh Chrome.
func superviseWorker(ctx context.Context, cfg *config.Config, logger *utils.Logger, deps bigfuture.WorkerDeps) {
	for {
		if ctx.Err() != nil {
			return
		}

		sess, err := browser.NewSession(ctx, cfg.ChromeBin, logger)
		if err != nil {
			logger.Error("Could not start browser: %v", err)
		} else {
			deps.Session = sess
			worker := bigfuture.NewWorker(cfg, logger, deps)
			if err := worker.Run(ctx); err != nil {
				logger.Error("Worker stopped: %v", err)
			}
			sess.Close()
		}

		if ctx.Err() != nil {
			return
		}
		logger.Info("Restarting worker in %s", cfg.RestartCooldown)
		select {
		case <-time.After(cfg.RestartCooldown):
		case <-ctx.Done():
			return
		}
	}
}

// ensureSeeded imports the source CSV into the dataset once, so the API
// has rows to serve before the first scrape lands.
func ensureSeeded(cfg *config.Config, dataset *storage.Dataset, logger *utils.Logger) error {
	if rows, err := dataset.ReadAll(); err == nil && len(rows) > 0 {
		return nil
	}
	rows, err := services.ImportSeed(cfg.InputPath())
	if err != nil {
		return err
	}
	if err := dataset.WriteAll(rows); err != nil {
		return err
	}
	logger.Info("Seeded dataset with %d rows from %s", len(rows), cfg.InputPath())
	return nil
}
