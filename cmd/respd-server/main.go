package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/yndnr/respd/internal/infra/buildinfo"
	"github.com/yndnr/respd/internal/infra/confloader"
	"github.com/yndnr/respd/internal/infra/shutdown"
	"github.com/yndnr/respd/internal/server/config"
	"github.com/yndnr/respd/internal/server/redisserver"
	"github.com/yndnr/respd/internal/storage/memory"
	"github.com/yndnr/respd/internal/telemetry/logger"
	"github.com/yndnr/respd/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse command line flags
	var (
		configFile  = flag.String("config", "", "Path to configuration file (.yaml, .yml or .toml)")
		envFile     = flag.String("env-file", "", "Path to a .env file of RESPD_* variables")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("respd-server %s\n", buildinfo.String())
		return nil
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(*configFile),
		confloader.WithEnvFile(*envFile),
	)
	cfg, err := loadConfig(loader)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := logger.Slog(log)

	log.Info("starting respd-server",
		"build", buildinfo.Get(),
		"config", loader.ConfigFile())

	store := memory.New(memory.WithShards(cfg.Storage.Shards))

	metrics := metric.Global()
	if err := metrics.Register(metric.NewKeyspaceCollector(store)); err != nil {
		return fmt.Errorf("register keyspace collector: %w", err)
	}

	srvCfg := &redisserver.Config{
		Addr:         cfg.Server.Redis.Addr,
		ReadTimeout:  cfg.Server.Redis.ReadTimeout,
		WriteTimeout: cfg.Server.Redis.WriteTimeout,
		IdleTimeout:  cfg.Server.Redis.IdleTimeout,
		MaxConns:     cfg.Server.Redis.MaxConns,
		RateLimit:    cfg.Server.Redis.RateLimit,
		RateBurst:    cfg.Server.Redis.RateBurst,
		Limits:       cfg.Server.Redis.Limits(),
	}
	srv := redisserver.New(srvCfg, store, slogLogger, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	// Register shutdown hooks; they run in reverse order of registration.
	shutdownHandler.OnShutdown(func(context.Context) error {
		return logger.Close(log)
	})

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	log.Info("redis server listening", "addr", srv.Addr().String())
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down redis server")
		return srv.Shutdown(ctx)
	})

	if cfg.Server.Metrics.Enabled {
		metricsServer := startMetrics(cfg.Server.Metrics, metrics, log)
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down metrics server")
			return metricsServer.Shutdown(ctx)
		})
	}

	if loader.ConfigFile() != "" {
		watcher, err := watchConfig(loader, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	// Wait for shutdown signal
	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, the config file and the environment, then
// validates the result.
func loadConfig(loader *confloader.Loader) (*config.ServerConfig, error) {
	cfg := config.Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger builds the structured logger and makes it the default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
		File: logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   true,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

func startMetrics(cfg config.MetricsConfig, metrics *metric.Registry, log logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, metrics.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("metrics server listening", "addr", cfg.Addr, "path", cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	return srv
}

// watchConfig reloads the config file on change. Only the log level is
// applied live; other settings need a restart.
func watchConfig(loader *confloader.Loader, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(loader.ConfigFile()); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		next := config.Default()
		if err := loader.Reload(next); err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if err := config.Verify(next); err != nil {
			log.Warn("reloaded config rejected", "path", path, "error", err)
			return
		}
		if next.Log.Level != logger.GetLevel() {
			logger.SetLevel(next.Log.Level)
			log.Info("log level changed", "level", next.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}
