package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/pflag"

	"github.com/ougirez/popchart/internal/api"
	"github.com/ougirez/popchart/internal/config"
	"github.com/ougirez/popchart/internal/pkg/chart"
	"github.com/ougirez/popchart/internal/pkg/logger"
	"github.com/ougirez/popchart/internal/pkg/resas"
	"github.com/ougirez/popchart/internal/pkg/store"
	"github.com/ougirez/popchart/internal/service/providers"
	"github.com/ougirez/popchart/internal/service/region"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := pflag.StringP("config", "c", "", "path to the config file")
	pflag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogDev); err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache store.Store
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("pgxpool.New: %w", err)
		}
		defer pool.Close()

		if err := store.Migrate(ctx, pool); err != nil {
			return err
		}
		cache = store.NewStore(pool)
		logger.Infof(ctx, "composition cache enabled, ttl %s", cfg.CacheTTL)
	}

	client, err := resas.NewClient(cfg.API)
	if err != nil {
		return fmt.Errorf("resas.NewClient: %w", err)
	}

	providersService := providers.NewProvidersService(client, cache, cfg.CacheTTL)
	regionService := region.NewRegionService(providersService)

	initCtx, cancel := context.WithTimeout(ctx, cfg.InitTimeout)
	if err := regionService.Initialize(initCtx); err != nil {
		// keep serving: the dashboard shows the error and admin reload can retry
		logger.Errorf(ctx, "regionService.Initialize: %s", err.Error())
	}
	cancel()

	svc, err := api.NewAPIService(
		regionService,
		providersService,
		chart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		api.Options{CORSOrigins: cfg.CORSOrigins},
	)
	if err != nil {
		return fmt.Errorf("api.NewAPIService: %w", err)
	}

	go svc.Serve(cfg.ServerAddr)
	logger.Infof(ctx, "listening on %s", cfg.ServerAddr)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return svc.Shutdown(shutdownCtx)
}
