package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ogurasousui/acid-suite/internal/adapters/repository/cache"
	"github.com/ogurasousui/acid-suite/internal/adapters/repository/postgres"
	"github.com/ogurasousui/acid-suite/internal/core/buildinfo"
	"github.com/ogurasousui/acid-suite/internal/core/counter"
	"github.com/ogurasousui/acid-suite/internal/core/health"
	"github.com/ogurasousui/acid-suite/internal/core/hello"
	"github.com/ogurasousui/acid-suite/internal/platform/config"
	pg "github.com/ogurasousui/acid-suite/internal/platform/db/postgres"
	"github.com/ogurasousui/acid-suite/internal/platform/logging"
	"github.com/ogurasousui/acid-suite/internal/platform/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	info, err := buildinfo.FromEnv(time.Now())
	if err != nil {
		return err
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	greeterSvc := hello.NewService()

	txManager := pg.NewTransactionManager(dbPool, logger)
	counterRepo := cache.NewCounterRepository(postgres.NewCounterRepository(dbPool), cfg.Cache.TTL, cache.WithAfterTx(txManager.AfterTx))
	defer counterRepo.Close()
	counterSvc := counter.NewService(counterRepo, nil, txManager)

	apiChecker := health.CheckerFunc{ComponentName: "api", Fn: func(ctx context.Context) error {
		msg, err := greeterSvc.SayHello(ctx)
		if err != nil {
			return err
		}
		if msg != hello.DefaultMessage {
			return errUnexpectedGreeting
		}
		return nil
	}}
	healthSvc := health.NewService(cfg.Health.CheckTimeout, nil, apiChecker, pg.NewPingChecker(dbPool), counterRepo)

	grpcServer := server.New(cfg.Server.ListenAddr, server.Deps{
		Greeter:   greeterSvc,
		Counters:  counterSvc,
		BuildInfo: info,
		Status:    healthSvc,
		Logger:    logger,
	})
	publisher := grpcServer.HealthPublisher()

	logger.Info("acid.starting",
		zap.String("title", info.Title()),
		zap.String("build_number", info.BuildNumber),
		zap.String("environment", info.Environment),
		zap.String("listen_addr", cfg.Server.ListenAddr),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return grpcServer.Run(gctx)
	})
	g.Go(func() error {
		return healthSvc.Watch(gctx, cfg.Health.CheckInterval, func(r health.Report) {
			publisher.Publish(r)
			if r.Overall != health.StateHealthy {
				logger.Warn("health.degraded", zap.String("overall", string(r.Overall)), zap.Any("components", r.Components))
			}
		})
	})

	return g.Wait()
}
