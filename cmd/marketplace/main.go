// Package main runs the marketplace core HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gigboard/marketplace-core/internal/api"
	"github.com/gigboard/marketplace-core/internal/core/ports"
	"github.com/gigboard/marketplace-core/internal/core/service"
	"github.com/gigboard/marketplace-core/internal/infrastructure/config"
	mongodb "github.com/gigboard/marketplace-core/internal/infrastructure/db/mongo"
	redisdb "github.com/gigboard/marketplace-core/internal/infrastructure/db/redis"
	ops "github.com/gigboard/marketplace-core/internal/infrastructure/http"
	"github.com/gigboard/marketplace-core/internal/infrastructure/idgen"
	"github.com/gigboard/marketplace-core/internal/infrastructure/queue"
	"github.com/gigboard/marketplace-core/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "marketplace-core",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("marketplace terminated")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if err := mongodb.EnsureSequences(ctx, db); err != nil {
		return fmt.Errorf("ensure sequences: %w", err)
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	ids, err := idgen.NewSnowflake(cfg.Ledger.SnowflakeNode)
	if err != nil {
		return err
	}

	users := mongodb.NewUserRepository(db)
	marketplace := mongodb.NewMarketplaceRepository(db)

	projector := service.NewDirectoryProjector(mongodb.NewDirectoryRepository(db), users, logger.Component(log, "directory"))

	// Mirror workers stop only after the HTTP server has shut down.
	mirrorCtx, stopMirror := context.WithCancel(context.WithoutCancel(ctx))
	defer stopMirror()

	var mirror ports.LedgerMirror = projector
	if cfg.Mirror.Async {
		dispatcher := queue.NewMirrorDispatcher(cfg.Mirror.Workers, projector, logger.Component(log, "mirror"))
		dispatcher.Start(mirrorCtx)
		mirror = dispatcher
	}

	ledger := service.NewLedgerService(users, mirror, ids, cfg.Ledger.StarterGrant, logger.Component(log, "ledger"))

	onboarding := service.NewOnboardingService(
		mongodb.NewOnboardingRepository(client, db),
		users,
		service.NewSequenceAllocator(logger.Component(log, "sequence")),
		projector,
		ids,
		service.OnboardingOptions{
			StarterGrant: cfg.Ledger.StarterGrant,
			MaxAttempts:  cfg.Onboarding.MaxAttempts,
		},
		logger.Component(log, "onboarding"),
	)

	settlement := service.NewSettlementService(
		users, marketplace, marketplace, marketplace,
		ledger,
		redisdb.NewSubmissionGuard(rdb),
		service.SettlementOptions{
			ProposalCost: cfg.Ledger.ProposalCost,
			HireBonus:    cfg.Ledger.HireBonus,
			GuardTTL:     cfg.Ledger.SubmissionGuardTTL,
		},
		logger.Component(log, "settlement"),
	)

	auth := service.NewAuthService(mongodb.NewAuthRepository(client, db), cfg.JWTSecret, cfg.TokenTTL, cfg.AdminEmails)

	e := api.NewRouter(api.Services{
		Auth:       auth,
		Onboarding: onboarding,
		Ledger:     ledger,
		Directory:  projector,
		Settlement: settlement,
	}, cfg.JWTSecret, log)
	ops.RegisterOps(e, db, rdb)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("starting marketplace server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
