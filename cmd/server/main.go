package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/tattler/internal/config"
	"github.com/iliyamo/tattler/internal/database"
	"github.com/iliyamo/tattler/internal/handler"
	"github.com/iliyamo/tattler/internal/logger"
	"github.com/iliyamo/tattler/internal/metrics"
	"github.com/iliyamo/tattler/internal/queue"
	"github.com/iliyamo/tattler/internal/repository"
	"github.com/iliyamo/tattler/internal/router"
	"github.com/iliyamo/tattler/internal/service"
	"github.com/iliyamo/tattler/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		ServiceName: "tattler",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			return err
		}
		log.Info(ctx, "migrations applied")
	}

	cacheCfg, err := config.LoadCacheConfig()
	if err != nil {
		return err
	}
	rlCfg, err := config.LoadRateLimitConfig()
	if err != nil {
		return err
	}
	redisCfg, err := config.LoadRedisConfig()
	if err != nil {
		return err
	}
	rdb := config.NewRedisClient(redisCfg)
	if rdb == nil {
		log.Warn(ctx, "redis unreachable; cache and rate limiting disabled")
	} else {
		defer func() { err = multierr.Append(err, rdb.Close()) }()
	}

	users := repository.NewUserRepo(db)
	restaurants := repository.NewRestaurantRepo(db)

	var events service.ReviewPublisher = queue.NopPublisher{}
	var dispatcher *queue.Dispatcher
	if cfg.ReviewEventsEnabled {
		pub := queue.NewPublisher(cfg.RabbitURL)
		defer func() { err = multierr.Append(err, pub.Close()) }()
		dispatcher = queue.NewDispatcher(pub, 0, log)
		events = dispatcher
	}

	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(users, tokens)
	userSvc := service.NewUserService(users, cfg.BcryptCost)
	restaurantSvc := service.NewRestaurantService(restaurants)
	reviewSvc := service.NewReviewService(
		repository.NewCommentRepo(db),
		repository.NewRatingRepo(db),
		repository.NewAuthorRepo(db),
		restaurants,
		events,
		log,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	router.Register(e, router.Deps{
		Log:            log,
		Metrics:        metrics.NewHTTPMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		DB:             db,
		Redis:          rdb,
		Cache:          cacheCfg,
		RateLimit:      rlCfg.Normalize(),
		Auth:           authSvc,
		Users:          handler.NewUserHandler(userSvc, authSvc),
		Restaurants:    handler.NewRestaurantHandler(restaurantSvc),
		Reviews:        handler.NewReviewHandler(reviewSvc),
	})

	var consumer *queue.ReviewConsumer
	if cfg.ReviewConsumerEnabled {
		activity, openErr := queue.OpenActivityLog(cfg.ReviewLogPath)
		if openErr != nil {
			return openErr
		}
		defer func() { err = multierr.Append(err, activity.Close()) }()
		consumer = queue.NewReviewConsumer(cfg.RabbitURL, activity, log)
	}

	g, gctx := errgroup.WithContext(ctx)

	addr := ":" + cfg.Port
	g.Go(func() error {
		log.Info(log.WithFields(gctx, map[string]any{"addr": addr, "env": cfg.Env}), "http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info(shutdownCtx, "shutting down http server")
		return e.Shutdown(shutdownCtx)
	})

	if dispatcher != nil {
		g.Go(func() error { return dispatcher.Run(gctx) })
	}
	if consumer != nil {
		g.Go(func() error { return consumer.Run(gctx) })
	}

	return g.Wait()
}
