// @title ReadTogether API
// @description Group daily reading tracker: calendars, streaks and check-ins
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/limbo/readtogether/internal/api"
	"github.com/limbo/readtogether/internal/breaker"
	"github.com/limbo/readtogether/internal/cache"
	"github.com/limbo/readtogether/internal/notify"
	"github.com/limbo/readtogether/internal/repository"
	"github.com/limbo/readtogether/internal/service"
	"github.com/limbo/readtogether/internal/streak"
	"github.com/limbo/readtogether/pkg/cleanup"
	"github.com/limbo/readtogether/pkg/config"
	jwtservice "github.com/limbo/readtogether/pkg/jwt_service"
	"github.com/limbo/readtogether/pkg/logger"
	"github.com/limbo/readtogether/pkg/telemetry"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	log := logger.New(cfg.LoggerLevel, cfg.LoggerFormat)
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		log.Fatal("telemetry init error", zap.Error(err))
	}
	cleanup.Register(&cleanup.Job{Name: "flushing metrics", F: shutdownTelemetry})

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("timezone error", zap.Error(err))
	}

	dbCfg := repository.PGCfg{
		Address:  cfg.PostgresAddress,
		Username: cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DB:       cfg.PostgresDB,
	}
	pool, err := repository.NewPool(ctx, &dbCfg)
	if err != nil {
		log.Fatal("database connection error", zap.Error(err))
	}

	resultCache := cache.New(
		cache.WithMetrics(cache.DefaultMetrics()),
		cache.WithLogger(log.Named("cache")),
	)
	go resultCache.RunSweeper(ctx, cfg.CacheSweepInterval)

	opts := []service.Option{
		service.WithCalculator(streak.New(cfg.StreakLookbackDays)),
		service.WithLocation(loc),
		service.WithHistoryLimit(cfg.HistoryLimit),
		service.WithFetchTimeout(cfg.StoreFetchTimeout),
		service.WithTTLs(cfg.StatsCacheTTL, cfg.EntriesCacheTTL),
		service.WithLogger(log.Named("calendar")),
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cleanup.Register(&cleanup.Job{
			Name: "closing redis client",
			F:    func(context.Context) error { return rdb.Close() },
		})
		cb := breaker.New(breaker.Config{
			Name:             "completion_publisher",
			MaxFailures:      cfg.BreakerMaxFailures,
			Cooldown:         cfg.BreakerCooldown,
			HalfOpenMaxCalls: cfg.BreakerHalfOpenCalls,
		}, log.Named("breaker"))
		opts = append(opts, service.WithPublisher(notify.NewPublisher(rdb, cb, log.Named("notify"))))
	} else {
		log.Info("REDIS_ADDR is empty, completion events are not published")
	}

	calendarService := service.NewCalendarService(
		repository.NewCompletionsRepo(pool),
		repository.NewMembersRepo(pool),
		resultCache,
		opts...,
	)
	serv := api.New(&api.ServicesList{
		CalendarService: calendarService,
		JwtService:      jwtservice.New(cfg.JWTSecret),
		Logger:          log,
	})
	if err = serv.Run(ctx, cfg.APIAddress); err != nil {
		log.Error("server error", zap.Error(err))
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cleanup.CleanUp(cleanupCtx, log)
	_ = log.Sync()
}
