package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"

	"github.com/iota-uz/civreg/modules/registry"
	"github.com/iota-uz/civreg/modules/registry/infrastructure/persistence"
	"github.com/iota-uz/civreg/pkg/configuration"
	"github.com/iota-uz/civreg/pkg/eventbus"
	"github.com/iota-uz/civreg/pkg/metrics"
	"github.com/iota-uz/civreg/pkg/middleware"
	"github.com/iota-uz/civreg/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	defer conf.Unload()
	logger := conf.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolCfg, err := pgxpool.ParseConfig(conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	poolCfg.MaxConns = conf.Database.MaxConns
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	cancel()
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	reports, closeReports := registry.NewReportRepository(ctx, conf.Reports, logger)
	defer closeReports()

	mod := registry.NewModule(
		persistence.NewRegistryRepository(),
		reports,
		eventbus.NewEventPublisher(logger),
		logger,
		conf,
	)

	controllers := mod.Controllers(conf)
	if conf.Prometheus.Enabled {
		controllers = append(controllers, metrics.NewPrometheusController(conf.Prometheus.Path))
	}
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(logger, conf),
		middleware.Cors(strings.Split(conf.CorsAllowedOrigins, ",")...),
		middleware.OpsGuard(conf, conf.Prometheus.Path),
	}
	if conf.RateLimit.Enabled {
		var store limiter.Store
		switch conf.RateLimit.Storage {
		case "redis":
			store, err = middleware.NewRedisStore(conf.RateLimit.RedisURL)
			if err != nil {
				logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
				store = middleware.NewMemoryStore()
			}
		default:
			store = middleware.NewMemoryStore()
		}
		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: conf.RateLimit.GlobalRPS,
			Store:             store,
			RealIPHeader:      conf.RealIPHeader,
		}))
	}
	middlewares = append(middlewares, middleware.ProvidePool(pool))
	srv := server.NewHTTPServer(controllers, middlewares...)

	logger.WithField("module", mod.Name()).Infof("Listening on: %s", conf.SocketAddress)
	if err := srv.Start(ctx, conf.SocketAddress, 30*time.Second); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
