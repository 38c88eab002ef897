package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/laborhours/api/internal/config"
	"github.com/laborhours/api/internal/infra/http"
	"github.com/laborhours/api/internal/infra/http/routes"
	"github.com/laborhours/api/internal/infra/jobs"
	"github.com/laborhours/api/internal/infra/postgres"
	"github.com/laborhours/api/internal/infra/redis"
	"github.com/laborhours/api/pkg/logger"
)

// @title           Labor Hours API
// @version         1.0
// @description     Labor-hours reporting over a shared business process tree

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

// Command line flags.
var (
	showRoutes  = flag.Bool("routes", false, "Print all registered routes and exit")
	routeFormat = flag.String("route-format", "table", "Route output format: table, json, csv, simple")
	routeMethod = flag.String("route-method", "", "Filter routes by HTTP method")
	routePath   = flag.String("route-path", "", "Filter routes containing this path")
	routeSort   = flag.String("route-sort", "path", "Sort routes by: path, method, handler")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log := logger.NewDefault()
		log.Error("failed to load configuration", "error", err)
		return 1
	}

	log := initLogger(cfg)
	log.Info("starting application", "app", cfg.App.Name, "env", cfg.App.Env)

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return 1
	}
	defer closeWithLog(db, "database", log)
	log.Info("database connected")

	redisClient, err := redis.New(&cfg.Redis, log)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		return 1
	}
	defer closeWithLog(redisClient, "redis", log)
	log.Info("redis connected")

	treeCache := redis.NewTreeCache(redisClient)

	repos := NewRepositories(db)
	log.Info("repositories initialized")

	var jobClient *jobs.Client
	if cfg.Worker.Enabled {
		jobClient, err = jobs.NewClient(jobs.ClientConfig{
			RedisAddr:     cfg.Redis.Addr(),
			RedisPassword: cfg.Redis.Password,
			RedisDB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Error("failed to initialize job client", "error", err)
			return 1
		}
		defer closeWithLog(jobClient, "job client", log)
	}

	services := NewServices(&ServiceDeps{
		Config:    cfg,
		Log:       log,
		Repos:     repos,
		TreeCache: treeCache,
		JobClient: jobClient,
	})
	log.Info("services initialized")

	handlers := NewHandlers(cfg, db, redisClient, services, log)

	server := http.NewServer(cfg, log)
	routes.Register(server.Router(), handlers, services.Tokens, cfg.Auth.AccessTokenCookieName, log)

	// Handle --routes flag
	if *showRoutes {
		stats := http.CollectRoutes(server.Router())
		filters := http.RouteFilters{
			Method: *routeMethod,
			Path:   *routePath,
			SortBy: *routeSort,
		}
		http.PrintRoutes(os.Stdout, stats, *routeFormat, filters)
		return 0
	}

	workers, err := NewWorkers(cfg, repos, services, jobClient, log)
	if err != nil {
		log.Error("failed to initialize workers", "error", err)
		return 1
	}
	if err := workers.Start(log); err != nil {
		log.Error("failed to start workers", "error", err)
		return 1
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", "error", err)
		}
	}()
	log.Info("application started", "http_addr", cfg.Server.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	workers.Stop(log)

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return 1
	}

	log.Info("application stopped")
	return 0
}

func initLogger(cfg *config.Config) *logger.Logger {
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	log.SetDefault()
	return log
}

type closer interface {
	Close() error
}

func closeWithLog(c closer, name string, log *logger.Logger) {
	if err := c.Close(); err != nil {
		log.Error("failed to close "+name, "error", err)
	}
}
