// Package main wires the HTTP server for the license seat service.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gabrieldeltasollutions/aws-office/config"
	"github.com/gabrieldeltasollutions/aws-office/internal/repository"
	"github.com/gabrieldeltasollutions/aws-office/internal/secret"
	"github.com/gabrieldeltasollutions/aws-office/internal/transport/http/metrics"
	"github.com/gabrieldeltasollutions/aws-office/internal/transport/http/middleware"
	"github.com/gabrieldeltasollutions/aws-office/internal/transport/http/server/handlers-fiber"
	"github.com/gabrieldeltasollutions/aws-office/internal/usecase"
	"github.com/gabrieldeltasollutions/aws-office/internal/usecase/domain"
	"github.com/gabrieldeltasollutions/aws-office/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	sealer, err := secret.NewSealer(cfg.Secrets.Key)
	if err != nil {
		log.Errorw("secret sealer initialization error", "error", err)
		return
	}

	repo, err := repository.New(ctx, cfg.Storage.Backend, log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "backend", cfg.Storage.Backend, "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "backend", cfg.Storage.Backend, "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	timeout := cfg.HTTP.RequestTimeout
	uc := usecase.New(log, ctx, repo, timeout, sealer, domain.Policy{
		Email:         cfg.Users.EmailPolicy(),
		MaxUsersLimit: cfg.Licenses.MaxUsersLimit,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(metrics.NewSeats(log, uc, timeout))
	httpMetrics, err := metrics.NewHTTP(reg)
	if err != nil {
		log.Errorw("metrics initialization error", "error", err)
		return
	}

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(middleware.RequestLogger(log))
	serv.Use(httpMetrics.Middleware())

	serv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	serv.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := serv.Group("/api", cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	h := handlers_fiber.NewHandler(log, uc, validator.New())
	h.Register(api)

	go func() {
		log.Infow("listening", "addr", cfg.ServerAddr(), "backend", cfg.Storage.Backend)
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}
