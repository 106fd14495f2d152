package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/board-report/internal/api/http"
	"github.com/spec-kit/board-report/internal/api/http/handlers"
	"github.com/spec-kit/board-report/internal/auth"
	"github.com/spec-kit/board-report/internal/config"
	"github.com/spec-kit/board-report/internal/events"
	"github.com/spec-kit/board-report/internal/observability"
	"github.com/spec-kit/board-report/internal/render"
	"github.com/spec-kit/board-report/internal/service"
	"github.com/spec-kit/board-report/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	monitorService := service.NewMonitorService(dispatcher, logger, metrics)
	worker.StartMonitorWorker(monitorService)

	renderer, err := render.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse report template", zap.Error(err))
	}

	summaryService := service.NewSummaryService(service.SummaryDependencies{
		Risks:  cfg.Report.RiskPredicate(),
		Window: cfg.Report.CompletionWindow(),
		Logger: logger,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		Summaries:  summaryService,
		Renderer:   renderer,
		CarrierCfg: cfg.Carrier,
		SMTPCfg:    cfg.SMTP,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	tokens := auth.NewTokenManager(cfg.Auth.TriggerSecret, cfg.Auth.TriggerTokenTTL())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Carrier, cfg.SMTP),
		Reports:           handlers.NewReportsHandler(reportService),
		TriggerMiddleware: auth.NewTriggerMiddleware(tokens),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
