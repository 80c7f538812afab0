package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	printingapp "github.com/swissbill/backend/internal/application/printing"
	"github.com/swissbill/backend/internal/domain/document"
	domainprinting "github.com/swissbill/backend/internal/domain/printing"
	"github.com/swissbill/backend/internal/domain/shared/valueobject"
	"github.com/swissbill/backend/internal/infrastructure/cache"
	"github.com/swissbill/backend/internal/infrastructure/config"
	"github.com/swissbill/backend/internal/infrastructure/logger"
	"github.com/swissbill/backend/internal/infrastructure/printing"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
	"github.com/swissbill/backend/internal/infrastructure/storage"
	"github.com/swissbill/backend/internal/infrastructure/telemetry"
	"github.com/swissbill/backend/internal/interfaces/http/dto"
	"github.com/swissbill/backend/internal/interfaces/http/handler"
	"github.com/swissbill/backend/internal/interfaces/http/middleware"
	"github.com/swissbill/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.FromConfig(cfg.Log, cfg.App.Env))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting document service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		ExportTraces:      cfg.Telemetry.ExportTraces,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.ExportLogs,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter("swissbill")

	documentMetrics, err := telemetry.NewDocumentMetrics(telemetry.DocumentMetricsConfig{
		Meter:  meter,
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to create document metrics", zap.Error(err))
	}

	// Document numbers
	numberStore, err := cache.NewNumberStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
		cache.WithReservationTTL(cfg.Billing.NumberReserveTTL),
	).CreateStore(cfg.Billing.NumberSequence)
	if err != nil {
		log.Fatal("Failed to create document number store", zap.Error(err))
	}
	defer func() {
		if err := numberStore.Close(); err != nil {
			log.Error("Error closing document number store", zap.Error(err))
		}
	}()

	archive, err := storage.NewArchive(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to create document archive", zap.Error(err))
	}

	currency := valueobject.Currency(cfg.Billing.Currency)
	calculator := document.NewTotalsCalculator(cfg.Billing.StandardTaxRate)
	encoder := qrbill.NewEncoder(qrbill.EncoderConfig{
		Currency:        cfg.Billing.Currency,
		DefaultCountry:  cfg.Billing.DefaultCountry,
		DefaultLanguage: qrbill.Language(cfg.Billing.DefaultLanguage),
	}, log)

	margins, err := domainprinting.NewMargins(
		cfg.Printing.MarginTop, cfg.Printing.MarginRight,
		cfg.Printing.MarginBottom, cfg.Printing.MarginLeft,
	)
	if err != nil {
		log.Fatal("Invalid page margins", zap.Error(err))
	}

	renderer := printing.NewRenderer(printing.RendererConfig{
		PaperSize: domainprinting.PaperSizeA4,
		Margins:   margins,
		Currency:  currency,
		Creator:   cfg.Printing.Creator,
	}, printing.RendererDeps{
		Calculator: calculator,
		Encoder:    encoder,
		Logos: printing.NewLogoFetcher(printing.LogoFetcherConfig{
			Timeout:  cfg.Printing.LogoTimeout,
			MaxBytes: cfg.Printing.LogoMaxBytes,
		}),
		Logger: log,
	})

	documentService := printingapp.NewDocumentService(printingapp.ServiceDeps{
		Renderer:   renderer,
		Calculator: calculator,
		Encoder:    encoder,
		Numbers: document.NewNumberGenerator(numberStore.Sequence,
			document.WithMaxRetries(cfg.Billing.NumberMaxRetries),
		),
		Registry: numberStore.Registry,
		Archive:  archive,
		Metrics:  documentMetrics,
		Currency: currency,
		Logger:   log,
	})

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	tracingConfig.Enabled = cfg.Telemetry.Enabled

	accountConfig := middleware.DefaultAccountConfig()
	accountConfig.Logger = log

	// Order matters: the request id and logger come first so every later
	// middleware can log with them; SpanAttributes needs the span and the
	// account to be set.
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(tracingConfig),
		middleware.Account(accountConfig),
		middleware.SpanAttributes(),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			Meter:   meter,
			Enabled: cfg.Telemetry.Enabled,
			Logger:  log,
		}),
		middleware.CORSWithConfig(corsConfig),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)

	if cfg.HTTP.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", c.GetString(middleware.RequestIDKey)))
	})

	healthOpts := []handler.SystemOption{handler.WithVersion(version)}
	if numberStore.Backend == cache.SequenceRedis {
		healthOpts = append(healthOpts, handler.WithHealthCheck("redis", numberStore.Ping))
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, healthOpts...)
	engine.GET("/health", systemHandler.Health)
	engine.GET("/api/v1/health", systemHandler.Health)

	documentRoutes := handler.DocumentRoutes(handler.NewDocumentHandler(documentService))
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(documentRoutes).
		Register(handler.SystemRoutes(systemHandler))
	r.Setup()

	for _, route := range documentRoutes.Routes() {
		log.Debug("route registered",
			zap.String("method", route.Method),
			zap.String("path", r.BasePath()+route.Path),
		)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
