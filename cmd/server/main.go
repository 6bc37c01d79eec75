package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JKalith/clocky-accounting-integration/internal/config"
	"github.com/JKalith/clocky-accounting-integration/internal/delivery"
	"github.com/JKalith/clocky-accounting-integration/internal/normalizer"
	"github.com/JKalith/clocky-accounting-integration/internal/pos"
	"github.com/JKalith/clocky-accounting-integration/internal/webhook"
	"github.com/JKalith/clocky-accounting-integration/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Clocky POS accounting integration",
		zap.String("delivery_mode", cfg.Delivery.Mode),
		zap.Int("port", cfg.Server.Port))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := delivery.NewMetrics(registry)

	var deliverer delivery.Deliverer
	switch cfg.Delivery.Mode {
	case "rpc":
		deliverer = delivery.NewRPCClient(delivery.RPCConfig{
			Endpoint:  cfg.Delivery.RPCEndpoint,
			Namespace: cfg.Delivery.RPCNamespace,
			Method:    cfg.Delivery.RPCMethod,
			Timeout:   cfg.Delivery.Timeout,
		}, metrics, logger)
	default:
		deliverer = delivery.NewHTTPClient(delivery.HTTPConfig{
			URL:     cfg.Delivery.URL,
			Token:   cfg.Delivery.Token,
			Timeout: cfg.Delivery.Timeout,
		}, metrics, logger)
	}

	norm := normalizer.New(normalizer.Config{
		PaymentCondition: cfg.Delivery.PaymentCondition,
	}, logger)
	integration := pos.NewIntegration(norm, deliverer, logger)

	verifier := webhook.NewVerifier(cfg.Webhook.Token, logger)
	handler := webhook.NewHandler(verifier, integration, logger)

	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "clocky-accounting-integration",
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.POST(cfg.Webhook.Path, handler.HandleOrderCompleted)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		)
	}
}
