package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitcoin-price-service/internal/config"
	"bitcoin-price-service/internal/halving"
	"bitcoin-price-service/internal/handler"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/middleware"
	"bitcoin-price-service/internal/provider"
	"bitcoin-price-service/internal/repository"
	"bitcoin-price-service/internal/service"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up logger
	logger, err := createLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := connectToDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize the halving calendar and resolver
	calendar := halving.NewCalendar()
	resolver := halving.NewResolver(calendar)

	// Initialize repository and services
	priceRepo := repository.NewPriceRepository(db, logger)
	priceService := service.NewPriceService(priceRepo, resolver, logger)

	httpClient := httpx.New(cfg.Providers.Timeout)
	adapters := buildAdapters(cfg.Providers, httpClient, logger)
	quoteService := service.NewQuoteService(adapters, cfg.Providers.Timeout, logger)

	// Initialize handlers
	priceHandler := handler.NewPriceHandler(priceService, logger)
	quoteHandler := handler.NewQuoteHandler(quoteService, logger)

	// Set up HTTP server with Gin
	router := setupRouter(priceHandler, quoteHandler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}

func createLogger(level string) (*zap.Logger, error) {
	// Parse log level
	var zapLevel zap.AtomicLevel
	switch level {
	case "debug":
		zapLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapLevel = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	// Create logger config
	config := zap.Config{
		Level:            zapLevel,
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}

// connectToDB opens the sqlx pool, retrying with exponential backoff so the
// service survives the database coming up after it.
func connectToDB(dbConfig config.DatabaseConfig, logger *zap.Logger) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName,
		dbConfig.SSLMode,
	)

	var db *sqlx.DB
	connect := func() error {
		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			logger.Warn("Database not ready, retrying", zap.Error(err))
		}
		return err
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	if err := backoff.Retry(connect, policy); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(dbConfig.MaxOpenConns)
	db.SetMaxIdleConns(dbConfig.MaxIdleConns)
	db.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)

	return db, nil
}

// buildAdapters constructs the configured provider adapters in the order
// given by cfg.Enabled, which also fixes aggregate result order.
func buildAdapters(cfg config.ProvidersConfig, client *httpx.Client, logger *zap.Logger) []provider.Adapter {
	adapters := make([]provider.Adapter, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		baseURL := cfg.BaseURLs[name]
		switch name {
		case "binance":
			adapters = append(adapters, provider.NewBinance(baseURL, client))
		case "kraken":
			adapters = append(adapters, provider.NewKraken(baseURL, client))
		case "bybit":
			adapters = append(adapters, provider.NewBybit(baseURL, client))
		case "yahoo":
			adapters = append(adapters, provider.NewYahoo(baseURL, client))
		case "coingecko":
			adapters = append(adapters, provider.NewCoinGecko(baseURL, client))
		case "coincap":
			adapters = append(adapters, provider.NewCoinCap(baseURL, client))
		case "kucoin":
			adapters = append(adapters, provider.NewKuCoin(baseURL, client))
		case "coinbase":
			adapters = append(adapters, provider.NewCoinbase(baseURL, client))
		default:
			logger.Warn("Unknown provider in config, skipping", zap.String("provider", name))
		}
	}
	return adapters
}

func setupRouter(
	priceHandler *handler.PriceHandler,
	quoteHandler *handler.QuoteHandler,
	logger *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Use middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Root endpoint with an endpoint overview
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Bitcoin Price API",
			"endpoints": gin.H{
				"/api/v1/prices":                 "Retrieve all historical Bitcoin prices (paginated)",
				"/api/v1/prices/:year":           "Fetch Bitcoin prices for a specific year",
				"/api/v1/prices/halving/:number": "Bitcoin prices around a specific halving event",
				"/api/v1/prices/halvings":        "Bitcoin prices across all halving periods",
				"/api/v1/prices/stats":           "Summary statistics over stored prices",
				"/api/v1/quotes":                 "Current BTC quotes from all configured providers",
				"/api/v1/quotes/:provider":       "Current BTC quote from one provider",
			},
		})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		prices := v1.Group("/prices")
		{
			prices.GET("", priceHandler.GetAllPrices)
			prices.GET("/stats", priceHandler.GetStatistics)
			prices.GET("/halvings", priceHandler.GetPricesAcrossHalvings)
			prices.GET("/halving/:number", priceHandler.GetPricesByHalving)
			prices.GET("/:year", priceHandler.GetPricesByYear)
		}

		quotes := v1.Group("/quotes")
		{
			quotes.GET("", quoteHandler.GetAllQuotes)
			quotes.GET("/:provider", quoteHandler.GetQuote)
		}
	}
	return router
}
