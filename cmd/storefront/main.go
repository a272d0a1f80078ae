package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/isomaug/impelatradingcc/internal/cart"
	"github.com/isomaug/impelatradingcc/internal/catalog"
	"github.com/isomaug/impelatradingcc/internal/currency"
	"github.com/isomaug/impelatradingcc/internal/events"
	apihttp "github.com/isomaug/impelatradingcc/internal/http"
	"github.com/isomaug/impelatradingcc/internal/rates"
	"github.com/isomaug/impelatradingcc/internal/session"
)

type Config struct {
	HTTPPort        string
	ProductsFile    string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	RatesURL        string
	RatesInterval   time.Duration
	KafkaBrokers    string
	TaxRate         float64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ProductsFile:    getEnv("PRODUCTS_FILE", "data/products.json"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "impela"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RatesURL:        getEnv("RATES_URL", ""),
		RatesInterval:   getDurationEnv("RATES_REFRESH_INTERVAL", time.Hour),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		TaxRate:         getFloatEnv("TAX_RATE", 0.08),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func main() {
	// Missing .env is fine; real env vars still apply.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := loadConfig()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog: MongoDB when configured, flat JSON file otherwise.
	var productRepo catalog.ProductRepository
	if cfg.MongoURI != "" {
		db, err := catalog.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer db.Client().Disconnect(ctx)
		productRepo = catalog.NewMongoRepository(db)
		logger.Info("catalog backed by MongoDB", zap.String("db", cfg.MongoDBName))
	} else {
		productRepo = catalog.NewFileRepository(cfg.ProductsFile)
		logger.Info("catalog backed by JSON file", zap.String("path", cfg.ProductsFile))
	}

	// Session store: Redis when configured, in-memory otherwise.
	var store session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		store = session.NewRedisStore(redisClient)
		logger.Info("sessions backed by Redis", zap.String("addr", cfg.RedisAddr))
	} else {
		store = session.NewMemoryStore()
		logger.Info("sessions backed by memory store")
	}

	// Rates: live endpoint when configured, built-in defaults otherwise.
	var provider rates.Provider
	if cfg.RatesURL != "" {
		provider = rates.NewHTTPProvider(cfg.RatesURL, currency.ReferenceCurrency)
	} else {
		provider = rates.NewStaticProvider(currency.DefaultRates())
	}

	currencySvc := currency.NewService(provider, store, logger)
	cartSvc := cart.NewService(store, productRepo, logger)

	if cfg.RatesURL != "" {
		refresher := currency.NewRefresher(currencySvc, cfg.RatesInterval, logger)
		go refresher.Run(ctx)
	}

	if cfg.KafkaBrokers != "" {
		poller := events.NewPoller(cartSvc, logger, strings.Split(cfg.KafkaBrokers, ",")...)
		defer poller.Close()
		go poller.Run(ctx)
		logger.Info("checkout event poller started", zap.String("brokers", cfg.KafkaBrokers))
	}

	router := apihttp.NewRouter(
		apihttp.NewProductHandler(productRepo),
		apihttp.NewCartHandler(cartSvc, currencySvc, cfg.TaxRate),
		apihttp.NewCurrencyHandler(currencySvc),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down storefront")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("storefront stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
