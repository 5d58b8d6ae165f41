package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/roadshop/checkout-backend/internal/config"
	"github.com/roadshop/checkout-backend/internal/gateway"
	"github.com/roadshop/checkout-backend/internal/handler"
	"github.com/roadshop/checkout-backend/internal/middleware"
	"github.com/roadshop/checkout-backend/internal/repository"
	"github.com/roadshop/checkout-backend/internal/routes"
	"github.com/roadshop/checkout-backend/internal/service"
	pkgcache "github.com/roadshop/checkout-backend/pkg/cache"
	pkglogger "github.com/roadshop/checkout-backend/pkg/logger"
	pkgredis "github.com/roadshop/checkout-backend/pkg/redis"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL is optional: without it intents are still created, just not
	// recorded.
	var intentRepo *repository.IntentRepository
	if cfg.Database.Host != "" {
		db, err := initDB(cfg)
		if err != nil {
			pkglogger.Warn("Failed to connect to database: %v (continuing without DB)", err)
		} else {
			pkglogger.Info("Connected to MySQL")
			intentRepo = repository.NewIntentRepository(db)
		}
	}

	// Redis is optional: without it idempotent replay and document
	// caching are disabled.
	var cacheService pkgcache.Service
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
	} else {
		pkglogger.Info("Connected to Redis")
		cacheService = pkgcache.NewService(redisClient)
	}

	keys := gateway.LoadStripeKeys(cfg.Stripe.KeysPath)
	if cfg.Stripe.PublishableKey != "" {
		keys.PublishableKey = cfg.Stripe.PublishableKey
	}
	if cfg.Stripe.SecretKey != "" {
		keys.SecretKey = cfg.Stripe.SecretKey
	}
	if keys.SecretKey == "" {
		pkglogger.Warn("No Stripe secret key configured; intent creation will fail until one is provided")
	}

	stripeGateway := gateway.NewStripeGateway(&gateway.StripeConfig{
		PublishableKey: keys.PublishableKey,
		SecretKey:      keys.SecretKey,
		BaseURL:        cfg.Stripe.APIBase,
	})

	methodService, err := service.NewMethodService(cfg.Payments.MethodsPath, cacheService)
	if err != nil {
		log.Fatalf("Failed to load payment method catalog: %v", err)
	}
	pkglogger.Info("Loaded %d payment methods from %s", len(methodService.Catalog().Methods), cfg.Payments.MethodsPath)

	intentService := service.NewIntentService(intentRepo, stripeGateway, cacheService, cfg.Payments.DefaultAmounts)

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
	}))

	routes.Setup(
		router,
		handler.NewConfigHandler(methodService, intentService),
		handler.NewIntentHandler(intentService),
	)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	pkglogger.Info("Checkout backend listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// initDB opens the MySQL connection
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logMode := gormlogger.Warn
	if cfg.App.Env == "local" {
		logMode = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)

	return db, nil
}
