package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"geohunt_backend/internal/api"
	"geohunt_backend/internal/chain"
	"geohunt_backend/internal/middleware"
	"geohunt_backend/internal/notifier"
	"geohunt_backend/internal/repository"
	"geohunt_backend/internal/service"
	"geohunt_backend/internal/worker"
	"geohunt_backend/pkg/auth"
	"geohunt_backend/pkg/logger"

	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// .env values feed the APP_ overrides read by viper.
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	chainClient, err := chain.NewClient(cfg.Chain)
	if err != nil {
		zapLogger.Fatal("Failed to initialize chain client", zap.Error(err))
	}
	gateway := chain.NewGateway(chainClient)

	feedHub := api.NewFeedHub()
	announcers := []service.DiscoveryAnnouncer{feedHub}

	if cfg.Telegram.BotToken != "" {
		tgNotifier, err := notifier.NewTelegramNotifier(cfg.Telegram)
		if err != nil {
			zapLogger.Warn("Telegram notifier disabled", zap.Error(err))
		} else {
			announcers = append(announcers, tgNotifier)
		}
	}

	playerService := service.NewPlayerService(repo)
	profileService := service.NewProfileService(repo, repo)
	treasureService := service.NewTreasureService(repo, repo, repo, chainClient)
	walletService := service.NewWalletService(repo, chainClient)
	adminService := service.NewAdminService(repo, repo)
	discoveryService := service.NewDiscoveryService(
		repo, repo, repo, gateway, cfg.Discovery.AllowSynthesis, announcers...)

	jwtAuth := auth.NewJWTAuth(cfg.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	sweeper, err := worker.NewSweeper(repo, cfg.Sweep.Interval)
	if err != nil {
		zapLogger.Fatal("Failed to initialize sweeper", zap.Error(err))
	}
	if err := sweeper.Start(); err != nil {
		zapLogger.Fatal("Failed to start sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	discoverLimit := cfg.Discovery.RateLimit
	if discoverLimit <= 0 {
		discoverLimit = 30
	}

	a := router.Group("/api/v1")
	api.NewAuthRoutes(a, playerService, jwtAuth)
	api.NewTreasureRoutes(a, treasureService, discoveryService, jwtAuth,
		rateLimiter.Limit(discoverLimit, time.Minute))
	api.NewProfileRoutes(a, profileService, jwtAuth)
	api.NewWalletRoutes(a, walletService, jwtAuth)
	api.NewAdminRoutes(a, treasureService, adminService, jwtAuth)
	api.NewFeedRoutes(a, feedHub)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
