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

	"commhub/internal/config"
	"commhub/internal/handlers"
	"commhub/internal/middleware"
	"commhub/internal/models"
	mongorepo "commhub/internal/repositories/mongodb"
	"commhub/internal/services"
	"commhub/pkg/cache"
	"commhub/pkg/database"
	"commhub/pkg/logger"
	"commhub/pkg/maps"
	"commhub/pkg/websocket"
	"commhub/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// The store is the hub's backbone: failing to open it blocks everything.
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to open local store")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.WithError(err).Fatal("Failed to migrate local store")
	}

	storeCache := buildCache(cfg, appLogger)
	defer storeCache.Close()

	geocoder := buildGeocoder(cfg, appLogger)

	// Repositories
	spotRepo := mongorepo.NewSpotRepository(db.Database, storeCache)
	messageRepo := mongorepo.NewMessageRepository(db.Database, storeCache)
	sosRepo := mongorepo.NewSOSRepository(db.Database, storeCache)
	settingsRepo := mongorepo.NewSettingsRepository(db.Database)

	// Websocket hub pushing view updates to the UI
	wsHandler := websocket.NewHandler()
	hub := wsHandler.Hub()

	// Services
	identityService := services.NewIdentityService(settingsRepo, appLogger)
	locationService := services.NewLocationService(geocoder, appLogger, services.LocationOptions{
		FixTimeout:     cfg.Location.FixTimeout,
		WatchStaleness: cfg.Location.WatchStaleness,
	})
	mapService := services.NewMapService(hub, services.MapOptions{
		DefaultCenter: models.Coordinate{Lat: cfg.Location.DefaultLat, Lng: cfg.Location.DefaultLng},
		DefaultZoom:   cfg.Location.DefaultZoom,
	})
	spotService := services.NewSpotService(spotRepo, locationService, identityService, appLogger)
	messageService := services.NewMessageService(messageRepo, identityService, appLogger)
	sosService := services.NewSOSService(sosRepo, locationService, identityService, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	locationService.Start(ctx)

	// Handlers
	spotHandler := handlers.NewSpotHandler(spotService, mapService, hub)
	messageHandler := handlers.NewMessageHandler(messageService, hub)
	sosHandler := handlers.NewSOSHandler(sosService, mapService, hub)
	locationHandler := handlers.NewLocationHandler(locationService, mapService, hub)
	systemHandler := handlers.NewSystemHandler(identityService, mapService)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggerMiddleware(appLogger))

	// API routes
	v1 := router.Group("/api/v1")
	{
		routes.SetupSpotRoutes(v1, spotHandler)
		routes.SetupMessageRoutes(v1, messageHandler)
		routes.SetupSOSRoutes(v1, sosHandler)
		routes.SetupLocationRoutes(v1, locationHandler)
		routes.SetupSystemRoutes(v1, systemHandler)
	}

	router.GET("/ws", wsHandler.HandleWebSocket)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "store unavailable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Forced shutdown")
	}
}

func buildCache(cfg *config.Config, appLogger *logger.Logger) cache.Cache {
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err == nil {
			return redisCache
		}
		appLogger.WithError(err).Warn("Redis unavailable, falling back to in-process cache")
	}

	return cache.NewLocalCache(&cache.LocalConfig{
		DefaultExpiration: 5 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	})
}

func buildGeocoder(cfg *config.Config, appLogger *logger.Logger) maps.Geocoder {
	if cfg.Maps.Provider == "google" && cfg.Maps.GoogleAPIKey != "" {
		provider, err := maps.NewGoogleMapsProvider(cfg.Maps.GoogleAPIKey)
		if err == nil {
			return provider
		}
		appLogger.WithError(err).Warn("Google Maps unavailable, falling back to Nominatim")
	}

	return maps.NewNominatimProvider(cfg.Maps.NominatimURL)
}
