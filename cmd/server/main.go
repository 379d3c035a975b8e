package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	api "github.com/guildforms/guildforms/api/echo"
	"github.com/guildforms/guildforms/cache"
	cacheredis "github.com/guildforms/guildforms/cache/redis"
	"github.com/guildforms/guildforms/config"
	"github.com/guildforms/guildforms/internal/discord"
	"github.com/guildforms/guildforms/log"
	"github.com/guildforms/guildforms/mongodb"
	"github.com/guildforms/guildforms/services"
)

var appLogger log.Logger

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logLevel, parseErr := zerolog.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		logLevel = zerolog.InfoLevel
	}
	appLogger = log.NewZerologAdapter(logLevel, cfg.LogPretty)

	ctx := context.Background()
	appLogger.Info(ctx, "Starting guildforms server...", map[string]interface{}{
		"http_port":     cfg.HTTPPort,
		"mongo_db_name": cfg.MongoDBName,
		"log_level":     logLevel.String(),
	})

	if initErr := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); initErr != nil {
		appLogger.Fatal(ctx, "Failed to initialize MongoDB", initErr)
	}
	defer mongodb.CloseMongoDB(ctx)
	db := mongodb.GetDB()

	identityRepo := mongodb.NewMongoIdentityRepository(db)
	permissionRepo := mongodb.NewMongoPermissionRepository(db)
	settingsRepo := mongodb.NewMongoGuildSettingsRepository(db)
	formRepo := mongodb.NewMongoFormRepository(db)
	applicationRepo := mongodb.NewMongoApplicationRepository(db)
	sessionRepo, err := mongodb.NewMongoSessionRepository(ctx, db)
	if err != nil {
		appLogger.Fatal(ctx, "Failed to initialize session repository", err)
	}

	var credentialStore cache.CredentialStore
	switch cfg.CredentialStore {
	case "redis":
		redisClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if pingErr := redisClient.Ping(ctx).Err(); pingErr != nil {
			appLogger.Fatal(ctx, "Failed to connect to Redis", pingErr)
		}
		credentialStore = cacheredis.NewCredentialStore(redisClient, cfg.RedisKeyPrefix)
	default:
		credentialStore = cache.NewMemoryCredentialStore()
	}

	platform := discord.NewRestClient(discord.Config{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.DiscordRedirectURI,
		BotToken:     cfg.DiscordBotToken,
	})

	sessionService := services.NewSessionService(sessionRepo, time.Duration(cfg.SessionTTLHour)*time.Hour)
	defer sessionService.Stop()

	loginService := services.NewLoginService(
		platform, credentialStore, permissionRepo, identityRepo, settingsRepo, sessionService)
	entitlementService := services.NewEntitlementService(settingsRepo)
	notificationService := services.NewNotificationService(platform)
	applicationService := services.NewApplicationService(
		formRepo, applicationRepo, entitlementService, notificationService, platform)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	httpAPI := api.NewAPI(
		loginService, sessionService, applicationService, entitlementService,
		formRepo, identityRepo, permissionRepo, platform, cfg.FrontendURL)
	httpAPI.RegisterRoutes(e)

	go func() {
		if serveErr := e.Start(":" + cfg.HTTPPort); serveErr != nil {
			appLogger.Info(ctx, "HTTP server stopped", map[string]interface{}{"reason": serveErr.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
		appLogger.Error(shutdownCtx, "Forced shutdown of HTTP server", shutdownErr)
	}
}
