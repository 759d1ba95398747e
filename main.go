package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"lab-dashboard-server/internal/blobstore"
	"lab-dashboard-server/internal/config"
	"lab-dashboard-server/internal/consolidate"
	"lab-dashboard-server/internal/models"
	"lab-dashboard-server/internal/notify"
	"lab-dashboard-server/internal/routes"
	"lab-dashboard-server/internal/store"
)

func main() {
	// Load environment variables; a missing .env is fine in production.
	_ = godotenv.Load()

	logger := newLogger()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Error loading config")
	}

	// Create a DatabaseConfig for models
	modelDbConfig := models.DatabaseConfig{
		DSN: cfg.Database.DSN,
	}

	// Initialize database connection
	db, err := models.InitDB(modelDbConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error connecting to database")
	}
	dataStore := store.NewGormStore(db)

	// Blob store for decoded report files
	blobs, err := newBlobStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error initializing blob store")
	}

	// Outbound email alerts; a stub sender when no API key is configured
	var mailer notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.Alert.SendGridAPIKey,
		FromEmail: cfg.Alert.FromEmail,
		FromName:  cfg.Alert.FromName,
	}, logger); sg != nil {
		mailer = sg
	} else {
		mailer = notify.NewStubSender(logger)
	}

	consolidator := consolidate.New(dataStore, blobs, mailer, logger, cfg.Alert.To)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Webhook-Token"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, dataStore, consolidator, cfg, logger)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info().Str("port", cfg.Port).Msg("Server running")
	if err := router.Run(serverAddr); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}

func newBlobStore(cfg *config.Config) (blobstore.Store, error) {
	if cfg.Blob.Backend == "minio" {
		return blobstore.NewMinioStore(context.Background(), blobstore.MinioConfig{
			Endpoint:  cfg.Blob.MinioEndpoint,
			AccessKey: cfg.Blob.MinioAccessKey,
			SecretKey: cfg.Blob.MinioSecretKey,
			Bucket:    cfg.Blob.MinioBucket,
			Secure:    cfg.Blob.MinioSecure,
		})
	}
	return blobstore.NewLocalStore(cfg.Blob.LocalDir)
}
