package config

import (
	"fmt"
	"os"

	"lab-dashboard-server/internal/utils"
)

// Config holds all configuration for our application
type Config struct {
	Port         string
	Origin       string
	Environment  string
	LogLevel     string
	WebhookToken string `validate:"required"`
	Database     DatabaseConfig
	Blob         BlobConfig
	Alert        AlertConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// BlobConfig selects where decoded report files are written.
type BlobConfig struct {
	Backend        string `validate:"oneof=local minio"`
	LocalDir       string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool
}

// AlertConfig holds outbound email alert configuration.
type AlertConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	To             string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "labdash"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	cfg := &Config{
		Port:         getEnv("PORT", "3001"),
		Origin:       getEnv("ORIGIN", "http://localhost:4200"),
		Environment:  getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		WebhookToken: getEnv("WEBHOOK_TOKEN", ""),
		Database:     dbConfig,
		Blob: BlobConfig{
			Backend:        getEnv("BLOB_BACKEND", "local"),
			LocalDir:       getEnv("BLOB_LOCAL_DIR", "./data/reports"),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "lab-reports"),
			MinioSecure:    getEnv("MINIO_SECURE", "false") == "true",
		},
		Alert: AlertConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("ALERT_FROM_EMAIL", "alerts@crelio.local"),
			FromName:       getEnv("ALERT_FROM_NAME", "Lab Dashboard"),
			To:             getEnv("ALERT_TO_EMAIL", ""),
		},
	}

	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Blob.Backend == "minio" && cfg.Blob.MinioEndpoint == "" {
		return nil, fmt.Errorf("BLOB_BACKEND=minio requires MINIO_ENDPOINT")
	}

	return cfg, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
