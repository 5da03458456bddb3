package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/danilofelipe32/nutriscan100/models"
)

// Config enumerates every option the backend recognizes. Load validates once
// at startup so nothing downstream re-reads the environment.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	S3Bucket      string
	S3Region      string
	CloudFrontURL string
}

func Load() (Config, error) {
	// A missing .env file is fine where real environment variables are set.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        getEnv("DB_PORT", "5432"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      getEnv("S3_REGION", os.Getenv("AWS_REGION")),
		CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),
	}

	if raw := os.Getenv("GEMINI_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GEMINI_TIMEOUT %q: %w", raw, err)
		}
		cfg.GeminiTimeout = d
	}

	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return Config{}, fmt.Errorf("DB_HOST, DB_USER and DB_NAME are required")
	}
	if cfg.S3Bucket != "" && cfg.S3Region == "" {
		return Config{}, fmt.Errorf("S3_REGION (or AWS_REGION) is required when S3_BUCKET is set")
	}
	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// OpenDB connects to postgres and migrates the history table.
func OpenDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.HistoryBlob{}); err != nil {
		return nil, fmt.Errorf("migrate history table: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
