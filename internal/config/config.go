package config

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/pkg/db"
)

type Config struct {
	DatabaseURL  string
	ESURL        string
	ESUser       string
	ESPassword   string
	KafkaAddress string
	JWTSecret    string
	CheckoutMode string
	ServerPort   string
	LogLevel     string
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func getenvDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		DatabaseURL:  must(os.Getenv("DATABASE_URL"), "DATABASE_URL"),
		ESURL:        os.Getenv("ES_URL"),
		ESUser:       os.Getenv("ES_USER"),
		ESPassword:   os.Getenv("ES_PASSWORD"),
		KafkaAddress: os.Getenv("KAFKA_ADDRESS"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		CheckoutMode: getenvDefault("CHECKOUT_MODE", "strict"),
		ServerPort:   getenvDefault("SERVER_PORT", "8080"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
	}
}

func InitDB(ctx context.Context, cfg *Config) (*gorm.DB, error) {
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, err
	}
	return conn, nil
}
