package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Addr string

	DBUrl  string
	DBNs   string
	DBDb   string
	DBUser string
	DBPass string

	JWTSecret string
	TokenTTL  time.Duration
}

// New loads configuration from environment variables.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:      getEnv("APP_ADDR", ":8080"),
		DBUrl:     os.Getenv("SURREAL_URL"),
		DBUser:    os.Getenv("SURREAL_USER"),
		DBPass:    os.Getenv("SURREAL_PASS"),
		DBNs:      os.Getenv("SURREAL_NS"),
		DBDb:      os.Getenv("SURREAL_DB"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  24 * time.Hour,
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("Invalid TOKEN_TTL %q: %v", ttl, err)
		}
		cfg.TokenTTL = d
	}

	if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
		log.Fatal("Required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set.")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("Required environment variable JWT_SECRET is not set.")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
