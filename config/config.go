package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries every external handle the server needs. It is built once in
// main and handed down; no package reads the environment on its own.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	JwtSecret     []byte
	MediaHostURL  string
	MediaHostKey  string
	PublicBaseURL string
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := &Config{
		Port:          getenv("PORT", ":8080"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "storedb"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		JwtSecret:     []byte(os.Getenv("JWT_SECRET")),
		MediaHostURL:  getenv("MEDIA_HOST_URL", "http://localhost:9090"),
		MediaHostKey:  os.Getenv("MEDIA_HOST_KEY"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}

	if len(cfg.JwtSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
