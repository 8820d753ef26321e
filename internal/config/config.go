package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultAPIBaseURL = "http://localhost:5000/api"

type Config struct {
	APIBaseURL  string
	StoreName   string
	AppEnv      string
	HTTPTimeout time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  os.Getenv("API_URL"),
		StoreName:   os.Getenv("STORE_NAME"),
		AppEnv:      os.Getenv("APP_ENV"),
		HTTPTimeout: 15 * time.Second,
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "LCIT Herbal Store"
	}

	if timeout := os.Getenv("HTTP_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			log.Fatal("HTTP_TIMEOUT is not a valid duration")
		}
		cfg.HTTPTimeout = d
	}

	return cfg
}
