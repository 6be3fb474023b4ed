package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// ServerConfig holds the weather server's configuration, loaded once at
// startup from an optional .env file and the environment.
type ServerConfig struct {
	OpenWeatherAPIKey string
	Host              string
	Port              string
}

// LoadConfig reads the server configuration from the environment.
func LoadConfig() (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: No .env file found, relying on system environment variables.")
	}

	cfg := &ServerConfig{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		Host:              getenvDefault("MCP_SERVER_HOST", "localhost"),
		Port:              getenvDefault("MCP_SERVER_PORT", "8000"),
	}
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY environment variable is required")
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
