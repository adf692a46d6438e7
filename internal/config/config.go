package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Alm    AlmConfig
	Events EventsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	BodyLimitMB        int
}

type AlmConfig struct {
	// Endpoint of the model runner sidecar. Empty means the model is not
	// loaded and processing endpoints answer 503.
	Endpoint       string
	TimeoutSeconds int
}

type EventsConfig struct {
	SessionTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 50),
		},
		Alm: AlmConfig{
			Endpoint:       getEnv("ALM_ENDPOINT", "http://localhost:9000"),
			TimeoutSeconds: getEnvAsInt("ALM_TIMEOUT_SECONDS", 600),
		},
		Events: EventsConfig{
			SessionTopic: getEnv("SESSION_EVENTS_TOPIC", "SESSION_EVENTS"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
