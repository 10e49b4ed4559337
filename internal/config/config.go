package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	AI21APIKey  string
	AI21BaseURL string
	AI21Model   string

	// PhaseTimeout bounds both the answer-collection and the voting phase.
	PhaseTimeout time.Duration

	ThemesFile string

	// CallbackURLTemplate is the transport callback target, with one %d for
	// the recipient identifier.
	CallbackURLTemplate string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
}

func Load() *Config {
	return &Config{
		Port:                getEnv("PORT", "8080"),
		AI21APIKey:          os.Getenv("AI21_API_KEY"),
		AI21BaseURL:         getEnv("AI21_URL", "https://api.ai21.com/studio/v1"),
		AI21Model:           getEnv("AI21_MODEL", "jamba-large-1.6-2025-03"),
		PhaseTimeout:        time.Duration(getEnvInt("TIMEOUT_MINUTES", 5)) * time.Minute,
		ThemesFile:          getEnv("THEMES_FILE", "themes.txt"),
		CallbackURLTemplate: getEnv("CALLBACK_URL_TEMPLATE", "http://localhost:9090/deliver/%d"),
		PostgresHost:        os.Getenv("POSTGRES_HOST"),
		PostgresPort:        getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:        os.Getenv("POSTGRES_USER"),
		PostgresPassword:    os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:          os.Getenv("POSTGRES_DB"),
	}
}

// PostgresConfigured reports whether a theme database was provided; without
// one the server falls back to the themes file.
func (c *Config) PostgresConfigured() bool {
	return c.PostgresHost != ""
}

func (c *Config) PostgresConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
