package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	LineChannelAccessToken string
	LineChannelSecret      string

	OpenAIAPIKey      string
	OpenAIChatModel   string
	OpenAIVisionModel string
	ReplyMaxTokens    int

	OpenWeatherAPIKey string
	WeatherTimeout    time.Duration

	SessionTTL time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "5050"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LineChannelAccessToken: getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineChannelSecret:      getEnv("LINE_CHANNEL_SECRET", ""),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIChatModel:   getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAIVisionModel: getEnv("OPENAI_VISION_MODEL", "gpt-4o-mini"),
		ReplyMaxTokens:    getEnvAsInt("REPLY_MAX_TOKENS", 300),

		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		WeatherTimeout:    getEnvAsDuration("WEATHER_TIMEOUT", 5*time.Second),

		SessionTTL: getEnvAsDuration("SESSION_TTL", 10*time.Minute),
	}
}

// Validate reports every missing required credential. Absence of any of
// them is a startup fault; the process must not come up half-configured.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.LineChannelAccessToken) == "" {
		missing = append(missing, "LINE_CHANNEL_ACCESS_TOKEN")
	}
	if strings.TrimSpace(c.LineChannelSecret) == "" {
		missing = append(missing, "LINE_CHANNEL_SECRET")
	}
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if strings.TrimSpace(c.OpenWeatherAPIKey) == "" {
		missing = append(missing, "OPENWEATHER_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
