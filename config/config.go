package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "http://localhost:8080/api/v1"
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 30 * time.Minute
)

type Config struct {
	BaseURL   string
	TokenFile string
	LogLevel  string
	StaleTime time.Duration
	GCTime    time.Duration

	TgEnabled   bool
	TgChatToken string

	VkEnabled    bool
	VkGroupToken string
}

func New() (*Config, error) {
	conf := &Config{
		BaseURL:   getEnvDefault("F1_API_BASE_URL", DefaultBaseURL),
		TokenFile: getEnvDefault("F1_TOKEN_FILE", ""),
		LogLevel:  getEnvDefault("F1_LOG_LEVEL", "info"),
		TgEnabled: getEnvBool("F1_TG_ENABLED"),
		VkEnabled: getEnvBool("F1_VK_ENABLED"),
	}

	var err error
	if conf.StaleTime, err = getEnvDuration("F1_CACHE_STALE_TIME", DefaultStaleTime); err != nil {
		return nil, err
	}
	if conf.GCTime, err = getEnvDuration("F1_CACHE_GC_TIME", DefaultGCTime); err != nil {
		return nil, err
	}

	if conf.TgEnabled {
		if conf.TgChatToken, err = getEnv("F1TG_BOT"); err != nil {
			return nil, err
		}
	}
	if conf.VkEnabled {
		if conf.VkGroupToken, err = getEnv("F1VK_BOT"); err != nil {
			return nil, err
		}
	}

	conf.BaseURL = strings.TrimRight(conf.BaseURL, "/")
	return conf, nil
}

func getEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("error getting environment %s", key)
	}
	return value, nil
}

func getEnvDefault(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

func getEnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("error parsing environment %s: %w", key, err)
	}
	return d, nil
}
