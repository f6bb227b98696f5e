package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	// DatabaseDSN путь к файлу SQLite либо mysql:// или postgres:// адрес.
	DatabaseDSN  string
	StorageRoot  string
	AssetsURL    string
	// AssetsMaxMB предел размера скачиваемой модели.
	AssetsMaxMB  int
	SettingsPath string
	CORSOrigins  []string

	LogLevel string
	LogJSON  bool
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		DatabaseDSN:  getEnv("PLANNER_DB_DSN", "data/db/planner.db"),
		StorageRoot:  getEnv("PLANNER_STORAGE_ROOT", "data/files"),
		AssetsURL:    getEnv("PLANNER_ASSETS_URL", ""),
		AssetsMaxMB:  getEnvAsInt("PLANNER_ASSETS_MAX_MB", 64),
		SettingsPath: getEnv("PLANNER_SETTINGS", "planner.yaml"),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogJSON:      getEnvAsBool("LOG_JSON", false),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// JSONLogs в production логи всегда пишутся в JSON.
func (c *Config) JSONLogs() bool {
	return c.LogJSON || c.IsProduction()
}

// AssetsMaxBytes предел модели в байтах; неположительное значение даёт 64 МБ.
func (c *Config) AssetsMaxBytes() int64 {
	if c.AssetsMaxMB <= 0 {
		return 64 << 20
	}
	return int64(c.AssetsMaxMB) << 20
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
