package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	PresetsDir  string
	SinksDir    string
	HistoryDSN  string
	LogLevel    string
	BindAddr    string
	DefaultMode string
	BatchSize   int
	CORSOrigins []string
}

// Load reads DATADASH_* variables. A .env file in the working directory fills in
// variables that are not already set.
func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		PresetsDir:  getEnv("DATADASH_PRESETS_DIR", "./presets"),
		SinksDir:    getEnv("DATADASH_SINKS_DIR", "./sinks"),
		HistoryDSN:  getEnv("DATADASH_HISTORY_DB", "./datadash-history.sqlite"),
		LogLevel:    getEnv("DATADASH_LOG_LEVEL", "info"),
		BindAddr:    getEnv("DATADASH_BIND_ADDR", ":8080"),
		DefaultMode: getEnv("DATADASH_DEFAULT_MODE", "create_if_missing"),
		BatchSize:   getEnvInt("DATADASH_BATCH_SIZE", 1000),
		CORSOrigins: getEnvList("DATADASH_CORS_ORIGINS", []string{"*"}),
	}
}

// HistoryIsPostgres reports whether HistoryDSN points at postgres rather than a sqlite file.
func (c *Config) HistoryIsPostgres() bool {
	return strings.HasPrefix(c.HistoryDSN, "postgres://") || strings.HasPrefix(c.HistoryDSN, "postgresql://")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
