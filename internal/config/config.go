package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data source kinds
const (
	SourceXLSX   = "xlsx"
	SourceSQLite = "sqlite"
)

// DefaultSheet is the sheet name used by the provincial village road workbook
const DefaultSheet = "02  DATA JALAN DESA"

// Config 应用配置
type Config struct {
	Port          string
	Debug         bool
	DataSource    string        // xlsx or sqlite
	DataFile      string        // workbook path
	DataSheet     string        // sheet holding the road rows
	DBPath        string        // sqlite path when DataSource is sqlite
	JWTSecret     string        // empty disables the admin routes
	WatchInterval time.Duration // 0 disables reloading on file change
	RateLimit     int           // requests per window per client IP
	RateWindow    time.Duration
}

// Load 加载配置. A .env file in the working directory is read first if present;
// variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getString("PORT", ":8080"),
		Debug:         getBool("DEBUG", false),
		DataSource:    strings.ToLower(getString("DATA_SOURCE", SourceXLSX)),
		DataFile:      getString("DATA_FILE", "DATA JALAN DESA.xlsx"),
		DataSheet:     getString("DATA_SHEET", DefaultSheet),
		DBPath:        getString("DB_PATH", "./data/roads.db"),
		JWTSecret:     getString("JWT_SECRET", ""),
		WatchInterval: getDuration("WATCH_INTERVAL", 0),
		RateLimit:     getInt("RATE_LIMIT", 120),
		RateWindow:    getDuration("RATE_WINDOW", time.Minute),
	}
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
