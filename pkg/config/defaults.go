// Package config provides centralized default values for the OPC server
package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var envLoaded sync.Once

// loadEnvFile applies .env overrides without clobbering variables already set
func loadEnvFile() {
	envLoaded.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		log.Println("Loading configuration overrides from .env file...")
		if err := godotenv.Load(); err != nil {
			log.Printf("WARNING: could not load .env: %v", err)
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	ShutdownTimeout    time.Duration
	GinMode            string
	CORSAllowOrigins   string

	// Composition limits
	MaxTreeDepth int
	MaxAreaItems int

	// Media
	MediaRoot       string
	MediaURLPrefix  string
	ImageVariantDir string
	ImageWidthXS    int
	ImageWidthSM    int
	ImageWidthMD    int
	ImageWidthLG    int

	// Localization and registry
	Language        string
	PortletManifest string

	// Database
	DBDriver                 string
	DBDSN                    string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration

	// Cache
	FragmentCacheTTL time.Duration
	CleanupInterval  time.Duration

	// Logging
	LogJSON      bool
	LogLevel     string
	LogDirectory string
	LogToFile    bool
)

func init() {
	Load()
}

// Load (re)reads every setting from the environment
func Load() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)
	ShutdownTimeout = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	GinMode = getEnvString("GIN_MODE", "release")
	CORSAllowOrigins = getEnvString("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:4321,http://127.0.0.1:3000,http://127.0.0.1:4321")

	// Composition limits
	MaxTreeDepth = getEnvInt("OPC_MAX_TREE_DEPTH", 32)
	MaxAreaItems = getEnvInt("OPC_MAX_AREA_ITEMS", 256)

	// Media
	MediaRoot = getEnvString("OPC_MEDIA_ROOT", "./media")
	MediaURLPrefix = getEnvString("OPC_MEDIA_URL_PREFIX", "/media")
	ImageVariantDir = getEnvString("OPC_IMAGE_VARIANT_DIR", "variants")
	ImageWidthXS = getEnvInt("OPC_IMAGE_WIDTH_XS", 360)
	ImageWidthSM = getEnvInt("OPC_IMAGE_WIDTH_SM", 720)
	ImageWidthMD = getEnvInt("OPC_IMAGE_WIDTH_MD", 1080)
	ImageWidthLG = getEnvInt("OPC_IMAGE_WIDTH_LG", 1440)

	// Localization and registry
	Language = getEnvString("OPC_LANGUAGE", "en")
	PortletManifest = getEnvString("OPC_PORTLET_MANIFEST", "")

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBDSN = getEnvString("DB_DSN", "file:opc.db?_foreign_keys=on")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 100*time.Millisecond)

	// Cache
	FragmentCacheTTL = getEnvDuration("FRAGMENT_CACHE_TTL", time.Hour)
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute

	// Logging
	LogJSON = getEnvBool("LOG_JSON", false)
	LogLevel = getEnvString("LOG_LEVEL", "info")
	LogDirectory = getEnvString("LOG_DIRECTORY", "logs")
	LogToFile = getEnvBool("LOG_TO_FILE", false)
}
