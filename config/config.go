package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds all application configuration
type Config struct {
	Port                string
	HTTPBindAddr        string
	Environment         string
	LoggingConfig       LoggingConfig
	AviationstackConfig AviationstackConfig
	CacheConfig         CacheConfig
	RedisConfig         RedisConfig
	ClientConfig        ClientConfig
	AdminAuthConfig     AdminAuthConfig
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// AviationstackConfig holds upstream provider configuration
type AviationstackConfig struct {
	APIKey    string `json:"-"`
	BaseURL   string
	Timeout   time.Duration
	PageLimit int // Records requested in the single bulk load
}

// CacheConfig holds server cache configuration
type CacheConfig struct {
	UseMockData       bool
	RevalidateAfter   time.Duration
	KeyPrefix         string
	PersistentEnabled bool
	WarmSchedule      string // cron spec, empty disables scheduled warm-up
	WarmOnStart       bool
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ClientConfig holds configuration for the terminal and MCP clients
type ClientConfig struct {
	APIURL       string
	CacheTTL     time.Duration
	CacheFile    string
	PageSize     int
	HistoryLimit int
}

// AdminAuthConfig holds admin authentication configuration
type AdminAuthConfig struct {
	Enabled  bool
	Username string
	Password string
	Token    string // Alternative: Bearer token auth
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// FallbackAllowed reports whether bundled sample data may stand in for the provider.
func (c *Config) FallbackAllowed() bool {
	return c.CacheConfig.UseMockData && !c.IsProduction()
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	pageLimit, _ := strconv.Atoi(getEnv("AVIATIONSTACK_PAGE_LIMIT", "10000"))
	if pageLimit < 1 {
		pageLimit = 10000
	}

	pageSize, _ := strconv.Atoi(getEnv("CLIENT_PAGE_SIZE", "12"))
	if pageSize < 1 {
		pageSize = 12
	}
	historyLimit, _ := strconv.Atoi(getEnv("CLIENT_HISTORY_LIMIT", "10"))
	if historyLimit < 1 {
		historyLimit = 10
	}

	useMockData, _ := strconv.ParseBool(getEnv("USE_MOCK_DATA", "false"))
	persistentEnabled, _ := strconv.ParseBool(getEnv("PERSISTENT_CACHE_ENABLED", "true"))
	warmOnStart, _ := strconv.ParseBool(getEnv("CACHE_WARM_ON_START", "true"))
	adminAuthEnabled, _ := strconv.ParseBool(getEnv("ADMIN_AUTH_ENABLED", "false"))

	return &Config{
		Port:         getEnv("PORT", "8080"),
		HTTPBindAddr: getEnv("HTTP_BIND_ADDR", ""),
		Environment:  getEnv("ENVIRONMENT", EnvDevelopment),
		LoggingConfig: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		AviationstackConfig: AviationstackConfig{
			APIKey:    getEnv("AVIATIONSTACK_API_KEY", ""),
			BaseURL:   getEnv("AVIATIONSTACK_BASE_URL", "http://api.aviationstack.com/v1/airports"),
			Timeout:   getDuration("AVIATIONSTACK_TIMEOUT", 30*time.Second),
			PageLimit: pageLimit,
		},
		CacheConfig: CacheConfig{
			UseMockData:       useMockData,
			RevalidateAfter:   getDuration("CACHE_REVALIDATE_AFTER", 24*time.Hour),
			KeyPrefix:         getEnv("CACHE_KEY_PREFIX", "skyconnect"),
			PersistentEnabled: persistentEnabled,
			WarmSchedule:      getEnv("CACHE_WARM_SCHEDULE", ""),
			WarmOnStart:       warmOnStart,
		},
		RedisConfig: RedisConfig{
			Host:     getEnv("REDIS_HOST", "redis"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		ClientConfig: ClientConfig{
			APIURL:       getEnv("SKYCONNECT_API_URL", "http://localhost:8080"),
			CacheTTL:     getDuration("CLIENT_CACHE_TTL", 24*time.Hour),
			CacheFile:    getEnv("CLIENT_CACHE_FILE", defaultClientCacheFile()),
			PageSize:     pageSize,
			HistoryLimit: historyLimit,
		},
		AdminAuthConfig: AdminAuthConfig{
			Enabled:  adminAuthEnabled,
			Username: getEnv("ADMIN_AUTH_USERNAME", ""),
			Password: getEnv("ADMIN_AUTH_PASSWORD", ""),
			Token:    getEnv("ADMIN_AUTH_TOKEN", ""),
		},
	}, nil
}

// TestConfig returns a default test configuration
func TestConfig() *Config {
	return &Config{
		Port:        "0",
		Environment: EnvTest,
		LoggingConfig: LoggingConfig{
			Level:  "error",
			Format: "text",
		},
		AviationstackConfig: AviationstackConfig{
			BaseURL:   "http://127.0.0.1:0/v1/airports",
			Timeout:   5 * time.Second,
			PageLimit: 10000,
		},
		CacheConfig: CacheConfig{
			UseMockData:     true,
			RevalidateAfter: 24 * time.Hour,
			KeyPrefix:       "skyconnect_test",
		},
		RedisConfig: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		ClientConfig: ClientConfig{
			APIURL:       "http://localhost:8080",
			CacheTTL:     24 * time.Hour,
			PageSize:     12,
			HistoryLimit: 10,
		},
	}
}

func defaultClientCacheFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "skyconnect", "airports_cache.json")
	}
	return filepath.Join(home, ".skyconnect", "airports_cache.json")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value) // Trim whitespace before returning
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, defaultValue.String()))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
