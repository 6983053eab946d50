package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the seatmap service
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// JWT configuration (admin surface only)
	JWT JWTConfig

	// Kafka configuration (audit stream)
	Kafka KafkaConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Cart reservations
	Cart CartConfig

	// Checkout continuation target returned by the assignment endpoint
	CheckoutStartPath string

	// Logging
	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	// TTLs for the read-mostly lookups
	LayoutCacheTTL  time.Duration
	MappingCacheTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string
	JWTExpiresIn time.Duration
}

// KafkaConfig holds the audit stream configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `json:"enabled"`
	WindowDuration time.Duration `json:"window_duration"`
	DefaultLimit   int           `json:"default_limit"`
	AssignLimit    int           `json:"assign_limit"`
	WhitelistedIPs []string      `json:"whitelisted_ips"`
}

// CartConfig holds cart reservation configuration
type CartConfig struct {
	// How long a cart position holds its seat before the hold goes inert.
	HoldTTL time.Duration
	// How often the sweeper reclaims expired cart rows. Correctness does
	// not depend on the sweeper; expired holds are ignored by queries.
	SweepInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "seatmap_db"),
			User:     getEnv("DB_USER", "seatmap_user"),
			Password: getEnv("DB_PASSWORD", "seatmap_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			LayoutCacheTTL:  getDurationEnv("REDIS_LAYOUT_CACHE_TTL", 10*time.Minute),
			MappingCacheTTL: getDurationEnv("REDIS_MAPPING_CACHE_TTL", 5*time.Minute),
		},

		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			JWTExpiresIn: getDurationEnvSeconds("JWT_EXPIRES_IN", 15*time.Minute),
		},

		Kafka: KafkaConfig{
			Enabled: getBoolEnv("KAFKA_ENABLED", false),
			Brokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_AUDIT_TOPIC", "seatmap-audit"),
		},

		RateLimit: RateLimitConfig{
			Enabled:        getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration: getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultLimit:   getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 120),
			AssignLimit:    getIntEnv("RATE_LIMIT_ASSIGN_REQUESTS", 30),
			WhitelistedIPs: getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Cart: CartConfig{
			HoldTTL:       getDurationEnv("CART_HOLD_TTL", 30*time.Minute),
			SweepInterval: getDurationEnv("CART_SWEEP_INTERVAL", 10*time.Minute),
		},

		CheckoutStartPath: getEnv("CHECKOUT_START_PATH", "/checkout/start"),

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	// Build composite values
	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getDurationEnvSeconds gets an environment variable as seconds (int) and converts to time.Duration
func getDurationEnvSeconds(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
