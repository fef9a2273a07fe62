package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultChunkSize is the number of valid rows flushed to the store at once.
const DefaultChunkSize = 1000

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StoreBackend string
	DBDriver     string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	MongoURI      string
	MongoDatabase string

	NATSURL string

	ChunkSize        int
	MaxRetries       int
	RetryBaseDelayMs int

	HTTPPort             string
	MetricsPort          string
	MaxConcurrentImports int
	MaxUploadBytes       int64

	LogLevel  string
	LogFormat string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "listings"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "listings"),
		PostgresDB:       getEnv("POSTGRES_DB", "rental_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "rental_db"),

		NATSURL: getEnv("NATS_URL", ""),

		ChunkSize:        getEnvInt("CHUNK_SIZE", DefaultChunkSize),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		RetryBaseDelayMs: getEnvInt("RETRY_BASE_DELAY_MS", 200),

		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		MetricsPort:          getEnv("METRICS_PORT", "9090"),
		MaxConcurrentImports: getEnvInt("MAX_CONCURRENT_IMPORTS", 4),
		MaxUploadBytes:       int64(getEnvInt("MAX_UPLOAD_BYTES", 32<<20)),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return cfg
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// RetryBaseDelay returns the first back-off interval for chunk flush retries.
func (c *Config) RetryBaseDelay() time.Duration {
	return time.Duration(c.RetryBaseDelayMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
