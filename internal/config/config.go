package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Durable relationship store
	Database DatabaseConfig `json:"database"`

	// Durable sync queue
	MongoDB MongoDBConfig `json:"mongodb"`

	Sync SyncConfig `json:"sync"`

	Auth AuthConfig `json:"auth"`

	RateLimit RateLimitConfig `json:"rate_limit"`

	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains listener configuration
type ServerConfig struct {
	Host        string `json:"host"`
	GRPCPort    string `json:"grpc_port"`
	AdminPort   string `json:"admin_port"`
	Environment string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver       string `json:"driver"` // mysql, postgres
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	SSLMode      string `json:"ssl_mode"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// SyncConfig controls the sync queue and its consumers
type SyncConfig struct {
	Backend        string        `json:"backend"` // memory, mongo
	Shards         int           `json:"shards"`
	BufferSize     int           `json:"buffer_size"`
	EnqueueTimeout time.Duration `json:"enqueue_timeout"`
	MaxRetries     int           `json:"max_retries"`
	RetryDelay     time.Duration `json:"retry_delay"`
	PollInterval   time.Duration `json:"poll_interval"`
	Master         bool          `json:"master"` // only the master node drains the queue into the store
	ResyncInterval time.Duration `json:"resync_interval"`
}

type AuthConfig struct {
	JWTSecret string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

// RateLimitConfig bounds relationship writes per account
type RateLimitConfig struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
	Burst    int           `json:"burst"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `json:"level"` // debug, info, warn, error
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			GRPCPort:    getEnv("GRPC_PORT", "7005"),
			AdminPort:   getEnv("ADMIN_PORT", "8085"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", ""),
			Username:     getEnv("DB_USER", "gofriends"),
			Password:     getEnv("DB_PASSWORD", ""),
			DatabaseName: getEnv("DB_NAME", "gofriends"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USERNAME", ""),
			Password: getEnv("MONGO_PASSWORD", ""),
			Database: getEnv("MONGO_DATABASE", "gofriends"),
		},
		Sync: SyncConfig{
			Backend:        strings.ToLower(getEnv("SYNC_BACKEND", "memory")),
			Shards:         getEnvAsInt("SYNC_SHARDS", 8),
			BufferSize:     getEnvAsInt("SYNC_BUFFER_SIZE", 1000),
			EnqueueTimeout: getEnvAsDuration("SYNC_ENQUEUE_TIMEOUT", 2*time.Second),
			MaxRetries:     getEnvAsInt("SYNC_MAX_RETRIES", 3),
			RetryDelay:     getEnvAsDuration("SYNC_RETRY_DELAY", 500*time.Millisecond),
			PollInterval:   getEnvAsDuration("SYNC_POLL_INTERVAL", 250*time.Millisecond),
			Master:         getEnvAsBool("SYNC_MASTER", true),
			ResyncInterval: getEnvAsDuration("SYNC_RESYNC_INTERVAL", 5*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET_KEY", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 30),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
			Burst:    getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.Database.Driver)
	}
	switch c.Sync.Backend {
	case "memory", "mongo":
	default:
		return fmt.Errorf("SYNC_BACKEND must be memory or mongo, got %q", c.Sync.Backend)
	}
	if c.Sync.Shards < 1 {
		return fmt.Errorf("SYNC_SHARDS must be at least 1")
	}
	if c.Sync.Backend == "memory" && !c.Sync.Master {
		return fmt.Errorf("SYNC_BACKEND=memory requires SYNC_MASTER=true")
	}
	if c.Sync.ResyncInterval < 0 {
		return fmt.Errorf("SYNC_RESYNC_INTERVAL must not be negative")
	}
	if c.Sync.MaxRetries < 0 {
		return fmt.Errorf("SYNC_MAX_RETRIES must not be negative")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters")
	}
	if c.IsProduction() && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) DSN() string {
	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}

	if c.Database.Driver == "postgres" {
		if c.Database.Port == "" {
			c.Database.Port = "5432"
		}
		sslMode := c.Database.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host,
			c.Database.Port,
			c.Database.Username,
			c.Database.Password,
			c.Database.DatabaseName,
			sslMode,
		)
	}

	if c.Database.Port == "" {
		c.Database.Port = "3306"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.Database.Username,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DatabaseName,
	)
}

func (c *Config) GetMongoURI() string {
	if c.MongoDB.Username != "" && c.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
			c.MongoDB.Username,
			c.MongoDB.Password,
			c.MongoDB.Host,
			c.MongoDB.Port,
			c.MongoDB.Database,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", c.MongoDB.Host, c.MongoDB.Port, c.MongoDB.Database)
}

func (c *Config) GRPCAddr() string {
	return c.Server.Host + ":" + c.Server.GRPCPort
}

func (c *Config) AdminAddr() string {
	return c.Server.Host + ":" + c.Server.AdminPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("750ms") or a bare number of milliseconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
