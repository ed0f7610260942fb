package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
	LogDir      string // optional; logs also go to a session file here
	Version     string

	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	APIKey      string // API key for /api/v1
	AdminAPIKey string // extra key for /api/v1/admin
	CORSOrigins []string
	// Proxies whose X-Forwarded-For is trusted for client IPs
	TrustedProxies []string

	// Upstream channel API
	KickAPIBaseURL     string
	KickHTTPTimeout    time.Duration
	KickMaxAttempts    int
	KickInitialBackoff time.Duration

	// Scheduled tasks
	StatusPollInterval     time.Duration
	SettlementPollInterval time.Duration
	FeaturedHandles        []string
	WorkerCount            int
	MigrateOnStart         bool

	// Rewards
	WinBonus           int64
	ParticipationBonus int64
	PredictionDuration time.Duration

	// Optional integrations
	RedisURL               string
	DiscordBotToken        string
	DiscordNotifyChannelID string
	OTLPEndpoint           string
	DeadLetterPath         string
	EventMaxRetries        int
	EventRetryDelay        time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", DefaultEnvironment),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		LogDir:      getEnv("LOG_DIR", ""),
		Version:     getEnv("APP_VERSION", DefaultVersion),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "ssbwatch"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		APIKey:      getEnv("API_KEY", ""),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),

		TrustedProxies: getEnvAsList("TRUSTED_PROXIES", nil),

		KickAPIBaseURL:     strings.TrimRight(getEnv("KICK_API_BASE_URL", DefaultKickAPIBaseURL), "/"),
		KickHTTPTimeout:    getEnvAsDuration("KICK_HTTP_TIMEOUT", DefaultKickHTTPTimeout),
		KickMaxAttempts:    getEnvAsInt("KICK_MAX_ATTEMPTS", DefaultKickMaxAttempts),
		KickInitialBackoff: getEnvAsDuration("KICK_INITIAL_BACKOFF", DefaultKickInitialBackoff),

		StatusPollInterval:     getEnvAsDuration("STATUS_POLL_INTERVAL", DefaultPollInterval),
		SettlementPollInterval: getEnvAsDuration("SETTLEMENT_POLL_INTERVAL", DefaultPollInterval),
		FeaturedHandles:        getEnvAsList("FEATURED_HANDLES", nil),
		WorkerCount:            getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		MigrateOnStart:         getEnvAsBool("AUTO_MIGRATE", true),

		WinBonus:           int64(getEnvAsInt("WIN_BONUS", DefaultWinBonus)),
		ParticipationBonus: int64(getEnvAsInt("PARTICIPATION_BONUS", DefaultParticipationBonus)),
		PredictionDuration: getEnvAsDuration("PREDICTION_DURATION", DefaultPredictionDuration),

		RedisURL:               getEnv("REDIS_URL", ""),
		DiscordBotToken:        getEnv("DISCORD_BOT_TOKEN", ""),
		DiscordNotifyChannelID: getEnv("DISCORD_NOTIFY_CHANNEL_ID", ""),
		OTLPEndpoint:           getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		DeadLetterPath:         getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
		EventMaxRetries:        getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:        getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would make the service misbehave at runtime
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.StatusPollInterval <= 0 || c.SettlementPollInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if c.KickMaxAttempts < 1 {
		return fmt.Errorf("KICK_MAX_ATTEMPTS must be at least 1, got %d", c.KickMaxAttempts)
	}
	if c.KickHTTPTimeout <= 0 {
		return fmt.Errorf("KICK_HTTP_TIMEOUT must be positive")
	}
	if c.WinBonus < 0 || c.ParticipationBonus < 0 {
		return fmt.Errorf("bonus amounts must not be negative")
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount)
	}
	return nil
}

// IsProduction reports whether the service runs in a production environment
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return d
}

func getEnvAsBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
