package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// RedisConfig defines the result cache connection. An empty URL disables
// Redis and the service falls back to in-process state.
type RedisConfig struct {
	URL       string
	KeyPrefix string
	ResultTTL time.Duration
}

func (r RedisConfig) Enabled() bool { return r.URL != "" }

// S3Config defines object storage for fetching assets and archiving reports.
type S3Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	ArchiveBucket string
	ArchivePrefix string
}

// AnalysisConfig bounds the image analysis runner.
type AnalysisConfig struct {
	Concurrency   int
	MaxImageBytes int64
	FetchTimeout  time.Duration
	SizeTolerance float64
	MaxImages     int

	// AllowLocalFiles lets analysis refs point at the server filesystem.
	AllowLocalFiles bool

	// Per asset host fetch guard.
	HostInflight   int
	HostBackoff    time.Duration
	HostMaxBackoff time.Duration
}

// AuthConfig holds the optional API key check. The hash is a bcrypt hash of
// the accepted key; empty disables auth.
type AuthConfig struct {
	APIKeyHash string
}

// Config is the top-level configuration.
type Config struct {
	Environment string
	Server      ServerConfig
	Logging     LoggingConfig
	Axiom       AxiomConfig
	Redis       RedisConfig
	S3          S3Config
	Analysis    AnalysisConfig
	Auth        AuthConfig
}

// Load reads an optional .env file, then the environment.
func Load(files ...string) Config {
	// a missing .env is fine; real deployments set the environment directly
	_ = godotenv.Load(files...)
	return FromEnv()
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{Environment: getEnv("ENVIRONMENT", "production")}

	cfg.Server = ServerConfig{
		Addr:            getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:     parseDuration(getEnv("HTTP_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout:    parseDuration(getEnv("HTTP_WRITE_TIMEOUT", "60s"), 60*time.Second),
		ShutdownTimeout: parseDuration(getEnv("HTTP_SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		MaxBodyBytes:    parseInt64(getEnv("HTTP_MAX_BODY_BYTES", "52428800"), 50<<20),
	}

	// Logging defaults
	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/printssistant.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	// Axiom defaults
	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_printssistant",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		URL:       getEnv("REDIS_URL", ""),
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "printssistant:"),
		ResultTTL: parseDuration(getEnv("RESULT_TTL", "24h"), 24*time.Hour),
	}

	cfg.S3 = S3Config{
		Region:        getEnv("AWS_REGION", "us-east-1"),
		Endpoint:      getEnv("S3_ENDPOINT", ""),
		AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		SecretKey:     getEnv("S3_SECRET_KEY", ""),
		UsePathStyle:  parseBool(getEnv("S3_USE_PATH_STYLE", "false")),
		ArchiveBucket: getEnv("S3_ARCHIVE_BUCKET", ""),
		ArchivePrefix: getEnv("S3_ARCHIVE_PREFIX", "reports/"),
	}

	cfg.Analysis = AnalysisConfig{
		Concurrency:   parseInt(getEnv("ANALYSIS_CONCURRENCY", "4"), 4),
		MaxImageBytes: parseInt64(getEnv("ANALYSIS_MAX_IMAGE_BYTES", "52428800"), 50<<20),
		FetchTimeout:  parseDuration(getEnv("ANALYSIS_FETCH_TIMEOUT", "30s"), 30*time.Second),
		SizeTolerance: parseFloat(getEnv("SIZE_TOLERANCE_INCHES", "0.1"), 0.1),
		MaxImages:     parseInt(getEnv("ANALYSIS_MAX_IMAGES", "50"), 50),

		AllowLocalFiles: parseBool(getEnv("ANALYSIS_ALLOW_LOCAL_FILES", "false")),

		HostInflight:   parseInt(getEnv("ANALYSIS_HOST_INFLIGHT", "4"), 4),
		HostBackoff:    parseDuration(getEnv("ANALYSIS_HOST_BACKOFF", "30s"), 30*time.Second),
		HostMaxBackoff: parseDuration(getEnv("ANALYSIS_HOST_MAX_BACKOFF", "5m"), 5*time.Minute),
	}
	if cfg.Analysis.Concurrency <= 0 {
		cfg.Analysis.Concurrency = 1
	}

	cfg.Auth = AuthConfig{APIKeyHash: getEnv("API_KEY_HASH", "")}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
