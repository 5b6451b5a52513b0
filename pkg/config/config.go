package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers understood by the KV layer.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store       StoreConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	Credentials CredentialConfig
	Quiz        QuizConfig
	Seed        SeedConfig
	CORS        CORSConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// StoreConfig selects the key-value backend.
type StoreConfig struct {
	Driver         string
	ConnectTimeout time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig governs opaque session tokens and their cookie transport.
type SessionConfig struct {
	TTL              time.Duration
	RotateAfter      time.Duration
	CookieName       string
	LegacyCookieName string
	CookieSecure     bool
}

// CredentialConfig tunes password derivation.
type CredentialConfig struct {
	Iterations int
}

// QuizConfig bounds the lifetime of in-flight quiz attempts.
type QuizConfig struct {
	AttemptTTL time.Duration
}

// SeedConfig controls bootstrap accounts.
type SeedConfig struct {
	Enabled  bool
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:         strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		ConnectTimeout: parseDuration(v.GetString("STORE_CONNECT_TIMEOUT"), 5*time.Second),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		TTL:              parseDuration(v.GetString("SESSION_TTL"), 7*24*time.Hour),
		RotateAfter:      parseDuration(v.GetString("SESSION_ROTATE_AFTER"), 30*time.Minute),
		CookieName:       v.GetString("SESSION_COOKIE_NAME"),
		LegacyCookieName: v.GetString("SESSION_LEGACY_COOKIE_NAME"),
		CookieSecure:     v.GetBool("SESSION_COOKIE_SECURE"),
	}

	cfg.Credentials = CredentialConfig{Iterations: v.GetInt("PASSWORD_ITERATIONS")}

	cfg.Quiz = QuizConfig{AttemptTTL: parseDuration(v.GetString("QUIZ_ATTEMPT_TTL"), 2*time.Hour)}

	cfg.Seed = SeedConfig{
		Enabled:  v.GetBool("SEED_ENABLED"),
		Password: v.GetString("SEED_PASSWORD"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("STORE_CONNECT_TIMEOUT", "5s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "bw_lms")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("SESSION_ROTATE_AFTER", "30m")
	v.SetDefault("SESSION_COOKIE_NAME", "bw_session")
	v.SetDefault("SESSION_LEGACY_COOKIE_NAME", "bw_sess")
	v.SetDefault("SESSION_COOKIE_SECURE", true)

	v.SetDefault("PASSWORD_ITERATIONS", 100000)
	v.SetDefault("QUIZ_ATTEMPT_TTL", "2h")

	v.SetDefault("SEED_ENABLED", true)
	v.SetDefault("SEED_PASSWORD", "BrightWaves!2024")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
}

// isMissingFile reports whether viper failed only because the explicit .env path does not exist.
func isMissingFile(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
