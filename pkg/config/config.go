package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Encryption EncryptionConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	AI         AIConfig
	Reset      ResetConfig
	Audit      AuditConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	ConnMaxIdleSeconds int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        int
	RefreshExpiryHours int
}

type EncryptionConfig struct {
	Key string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AIConfig selects the completion backend. Provider is "batgpt" (plain HTTP
// endpoint) or "gemini".
type AIConfig struct {
	Provider       string
	BaseURL        string
	Model          string
	TimeoutSeconds int
	GeminiAPIKey   string
	GeminiModel    string
}

type ResetConfig struct {
	ClientURL  string
	TTLMinutes int
	SweepCron  string
	WebhookURL string
}

type AuditConfig struct {
	DefaultLimit int
	MaxLimit     int
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

func (d *DatabaseConfig) ConnMaxIdleTime() time.Duration {
	return time.Duration(d.ConnMaxIdleSeconds) * time.Second
}

func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func (j *JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpiryHours) * time.Hour
}

func (j *JWTConfig) RefreshExpiry() time.Duration {
	return time.Duration(j.RefreshExpiryHours) * time.Hour
}

func (a *AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (r *ResetConfig) TTL() time.Duration {
	return time.Duration(r.TTLMinutes) * time.Minute
}

func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s *ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

func (s *ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5000)
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "lawconnect")
	v.SetDefault("DATABASE_PASSWORD", "lawconnect_secret")
	v.SetDefault("DATABASE_NAME", "lawconnect")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_IDLE_SECONDS", 10)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRY_HOURS", 7*24)
	v.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 30*24)
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("AI_PROVIDER", "batgpt")
	v.SetDefault("AI_BASE_URL", "https://batgpt.vercel.app/api/gpt")
	v.SetDefault("AI_MODEL", "GPT-5")
	v.SetDefault("AI_TIMEOUT_SECONDS", 30)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("RESET_TOKEN_TTL_MINUTES", 60)
	v.SetDefault("RESET_SWEEP_CRON", "0 * * * *")
	v.SetDefault("RESET_WEBHOOK_URL", "")
	v.SetDefault("AUDIT_DEFAULT_LIMIT", 20)
	v.SetDefault("AUDIT_MAX_LIMIT", 100)

	// Load from .env file if present
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Override with environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:               v.GetString("DATABASE_HOST"),
			Port:               v.GetInt("DATABASE_PORT"),
			User:               v.GetString("DATABASE_USER"),
			Password:           v.GetString("DATABASE_PASSWORD"),
			Name:               v.GetString("DATABASE_NAME"),
			SSLMode:            v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:       v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			ConnMaxIdleSeconds: v.GetInt("DATABASE_CONN_MAX_IDLE_SECONDS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			ExpiryHours:        v.GetInt("JWT_EXPIRY_HOURS"),
			RefreshExpiryHours: v.GetInt("JWT_REFRESH_EXPIRY_HOURS"),
		},
		Encryption: EncryptionConfig{
			Key: v.GetString("ENCRYPTION_KEY"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		AI: AIConfig{
			Provider:       strings.ToLower(v.GetString("AI_PROVIDER")),
			BaseURL:        v.GetString("AI_BASE_URL"),
			Model:          v.GetString("AI_MODEL"),
			TimeoutSeconds: v.GetInt("AI_TIMEOUT_SECONDS"),
			GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
			GeminiModel:    v.GetString("GEMINI_MODEL"),
		},
		Reset: ResetConfig{
			ClientURL:  strings.TrimRight(v.GetString("CLIENT_URL"), "/"),
			TTLMinutes: v.GetInt("RESET_TOKEN_TTL_MINUTES"),
			SweepCron:  v.GetString("RESET_SWEEP_CRON"),
			WebhookURL: v.GetString("RESET_WEBHOOK_URL"),
		},
		Audit: AuditConfig{
			DefaultLimit: v.GetInt("AUDIT_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("AUDIT_MAX_LIMIT"),
		},
	}

	if cfg.AI.Provider == "gemini" && cfg.AI.GeminiAPIKey == "" {
		return nil, fmt.Errorf("AI_PROVIDER=gemini requires GEMINI_API_KEY")
	}
	if cfg.Audit.DefaultLimit > cfg.Audit.MaxLimit {
		cfg.Audit.DefaultLimit = cfg.Audit.MaxLimit
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
