package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	MongoURI         string        `mapstructure:"MONGODB_URI"`
	MongoDatabase    string        `mapstructure:"MONGODB_DATABASE"`
	RedisEnabled     bool          `mapstructure:"REDIS_ENABLED"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	JWTExpiresIn     time.Duration `mapstructure:"JWT_EXPIRES_IN"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	EmailEnabled     bool          `mapstructure:"EMAIL_ENABLED"`
	SMTPHost         string        `mapstructure:"SMTP_HOST"`
	SMTPPort         int           `mapstructure:"SMTP_PORT"`
	SMTPUser         string        `mapstructure:"SMTP_USER"`
	SMTPPass         string        `mapstructure:"SMTP_PASS"`
	SMTPFrom         string        `mapstructure:"SMTP_FROM"`
	LoginRateLimit   int           `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindow  time.Duration `mapstructure:"LOGIN_RATE_WINDOW"`
	JobsEnabled      bool          `mapstructure:"JOBS_ENABLED"`
	AdminEmailDomain string        `mapstructure:"ADMIN_EMAIL_DOMAIN"`
}

var (
	current *Config
	mu      sync.RWMutex
)

var keys = []string{
	"PORT", "ENV", "MONGODB_URI", "MONGODB_DATABASE",
	"REDIS_ENABLED", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL",
	"JWT_SECRET", "JWT_EXPIRES_IN", "CORS_ORIGINS",
	"EMAIL_ENABLED", "SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
	"LOGIN_RATE_LIMIT", "LOGIN_RATE_WINDOW", "JOBS_ENABLED", "ADMIN_EMAIL_DOMAIN",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "medicare")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("JWT_EXPIRES_IN", "168h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("EMAIL_ENABLED", false)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "15m")
	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("ADMIN_EMAIL_DOMAIN", "@gmail.com")
}

/*
* Load .env into the process environment
* Read every key through viper with defaults
* Validate before handing it out
 */
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		log.Error().Err(err).Msg("unable to decode configuration")
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitOrigins(cfg.CORSOrigins, v.GetString("CORS_ORIGINS"))

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return nil, err
	}
	Set(cfg)
	return cfg, nil
}

func splitOrigins(decoded []string, raw string) []string {
	if len(decoded) > 0 {
		raw = strings.Join(decoded, ",")
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI is required")
	}
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn)
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return errors.New("SMTP_HOST is required when EMAIL_ENABLED is true")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Defaults returns the configuration used when nothing has been loaded.
func Defaults() *Config {
	return &Config{
		Port:             "5000",
		Env:              "development",
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "medicare",
		RedisAddr:        "localhost:6379",
		CacheTTL:         10 * time.Minute,
		JWTExpiresIn:     7 * 24 * time.Hour,
		CORSOrigins:      []string{"*"},
		SMTPPort:         587,
		LoginRateLimit:   10,
		LoginRateWindow:  15 * time.Minute,
		JobsEnabled:      true,
		AdminEmailDomain: "@gmail.com",
	}
}

func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
}

func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return Defaults()
	}
	return current
}
