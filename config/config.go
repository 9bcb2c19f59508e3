package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log       Logger    `mapstructure:"logger"`
	DB        Database  `mapstructure:"database"`
	API       API       `mapstructure:"api"`
	Cache     Cache     `mapstructure:"cache"`
	Auth      Auth      `mapstructure:"auth"`
	PriceFeed PriceFeed `mapstructure:"price_feed"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

// DSN returns the keyword/value connection string used by the gorm driver.
func (d Database) DSN() string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.DBName, d.Port, d.SSLMode)
	if d.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", d.TimeZone)
	}
	return dsn
}

// URL returns the postgres:// form expected by golang-migrate.
func (d Database) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
		d.SSLMode)
}

type API struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimit     `mapstructure:"rate_limit"`
}

type RateLimit struct {
	RequestPerSecond float64       `mapstructure:"request_per_second"`
	Burst            int           `mapstructure:"burst"`
	ExpiresIn        time.Duration `mapstructure:"expires_in"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	SecurityListing   time.Duration `mapstructure:"security_listing"`
}

type Auth struct {
	JWTSecret             string        `mapstructure:"jwt_secret"`
	JWTIssuer             string        `mapstructure:"jwt_issuer"`
	TokenExpiration       time.Duration `mapstructure:"token_expiration"`
	MaxLoginPerMinute     int           `mapstructure:"max_login_per_minute"`
	MaxLoginBurst         int           `mapstructure:"max_login_burst"`
	LoginLimiterTTL       time.Duration `mapstructure:"login_limiter_ttl"`
	PasswordHashCostLevel int           `mapstructure:"password_hash_cost"`
}

type PriceFeed struct {
	Enabled             bool          `mapstructure:"enabled"`
	Schedule            string        `mapstructure:"schedule"`
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxConcurrency      int           `mapstructure:"max_concurrency"`
	TickerSuffix        string        `mapstructure:"ticker_suffix"`
	HistoryRetention    time.Duration `mapstructure:"history_retention"`
	RetryCount          int           `mapstructure:"retry_count"`
	RetryWait           time.Duration `mapstructure:"retry_wait"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.log_level", "Warn")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.shutdown_timeout", 10*time.Second)
	v.SetDefault("api.rate_limit.request_per_second", 10)
	v.SetDefault("api.rate_limit.burst", 30)
	v.SetDefault("api.rate_limit.expires_in", 3*time.Minute)
	v.SetDefault("cache.default_expiration", 5*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.security_listing", time.Minute)
	v.SetDefault("auth.jwt_issuer", "portfolio-tracker")
	v.SetDefault("auth.token_expiration", 24*time.Hour)
	v.SetDefault("auth.max_login_per_minute", 30)
	v.SetDefault("auth.max_login_burst", 5)
	v.SetDefault("auth.login_limiter_ttl", 30*time.Minute)
	v.SetDefault("price_feed.schedule", "*/15 * * * *")
	v.SetDefault("price_feed.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	v.SetDefault("price_feed.timeout", 10*time.Second)
	v.SetDefault("price_feed.max_request_per_minute", 60)
	v.SetDefault("price_feed.max_concurrency", 4)
	v.SetDefault("price_feed.history_retention", 30*24*time.Hour)
	v.SetDefault("price_feed.retry_count", 2)
	v.SetDefault("price_feed.retry_wait", 500*time.Millisecond)
}

// Load reads config.yaml from the working directory (or the file given in path)
// and overlays environment variables, e.g. DATABASE_HOST for database.host.
func Load(path ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if len(path) > 0 && path[0] != "" {
		v.SetConfigFile(path[0])
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"database.host", "database.user", "database.password", "database.name",
		"auth.jwt_secret", "price_feed.enabled",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
