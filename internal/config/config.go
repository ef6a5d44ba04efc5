package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Session   SessionConfig
	Chat      ChatConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Bootstrap BootstrapConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    int
	Version string
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int32
	AutoMigrate bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig holds MinIO / S3 compatible object storage settings
type StorageConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	UseSSL         bool
	Bucket         string
	MaxUploadBytes int64
	PresignExpiry  time.Duration
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
	CookieDomain string
}

// ChatConfig holds the chat messaging provider settings. An empty ChannelToken
// disables outbound messages.
type ChatConfig struct {
	ChannelSecret        string
	ChannelToken         string
	APIBaseURL           string
	Timeout              time.Duration
	BroadcastConcurrency int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// BootstrapConfig names the platform operator created on an empty database
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
}

type SchedulerConfig struct {
	Enabled  bool
	Timezone string
}

// IsProduction reports whether the app runs with env=production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Load reads configuration from (highest priority first):
// 1. environment variables with DORM_ prefix (e.g. DORM_DATABASE_URL)
// 2. config.yaml
// 3. built-in defaults
//
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dormdesk")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("DORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dormdesk")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.access_key", "minioadmin")
	v.SetDefault("storage.secret_key", "minioadmin")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "dormdesk-documents")
	v.SetDefault("storage.max_upload_bytes", 10<<20)
	v.SetDefault("storage.presign_expiry", 15*time.Minute)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("session.cookie_name", "dormdesk_session")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.cookie_domain", "")

	v.SetDefault("chat.channel_secret", "")
	v.SetDefault("chat.channel_token", "")
	v.SetDefault("chat.api_base_url", "https://api.line.me")
	v.SetDefault("chat.timeout", 10*time.Second)
	v.SetDefault("chat.broadcast_concurrency", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.timezone", "Asia/Bangkok")

	v.SetDefault("bootstrap.admin_email", "")
	v.SetDefault("bootstrap.admin_password", "")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:    v.GetString("app.name"),
			Env:     v.GetString("app.env"),
			Port:    v.GetInt("app.port"),
			Version: v.GetString("app.version"),
		},
		Database: DatabaseConfig{
			URL:         v.GetString("database.url"),
			MaxConns:    v.GetInt32("database.max_conns"),
			AutoMigrate: v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Storage: StorageConfig{
			Endpoint:       v.GetString("storage.endpoint"),
			AccessKey:      v.GetString("storage.access_key"),
			SecretKey:      v.GetString("storage.secret_key"),
			UseSSL:         v.GetBool("storage.use_ssl"),
			Bucket:         v.GetString("storage.bucket"),
			MaxUploadBytes: v.GetInt64("storage.max_upload_bytes"),
			PresignExpiry:  v.GetDuration("storage.presign_expiry"),
		},
		Session: SessionConfig{
			Secret:       v.GetString("session.secret"),
			TTL:          v.GetDuration("session.ttl"),
			CookieName:   v.GetString("session.cookie_name"),
			CookieSecure: v.GetBool("session.cookie_secure"),
			CookieDomain: v.GetString("session.cookie_domain"),
		},
		Chat: ChatConfig{
			ChannelSecret:        v.GetString("chat.channel_secret"),
			ChannelToken:         v.GetString("chat.channel_token"),
			APIBaseURL:           v.GetString("chat.api_base_url"),
			Timeout:              v.GetDuration("chat.timeout"),
			BroadcastConcurrency: v.GetInt("chat.broadcast_concurrency"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Scheduler: SchedulerConfig{
			Enabled:  v.GetBool("scheduler.enabled"),
			Timezone: v.GetString("scheduler.timezone"),
		},
		Bootstrap: BootstrapConfig{
			AdminEmail:    v.GetString("bootstrap.admin_email"),
			AdminPassword: v.GetString("bootstrap.admin_password"),
		},
	}
}

// Validate checks the settings the service cannot start without
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required (DORM_DATABASE_URL)")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.IsProduction() && len(c.Session.Secret) < 32 {
		return errors.New("session.secret must be at least 32 bytes in production")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid app.port %d", c.App.Port)
	}
	if c.Bootstrap.AdminEmail != "" && len(c.Bootstrap.AdminPassword) < 8 {
		return errors.New("bootstrap.admin_password must be at least 8 characters")
	}
	if c.Chat.BroadcastConcurrency <= 0 {
		c.Chat.BroadcastConcurrency = 1
	}
	return nil
}
