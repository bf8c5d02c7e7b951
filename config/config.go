package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Blob     BlobConfig     `mapstructure:"blob"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Media    MediaConfig    `mapstructure:"media"`
	Profile  ProfileConfig  `mapstructure:"profile"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DatabaseConfig 文档库（profiles / posts 集合）与本地用户表所在的数据库
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // postgres, sqlite
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogSQL       bool   `mapstructure:"log_sql"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BlobConfig 本地持久化 blob（帖子列表整体序列化）
type BlobConfig struct {
	Backend string `mapstructure:"backend"` // sql, redis
	Key     string `mapstructure:"key"`
	// SeedFile JSON 帖子列表，blob 为空时作为初始列表
	SeedFile string `mapstructure:"seed_file"`
}

type AuthConfig struct {
	Provider string `mapstructure:"provider"` // remote, local
	// remote provider
	Endpoint      string        `mapstructure:"endpoint"`
	TokenEndpoint string        `mapstructure:"token_endpoint"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// local provider
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type MediaConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	CloudName    string        `mapstructure:"cloud_name"`
	UploadPreset string        `mapstructure:"upload_preset"`
	MaxFiles     int           `mapstructure:"max_files"`
	MaxFileSize  int64         `mapstructure:"max_file_size"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UploadRPS    float64       `mapstructure:"upload_rps"`
	UploadBurst  int           `mapstructure:"upload_burst"`
}

type ProfileConfig struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	DefaultName   string        `mapstructure:"default_name"`
	DefaultAvatar string        `mapstructure:"default_avatar"`
}

type SentryConfig struct {
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "social-feed.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("blob.backend", "sql")
	v.SetDefault("blob.key", "socialMediaPosts")

	v.SetDefault("auth.provider", "local")
	v.SetDefault("auth.endpoint", "https://identitytoolkit.googleapis.com/v1")
	v.SetDefault("auth.token_endpoint", "https://securetoken.googleapis.com/v1")
	v.SetDefault("auth.timeout", 10*time.Second)
	v.SetDefault("auth.token_ttl", time.Hour)

	v.SetDefault("media.base_url", "https://api.cloudinary.com")
	v.SetDefault("media.upload_preset", "WebApp")
	v.SetDefault("media.max_files", 5)
	v.SetDefault("media.max_file_size", 10*1024*1024)
	v.SetDefault("media.timeout", 60*time.Second)
	v.SetDefault("media.upload_rps", 10.0)
	v.SetDefault("media.upload_burst", 5)

	v.SetDefault("profile.cache_ttl", 10*time.Minute)
	v.SetDefault("profile.default_name", "Current User")
	v.SetDefault("profile.default_avatar", "https://randomuser.me/api/portraits/women/68.jpg")

	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	v.SetDefault("tracing.service_name", "social-feed")
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// bindEnv 没有默认值的 key 也要绑定，否则 Unmarshal 看不到 APP_ 环境变量。需在 SetEnvPrefix 之后调用
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"database.log_sql", "redis.password", "redis.db", "blob.seed_file",
		"auth.api_key", "auth.jwt_secret", "media.cloud_name",
		"sentry.dsn", "tracing.enabled", "tracing.endpoint", "tracing.insecure",
	} {
		_ = v.BindEnv(key)
	}
}

// Load 读取配置：.env -> config.yaml -> APP_ 环境变量（后者覆盖前者）
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验互相依赖的配置项
func (c *Config) Validate() error {
	switch c.Auth.Provider {
	case "local":
		if c.Auth.JWTSecret == "" {
			return errors.New("auth.jwt_secret is required for the local provider")
		}
	case "remote":
		if c.Auth.APIKey == "" {
			return errors.New("auth.api_key is required for the remote provider")
		}
	default:
		return fmt.Errorf("unknown auth.provider %q", c.Auth.Provider)
	}
	switch c.Blob.Backend {
	case "sql", "redis":
	default:
		return fmt.Errorf("unknown blob.backend %q", c.Blob.Backend)
	}
	if c.Blob.Key == "" {
		return errors.New("blob.key must not be empty")
	}
	if c.Media.MaxFiles <= 0 {
		return errors.New("media.max_files must be positive")
	}
	return nil
}
