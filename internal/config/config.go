package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GatewayConfig struct {
	BaseURL         string
	Timeout         time.Duration
	FeaturedStudent string
}

type ReviewConfig struct {
	Backend  string
	Key      string
	FilePath string
	Notify   bool
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type SecurityConfig struct {
	SessionSecret  string
	SessionTTL     time.Duration
	TicketTTL      time.Duration
	SnapshotSecret string
	SecureCookies  bool
}

type JobsConfig struct {
	Enabled          bool
	SnapshotSchedule string
	BacklogSchedule  string
}

type WorkerConfig struct {
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Gateway          GatewayConfig
	Review           ReviewConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Jobs             JobsConfig
	Worker           WorkerConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

var (
	ErrMissingSetting = errors.New("missing required setting")
	ErrInvalidSetting = errors.New("invalid setting")
)

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("SYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the selected backends cannot start without.
func (c *AppConfig) Validate() error {
	switch c.Review.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Review.FilePath == "" {
			return fmt.Errorf("review.filepath: %w", ErrMissingSetting)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr: %w", ErrMissingSetting)
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn: %w", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("unknown review backend %q", c.Review.Backend)
	}

	if c.Review.Key == "" {
		return fmt.Errorf("review.key: %w", ErrMissingSetting)
	}
	if c.Security.SessionSecret == "" {
		return fmt.Errorf("security.sessionsecret: %w", ErrMissingSetting)
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway.timeout must be positive: %w", ErrInvalidSetting)
	}
	if c.Worker.ClaimInterval <= 0 {
		return fmt.Errorf("worker.claiminterval must be positive: %w", ErrInvalidSetting)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("gateway.baseurl", "http://localhost:5000/api")
	v.SetDefault("gateway.timeout", "5s")
	v.SetDefault("gateway.featuredstudent", "20241156")

	v.SetDefault("review.backend", BackendFile)
	v.SetDefault("review.key", "pendingCerts")
	v.SetDefault("review.filepath", "./data/pending_review.json")
	v.SetDefault("review.notify", false)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 10)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "review:events")

	v.SetDefault("storage.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "sync-review-snapshots")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.sessionsecret", "dev-session-secret-change-me")
	v.SetDefault("security.sessionttl", "8h")
	v.SetDefault("security.ticketttl", "5m")
	v.SetDefault("security.snapshotsecret", "dev-snapshot-secret-change-me")
	v.SetDefault("security.securecookies", false)

	v.SetDefault("jobs.enabled", false)
	v.SetDefault("jobs.snapshotschedule", "0 0 0 * * *")
	v.SetDefault("jobs.backlogschedule", "0 0 */1 * * *") // hourly

	v.SetDefault("worker.group", "review-workers")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.claiminterval", "10s")

	v.SetDefault("logging.level", "")
	v.SetDefault("allowcorsorigins", "")
}
