package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"

	SinkLog   = "log"
	SinkRedis = "redis"
	SinkNop   = "nop"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Storage   StorageConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Analytics AnalyticsConfig
}

type StorageConfig struct {
	Driver   string        `env:"STORAGE_DRIVER,     default=memory"`
	SeedDemo bool          `env:"SEED_DEMO_DATA,     default=true"`
	Latency  time.Duration `env:"REPOSITORY_LATENCY, default=0s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=membership"`
}

// RedisConfig is optional: an empty Addr disables the profile cache and the
// redis analytics sink.
type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR"`
	Password   string        `env:"REDIS_PASSWORD"`
	DB         int           `env:"REDIS_DB,          default=0"`
	ProfileTTL time.Duration `env:"PROFILE_CACHE_TTL, default=5m"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type AnalyticsConfig struct {
	Sink    string `env:"ANALYTICS_SINK,    default=log"`
	Stream  string `env:"ANALYTICS_STREAM,  default=analytics:events"`
	Workers int    `env:"ANALYTICS_WORKERS, default=4"`
	Buffer  int    `env:"ANALYTICS_BUFFER,  default=256"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates the result.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageMongo:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Analytics.Sink {
	case SinkLog, SinkNop:
	case SinkRedis:
		if !c.Redis.Enabled() {
			return fmt.Errorf("config: ANALYTICS_SINK=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unknown ANALYTICS_SINK %q", c.Analytics.Sink)
	}

	if c.Storage.Driver == StorageMongo && c.Mongo.URI == "" {
		return fmt.Errorf("config: STORAGE_DRIVER=mongo requires MONGO_URI")
	}
	if c.Analytics.Workers <= 0 || c.Analytics.Buffer <= 0 {
		return fmt.Errorf("config: analytics workers and buffer must be positive")
	}
	return nil
}
