package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Storage.Driver != StorageMemory || !cfg.Storage.SeedDemo || cfg.Storage.Latency != 0 {
		t.Errorf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Redis.Enabled() || cfg.Redis.ProfileTTL != 5*time.Minute {
		t.Errorf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Analytics.Sink != SinkLog || cfg.Analytics.Stream != "analytics:events" ||
		cfg.Analytics.Workers != 4 || cfg.Analytics.Buffer != 256 {
		t.Errorf("unexpected analytics defaults: %+v", cfg.Analytics)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":               "9090",
		"STORAGE_DRIVER":     "mongo",
		"MONGO_DB":           "profiles",
		"REDIS_ADDR":         "localhost:6379",
		"PROFILE_CACHE_TTL":  "30s",
		"ANALYTICS_SINK":     "redis",
		"REPOSITORY_LATENCY": "150ms",
		"LOG_PRETTY":         "true",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "9090" || !cfg.LogPretty {
		t.Errorf("server overrides not applied: %+v", cfg)
	}
	if cfg.Storage.Driver != StorageMongo || cfg.Mongo.Database != "profiles" || cfg.Storage.Latency != 150*time.Millisecond {
		t.Errorf("storage overrides not applied: %+v %+v", cfg.Storage, cfg.Mongo)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.ProfileTTL != 30*time.Second || cfg.Analytics.Sink != SinkRedis {
		t.Errorf("redis overrides not applied: %+v %+v", cfg.Redis, cfg.Analytics)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":          {"STORAGE_DRIVER": "postgres"},
		"unknown sink":            {"ANALYTICS_SINK": "kafka"},
		"redis sink without addr": {"ANALYTICS_SINK": "redis"},
		"zero workers":            {"ANALYTICS_WORKERS": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := load(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
