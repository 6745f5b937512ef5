package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilehub/membership-service/internal/infrastructure/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Port:    "0",
		Env:     "test",
		Storage: config.StorageConfig{Driver: config.StorageMemory, SeedDemo: true},
		Analytics: config.AnalyticsConfig{
			Sink:    config.SinkNop,
			Workers: 2,
			Buffer:  16,
		},
	}
}

// New registers HTTP metrics with the default registry, so the package
// builds a single App.
func TestApp_MemoryStack(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	users, err := a.Repository().FindAll(context.Background())
	if err != nil || len(users) != 10 {
		t.Fatalf("expected 10 seeded users, got %d (%v)", len(users), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	for _, target := range []string{"/health", "/health/ready", "/v1/users/1", "/v1/users", "/metrics"} {
		rec := httptest.NewRecorder()
		a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", target, rec.Code)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestBuildSink_RedisWithoutClient(t *testing.T) {
	cfg := memoryConfig()
	cfg.Analytics.Sink = config.SinkRedis
	a := &App{cfg: cfg, log: zerolog.Nop()}

	if _, err := a.buildSink(); err == nil {
		t.Fatal("expected error for redis sink without client")
	}
}

func TestBuildRepository_Latency(t *testing.T) {
	cfg := memoryConfig()
	cfg.Storage.SeedDemo = false
	cfg.Storage.Latency = 50 * time.Millisecond
	a := &App{cfg: cfg, log: zerolog.Nop()}

	repo, err := a.buildRepository(context.Background(), nil)
	if err != nil {
		t.Fatalf("build repository: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if _, err := repo.FindAll(ctx); err == nil {
		t.Fatal("expected context error from slow repository")
	}
}
