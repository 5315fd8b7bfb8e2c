package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/botanica-backend/internal/config"
	"github.com/yungbote/botanica-backend/internal/data/db"
	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
	"github.com/yungbote/botanica-backend/internal/realtime/bus"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(config.WithConfigPaths(t.TempDir()), config.WithEnvFile(""))
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return fmt.Sprint(l.Addr().(*net.TCPAddr).Port)
}

func TestResolveStorage_Memory(t *testing.T) {
	cfg := testConfig(t)
	s, err := resolveStorage(context.Background(), logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("resolveStorage: %v", err)
	}
	defer s.Close()
	p, err := s.GetProduct(context.Background(), seed.ID("product", "marula-face-oil"))
	if err != nil || p == nil {
		t.Fatalf("seeded product missing: p=%v err=%v", p, err)
	}
}

func TestResolveStorage_SQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendDB
	cfg.Postgres.Driver = db.DriverSQLite
	cfg.Postgres.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	s, err := resolveStorage(context.Background(), logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("resolveStorage: %v", err)
	}
	defer s.Close()
	products, err := s.ListProducts(context.Background(), store.ProductFilter{})
	if err != nil || len(products) == 0 {
		t.Fatalf("seeded catalog missing: n=%d err=%v", len(products), err)
	}
}

func TestResolveStorage_ConnectFailed(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = config.BackendDB
	cfg.Postgres.Driver = "oracle"

	_, err := resolveStorage(context.Background(), logger.Nop(), cfg)
	var got *StorageBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageBootstrapError, got=%T", err)
	}
	if got.Code != StorageBootstrapErrorConnectFailed || storageBootstrapErrorCode(err) != StorageBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", StorageBootstrapErrorConnectFailed, got.Code)
	}
	if !strings.Contains(err.Error(), `driver="oracle"`) {
		t.Fatalf("error should name the driver: %v", err)
	}
}

func TestResolveStorage_InvalidBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend = "cassandra"

	_, err := resolveStorage(context.Background(), logger.Nop(), cfg)
	if storageBootstrapErrorCode(err) != StorageBootstrapErrorInvalidBackend {
		t.Fatalf("code: want=%q got=%q", StorageBootstrapErrorInvalidBackend, storageBootstrapErrorCode(err))
	}
}

func TestStorageBootstrapErrorCode_DefaultsToConnectFailed(t *testing.T) {
	if got := storageBootstrapErrorCode(errors.New("boom")); got != StorageBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", StorageBootstrapErrorConnectFailed, got)
	}
}

func TestWireBus_RedisFailureIsReported(t *testing.T) {
	orig := newRedisBus
	t.Cleanup(func() { newRedisBus = orig })
	newRedisBus = func(ctx context.Context, log *logger.Logger, opts bus.RedisOptions) (bus.Bus, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	cfg := testConfig(t)
	cfg.Redis.Addr = "redis:6379"
	if _, err := wireBus(context.Background(), logger.Nop(), cfg); err == nil || !strings.Contains(err.Error(), "init redis SSE bus") {
		t.Fatalf("expected wrapped redis error, got %v", err)
	}

	cfg.Redis.Addr = ""
	b, err := wireBus(context.Background(), logger.Nop(), cfg)
	if err != nil || b == nil {
		t.Fatalf("local bus: b=%v err=%v", b, err)
	}
}

func TestApp_RunServesUntilCancelled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Port = freePort(t)

	a, err := NewWithLogger(context.Background(), logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	url := "http://127.0.0.1:" + cfg.Port + "/healthcheck"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthcheck: %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(20 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
