package dbstore

import (
	"context"
	"fmt"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/botanica-backend/internal/data/db"
	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/data/store/storetest"
	"github.com/yungbote/botanica-backend/internal/domain"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

// newSQLite opens a private in-memory database, migrated and seeded.
func newSQLite(t *testing.T, now func() time.Time) *Store {
	t.Helper()
	logg, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc, err := db.Open(logg, db.Options{
		Driver:   db.DriverSQLite,
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: gormLogger.Silent,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if err := db.Migrate(svc.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	s := New(svc.DB(), logg, WithClock(now))
	fx, err := seed.Load(now())
	if err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
	if err := s.Seed(context.Background(), fx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestStore_ContractSQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Storage {
		return newSQLite(t, now)
	})
}

// The postgres run needs a disposable database; every case reseeds it.
func TestStore_ContractPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run postgres store tests")
	}
	logg, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Storage {
		svc, err := db.Open(logg, db.Options{DSN: dsn, LogLevel: gormLogger.Silent})
		if err != nil {
			t.Fatalf("open postgres: %v", err)
		}
		t.Cleanup(func() { _ = svc.Close() })
		gdb := svc.DB()
		models := domain.Models()
		slices.Reverse(models)
		for _, m := range models {
			if err := gdb.Migrator().DropTable(m); err != nil {
				t.Fatalf("drop: %v", err)
			}
		}
		if err := db.Migrate(gdb); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		s := New(gdb, logg, WithClock(now))
		fx, err := seed.Load(now())
		if err != nil {
			t.Fatalf("load fixtures: %v", err)
		}
		if err := s.Seed(context.Background(), fx); err != nil {
			t.Fatalf("seed: %v", err)
		}
		return s
	})
}

func TestSeed_Idempotent(t *testing.T) {
	s := newSQLite(t, time.Now)
	fx, err := seed.Load(time.Now())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Seed(context.Background(), fx); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	products, err := s.ListProducts(context.Background(), store.ProductFilter{})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != len(fx.Products) {
		t.Fatalf("reseeding duplicated rows: want=%d got=%d", len(fx.Products), len(products))
	}
}

func TestPing(t *testing.T) {
	s := newSQLite(t, time.Now)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
