package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/botanica-backend/internal/config"
	"github.com/yungbote/botanica-backend/internal/data/db"
	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/data/store/dbstore"
	"github.com/yungbote/botanica-backend/internal/data/store/memstore"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

var openDB = db.Open

type StorageBootstrapErrorCode string

const (
	StorageBootstrapErrorInvalidBackend StorageBootstrapErrorCode = "invalid_backend"
	StorageBootstrapErrorConnectFailed  StorageBootstrapErrorCode = "connect_failed"
	StorageBootstrapErrorMigrateFailed  StorageBootstrapErrorCode = "migrate_failed"
	StorageBootstrapErrorSeedFailed     StorageBootstrapErrorCode = "seed_failed"
)

type StorageBootstrapError struct {
	Code    StorageBootstrapErrorCode
	Backend string
	Driver  string
	Cause   error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "storage bootstrap failed"
	}
	return fmt.Sprintf(
		"storage bootstrap failed (code=%s backend=%q driver=%q): %v",
		e.Code,
		e.Backend,
		e.Driver,
		e.Cause,
	)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func dbOptions(cfg *config.Config) db.Options {
	return db.Options{
		Driver:   cfg.Postgres.Driver,
		DSN:      cfg.Postgres.DSN,
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Name:     cfg.Postgres.Name,
	}
}

// resolveStorage builds the configured backend. The db backend is migrated on
// every start and seeded when cfg.Storage.Seed is set.
func resolveStorage(ctx context.Context, log *logger.Logger, cfg *config.Config) (store.Storage, error) {
	backend := cfg.Storage.Backend
	switch backend {
	case config.BackendMemory:
		log.Info("Selecting storage backend", "backend", backend, "seed", cfg.Storage.Seed)
		opts := []memstore.Option{memstore.WithLogger(log)}
		if !cfg.Storage.Seed {
			opts = append(opts, memstore.WithoutSeed())
		}
		s, err := memstore.New(opts...)
		if err != nil {
			return nil, bootstrapFailure(log, &StorageBootstrapError{Code: StorageBootstrapErrorSeedFailed, Backend: backend, Cause: err})
		}
		return s, nil

	case config.BackendDB:
		opts := dbOptions(cfg)
		log.Info("Selecting storage backend", "backend", backend, "driver", opts.Driver, "seed", cfg.Storage.Seed)
		svc, err := openDB(log, opts)
		if err != nil {
			return nil, bootstrapFailure(log, &StorageBootstrapError{Code: StorageBootstrapErrorConnectFailed, Backend: backend, Driver: opts.Driver, Cause: err})
		}
		if err := db.Migrate(svc.DB()); err != nil {
			_ = svc.Close()
			return nil, bootstrapFailure(log, &StorageBootstrapError{Code: StorageBootstrapErrorMigrateFailed, Backend: backend, Driver: svc.Driver(), Cause: err})
		}
		s := dbstore.New(svc.DB(), log)
		if cfg.Storage.Seed {
			if err := seedStore(ctx, s); err != nil {
				_ = s.Close()
				return nil, bootstrapFailure(log, &StorageBootstrapError{Code: StorageBootstrapErrorSeedFailed, Backend: backend, Driver: svc.Driver(), Cause: err})
			}
		}
		return s, nil

	default:
		return nil, bootstrapFailure(log, &StorageBootstrapError{
			Code:    StorageBootstrapErrorInvalidBackend,
			Backend: backend,
			Cause:   fmt.Errorf("unsupported storage backend %q", backend),
		})
	}
}

func seedStore(ctx context.Context, s *dbstore.Store) error {
	fx, err := seed.Load(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	return s.Seed(ctx, fx)
}

func bootstrapFailure(log *logger.Logger, err *StorageBootstrapError) error {
	log.Error(
		"Storage bootstrap failed",
		"backend", err.Backend,
		"driver", err.Driver,
		"error_code", err.Code,
		"error", err.Cause,
	)
	return err
}

func storageBootstrapErrorCode(err error) StorageBootstrapErrorCode {
	var bootstrapErr *StorageBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageBootstrapErrorConnectFailed
}
