// Package dbstore implements Storage over gorm. It runs against postgres in
// production and sqlite in development and tests, so queries stay within the
// SQL both dialects accept.
package dbstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/data/store/seed"
	"github.com/yungbote/botanica-backend/internal/platform/logger"
)

var _ store.Storage = (*Store)(nil)

// casAttempts bounds compare-and-swap retries on contended rows.
const casAttempts = 8

var errCASExhausted = errors.New("row contended: compare-and-swap retries exhausted")

type Store struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(db *gorm.DB, baseLog *logger.Logger, opts ...Option) *Store {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	s := &Store{db: db, log: baseLog.With("store", "dbstore"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) clock() time.Time { return s.now().UTC() }

// Seed inserts the fixtures, skipping rows that already exist.
func (s *Store) Seed(ctx context.Context, fx *seed.Fixtures) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name string
			rows any
			n    int
		}{
			{"products", fx.Products, len(fx.Products)},
			{"inventory", fx.Inventory, len(fx.Inventory)},
			{"community projects", fx.CommunityProjects, len(fx.CommunityProjects)},
			{"live updates", fx.LiveUpdates, len(fx.LiveUpdates)},
			{"milestones", fx.Milestones, len(fx.Milestones)},
			{"learning modules", fx.LearningModules, len(fx.LearningModules)},
			{"badges", fx.Badges, len(fx.Badges)},
			{"journey stages", fx.JourneyStages, len(fx.JourneyStages)},
			{"global plants", fx.GlobalPlants, len(fx.GlobalPlants)},
			{"users", fx.Users, len(fx.Users)},
		}
		for _, step := range steps {
			if step.n == 0 {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(step.rows).Error; err != nil {
				return fmt.Errorf("seed %s: %w", step.name, err)
			}
		}
		s.log.Info("Seeded database", "products", len(fx.Products), "projects", len(fx.CommunityProjects))
		return nil
	})
}

// first loads one row into dst, reporting a missing row as found=false.
func first(q *gorm.DB, dst any) (bool, error) {
	err := q.Take(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// isUniqueViolation recognizes duplicate-key failures from postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func conflict(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", store.ErrConflict, err)
	}
	return err
}

// locked adds FOR UPDATE on postgres. sqlite serializes writers on its single
// connection, so the clause is omitted there.
func (s *Store) locked(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// validID reports whether id can be compared against a uuid column; postgres
// rejects malformed uuid literals.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
