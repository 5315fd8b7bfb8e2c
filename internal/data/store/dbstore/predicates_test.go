package dbstore

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/botanica-backend/internal/data/store"
	"github.com/yungbote/botanica-backend/internal/domain"
)

func mockDB(t *testing.T, dryRun bool) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DryRun:                 dryRun,
		SkipDefaultTransaction: true,
		Logger:                 gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return gdb, mock
}

func TestProductPredicates_SQL(t *testing.T) {
	gdb, _ := mockDB(t, true)
	lo := decimal.NewFromInt(10)
	f := store.ProductFilter{
		Category:      ptr("Supplements"),
		Search:        ptr("100%_pure"),
		MinPrice:      &lo,
		Certification: ptr("Organic"),
	}
	var out []*domain.Product
	stmt := productPredicates(f).apply(gdb.Model(&domain.Product{})).Find(&out).Statement
	sql := stmt.SQL.String()

	require.Contains(t, sql, `LOWER(category) = $1`)
	require.Contains(t, sql, `LOWER(name) LIKE $`)
	require.Contains(t, sql, `OR LOWER(plant_material) LIKE $`)
	require.Contains(t, sql, `price >= $`)
	require.Contains(t, sql, `LOWER(CAST(certifications AS TEXT)) LIKE $`)
	require.Equal(t, []any{
		"supplements",
		float64(10),
		`%100\%\_pure%`, `%100\%\_pure%`, `%100\%\_pure%`,
		`%"organic"%`,
	}, stmt.Vars)
}

func TestPredicates_AbsentFieldsAddNothing(t *testing.T) {
	p := productPredicates(store.ProductFilter{})
	require.Empty(t, p.clauses)

	var q predicates
	q.present("research_references", nil)
	q.eqFold("continent", nil)
	q.containsAny([]string{"a", "b"}, nil)
	require.Empty(t, q.clauses)

	q.present("research_references", ptr(false))
	require.Equal(t, "research_references IS NULL", q.clauses[0].sql)
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"Rooibos": "%rooibos%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`c:\dir`:  `%c:\\dir%`,
	}
	for in, want := range cases {
		if got := likePattern(in); got != want {
			t.Fatalf("likePattern(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestGetProduct_PropagatesDriverErrors(t *testing.T) {
	gdb, mock := mockDB(t, false)
	mock.ExpectQuery(`SELECT \* FROM "product"`).WillReturnError(errors.New("connection reset"))

	s := New(gdb, nil)
	p, err := s.GetProduct(t.Context(), "5f0c5b9e-6f4e-4a39-9a55-8f3b1d2f0a11")
	require.Error(t, err)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProduct_MissingRowIsNil(t *testing.T) {
	gdb, mock := mockDB(t, false)
	mock.ExpectQuery(`SELECT \* FROM "product"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s := New(gdb, nil)
	p, err := s.GetProduct(t.Context(), "5f0c5b9e-6f4e-4a39-9a55-8f3b1d2f0a11")
	require.NoError(t, err)
	require.Nil(t, p)
}

func TestGetProduct_MalformedIDSkipsQuery(t *testing.T) {
	gdb, mock := mockDB(t, false)
	s := New(gdb, nil)
	p, err := s.GetProduct(t.Context(), "not-a-uuid")
	require.NoError(t, err)
	require.Nil(t, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	require.True(t, isUniqueViolation(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)))
	require.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: app_user.email")))
	require.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, isUniqueViolation(nil))

	err := conflict(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, err, store.ErrConflict)
	require.True(t, strings.HasPrefix(err.Error(), store.ErrConflict.Error()))
}

func ptr[T any](v T) *T { return &v }
