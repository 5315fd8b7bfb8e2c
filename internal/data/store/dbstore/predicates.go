package dbstore

import (
	"strings"

	"gorm.io/gorm"
)

// predicates accumulates WHERE fragments for optional filter fields. Absent
// (nil) fields add nothing.
type predicates struct {
	clauses []predicate
}

type predicate struct {
	sql  string
	args []any
}

func (p *predicates) add(sql string, args ...any) {
	p.clauses = append(p.clauses, predicate{sql: sql, args: args})
}

func (p *predicates) eq(col string, v any) {
	p.add(col+" = ?", v)
}

// eqFold is case-insensitive equality.
func (p *predicates) eqFold(col string, v *string) {
	if v == nil {
		return
	}
	p.add("LOWER("+col+") = ?", strings.ToLower(*v))
}

// contains is a case-insensitive substring match, portable ILIKE.
func (p *predicates) contains(col string, v *string) {
	if v == nil {
		return
	}
	p.add(likeSQL(col), likePattern(*v))
}

// containsAny matches when any of cols contains v.
func (p *predicates) containsAny(cols []string, v *string) {
	if v == nil || len(cols) == 0 {
		return
	}
	parts := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	pattern := likePattern(*v)
	for _, c := range cols {
		parts = append(parts, likeSQL(c))
		args = append(args, pattern)
	}
	p.add("("+strings.Join(parts, " OR ")+")", args...)
}

// present tests a nullable column for presence (true) or absence (false).
func (p *predicates) present(col string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		p.add(col + " IS NOT NULL")
		return
	}
	p.add(col + " IS NULL")
}

func (p *predicates) apply(q *gorm.DB) *gorm.DB {
	for _, c := range p.clauses {
		q = q.Where(c.sql, c.args...)
	}
	return q
}

func likeSQL(col string) string {
	return "LOWER(" + col + `) LIKE ? ESCAPE '\'`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(v)) + "%"
}
