package storage

import (
	"strconv"
	"strings"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Dialect captures the few SQL differences between the supported stores.
type Dialect struct {
	Name string
	// Like is the case-insensitive pattern match operator.
	Like string
	// Fold names a SQL function applied to both sides of a match when Like
	// alone only ignores ASCII case.
	Fold string
	// Numbered placeholders ($1, $2, ...) instead of '?'.
	Numbered bool
}

var (
	SQLite   = Dialect{Name: DialectSQLite, Like: "LIKE", Fold: casefoldFunc}
	Postgres = Dialect{Name: DialectPostgres, Like: "ILIKE", Numbered: true}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, bool) {
	switch name {
	case DialectSQLite:
		return SQLite, true
	case DialectPostgres:
		return Postgres, true
	}
	return Dialect{}, false
}

// Match renders a case-insensitive pattern match of expr against one bound
// parameter.
func (d Dialect) Match(expr string) string {
	if d.Fold == "" {
		return expr + " " + d.Like + " ?"
	}
	return d.Fold + "(" + expr + ") " + d.Like + " " + d.Fold + "(?)"
}

// Rebind rewrites '?' placeholders for dialects that number them. Query
// templates are static, so no '?' appears inside string literals.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
