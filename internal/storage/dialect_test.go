package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b LIKE ? LIMIT ? OFFSET ?"
	assert.Equal(t, q, SQLite.Rebind(q))
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b LIKE $2 LIMIT $3 OFFSET $4", Postgres.Rebind(q))
}

func TestDialectFor(t *testing.T) {
	d, ok := DialectFor("postgres")
	require.True(t, ok)
	assert.Equal(t, "ILIKE", d.Like)

	_, ok = DialectFor("mysql")
	assert.False(t, ok)
}

func TestMatch(t *testing.T) {
	assert.Equal(t, "customers.name ILIKE ?", Postgres.Match("customers.name"))
	assert.Equal(t, "casefold(customers.name) LIKE casefold(?)", SQLite.Match("customers.name"))
}

// oneLine collapses the template indentation so statements compare as text.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestPostgresSearchStatements(t *testing.T) {
	s := buildStatements(Postgres)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "filtered invoices",
			got:  s.filteredInvoices,
			want: "SELECT invoices.id, invoices.customer_id, customers.name, customers.email, customers.image_url, " +
				"invoices.date, invoices.amount, invoices.status " +
				"FROM invoices JOIN customers ON invoices.customer_id = customers.id " +
				"WHERE customers.name ILIKE $1 OR customers.email ILIKE $2 OR " +
				"CAST(invoices.amount AS TEXT) ILIKE $3 OR CAST(invoices.date AS TEXT) ILIKE $4 OR " +
				"invoices.status ILIKE $5 " +
				"ORDER BY invoices.date DESC, invoices.id DESC LIMIT $6 OFFSET $7",
		},
		{
			name: "count filtered invoices",
			got:  s.countFilteredInvoices,
			want: "SELECT COUNT(*) FROM invoices JOIN customers ON invoices.customer_id = customers.id " +
				"WHERE customers.name ILIKE $1 OR customers.email ILIKE $2 OR " +
				"CAST(invoices.amount AS TEXT) ILIKE $3 OR CAST(invoices.date AS TEXT) ILIKE $4 OR " +
				"invoices.status ILIKE $5",
		},
		{
			name: "filtered customers",
			got:  s.filteredCustomers,
			want: "SELECT customers.id, customers.name, customers.email, customers.image_url, " +
				"COUNT(invoices.id) AS total_invoices, " +
				"SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END) AS total_pending, " +
				"SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END) AS total_paid " +
				"FROM customers LEFT JOIN invoices ON customers.id = invoices.customer_id " +
				"WHERE customers.name ILIKE $1 OR customers.email ILIKE $2 " +
				"GROUP BY customers.id, customers.name, customers.email, customers.image_url " +
				"ORDER BY customers.name ASC",
		},
		{
			name: "user by email",
			got:  s.userByEmail,
			want: "SELECT id, name, email, password FROM users WHERE email = $1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, oneLine(tt.got))
		})
	}
}

func TestSQLiteSearchStatementsFoldCase(t *testing.T) {
	s := buildStatements(SQLite)
	assert.Contains(t, oneLine(s.filteredCustomers),
		"WHERE casefold(customers.name) LIKE casefold(?) OR casefold(customers.email) LIKE casefold(?) GROUP BY")
	assert.Contains(t, oneLine(s.countFilteredInvoices),
		"casefold(CAST(invoices.amount AS TEXT)) LIKE casefold(?)")
	assert.NotContains(t, s.filteredInvoices, "$")
}

func TestInvoiceSearchPredicateIsShared(t *testing.T) {
	s := buildStatements(SQLite)
	pred := invoiceSearchPredicate(SQLite)
	assert.True(t, strings.Contains(s.filteredInvoices, pred))
	assert.True(t, strings.Contains(s.countFilteredInvoices, pred))
	assert.Len(t, invoiceSearchArgs("x"), strings.Count(pred, "?"))
}

func TestSQLDateScan(t *testing.T) {
	var d sqlDate
	require.NoError(t, d.Scan(time.Date(2023, 6, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, sqlDate("2023-06-09"), d)

	require.NoError(t, d.Scan("2022-12-06T00:00:00Z"))
	assert.Equal(t, sqlDate("2022-12-06"), d)

	require.NoError(t, d.Scan([]byte("2022-11-14")))
	assert.Equal(t, sqlDate("2022-11-14"), d)

	assert.Error(t, d.Scan(42))
}
