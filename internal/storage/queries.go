package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"billdash/internal/core"
)

// statements holds the query templates rendered for one dialect.
type statements struct {
	revenue               string
	latestInvoices        string
	countInvoices         string
	countCustomers        string
	invoiceStatusTotals   string
	filteredInvoices      string
	countFilteredInvoices string
	invoiceByID           string
	customerFields        string
	filteredCustomers     string
	userByEmail           string
}

// invoiceSearchPredicate is the single filter shared by the invoice page
// and page-count queries. It binds five copies of the search pattern.
func invoiceSearchPredicate(d Dialect) string {
	return fmt.Sprintf(`
		%s OR
		%s OR
		%s OR
		%s OR
		%s`,
		d.Match("customers.name"),
		d.Match("customers.email"),
		d.Match("CAST(invoices.amount AS TEXT)"),
		d.Match("CAST(invoices.date AS TEXT)"),
		d.Match("invoices.status"))
}

func invoiceSearchArgs(query string) []any {
	p := core.SearchPattern(query)
	return []any{p, p, p, p, p}
}

func customerSearchPredicate(d Dialect) string {
	return fmt.Sprintf(`
		%s OR
		%s`,
		d.Match("customers.name"),
		d.Match("customers.email"))
}

func customerSearchArgs(query string) []any {
	p := core.SearchPattern(query)
	return []any{p, p}
}

const invoiceRowColumns = `
		invoices.id,
		invoices.customer_id,
		customers.name,
		customers.email,
		customers.image_url,
		invoices.date,
		invoices.amount,
		invoices.status`

func buildStatements(d Dialect) statements {
	s := statements{
		revenue: `SELECT month, revenue FROM revenue`,

		latestInvoices: `SELECT` + invoiceRowColumns + `
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		ORDER BY invoices.date DESC, invoices.id DESC
		LIMIT ?`,

		countInvoices:  `SELECT COUNT(*) FROM invoices`,
		countCustomers: `SELECT COUNT(*) FROM customers`,

		invoiceStatusTotals: `SELECT
		SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END) AS paid,
		SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END) AS pending
		FROM invoices`,

		filteredInvoices: `SELECT` + invoiceRowColumns + `
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE` + invoiceSearchPredicate(d) + `
		ORDER BY invoices.date DESC, invoices.id DESC
		LIMIT ? OFFSET ?`,

		countFilteredInvoices: `SELECT COUNT(*)
		FROM invoices
		JOIN customers ON invoices.customer_id = customers.id
		WHERE` + invoiceSearchPredicate(d),

		invoiceByID: `SELECT
		invoices.id,
		invoices.customer_id,
		invoices.amount,
		invoices.date,
		invoices.status
		FROM invoices
		WHERE invoices.id = ?`,

		customerFields: `SELECT id, name FROM customers ORDER BY name ASC`,

		filteredCustomers: `SELECT
		customers.id,
		customers.name,
		customers.email,
		customers.image_url,
		COUNT(invoices.id) AS total_invoices,
		SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END) AS total_pending,
		SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END) AS total_paid
		FROM customers
		LEFT JOIN invoices ON customers.id = invoices.customer_id
		WHERE` + customerSearchPredicate(d) + `
		GROUP BY customers.id, customers.name, customers.email, customers.image_url
		ORDER BY customers.name ASC`,

		userByEmail: `SELECT id, name, email, password FROM users WHERE email = ?`,
	}

	for _, q := range []*string{
		&s.latestInvoices, &s.filteredInvoices, &s.countFilteredInvoices,
		&s.invoiceByID, &s.filteredCustomers, &s.userByEmail,
	} {
		*q = d.Rebind(*q)
	}
	return s
}

// Revenue returns the revenue series in storage order.
func (s *Store) Revenue(ctx context.Context) ([]core.Revenue, error) {
	out, err := queryRows(ctx, s.q, s.sql.revenue, nil, func(r *sql.Rows) (core.Revenue, error) {
		var v core.Revenue
		err := r.Scan(&v.Month, &v.Revenue)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("query revenue: %w", err)
	}
	return out, nil
}

// LatestInvoices returns up to limit invoices joined with their customer,
// newest first.
func (s *Store) LatestInvoices(ctx context.Context, limit int) ([]core.InvoicesTableRow, error) {
	out, err := queryRows(ctx, s.q, s.sql.latestInvoices, []any{limit}, scanInvoiceRow)
	if err != nil {
		return nil, fmt.Errorf("query latest invoices: %w", err)
	}
	return out, nil
}

func (s *Store) CountInvoices(ctx context.Context) (int64, error) {
	n, err := queryCount(ctx, s.q, s.sql.countInvoices)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func (s *Store) CountCustomers(ctx context.Context) (int64, error) {
	n, err := queryCount(ctx, s.q, s.sql.countCustomers)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return n, nil
}

// InvoiceStatusTotals sums invoice amounts by status. NULL sums read as zero.
func (s *Store) InvoiceStatusTotals(ctx context.Context) (core.StatusTotals, error) {
	rows, err := queryRows(ctx, s.q, s.sql.invoiceStatusTotals, nil, func(r *sql.Rows) (core.StatusTotals, error) {
		var paid, pending sql.NullInt64
		if err := r.Scan(&paid, &pending); err != nil {
			return core.StatusTotals{}, err
		}
		return core.StatusTotals{Paid: paid.Int64, Pending: pending.Int64}, nil
	})
	if err != nil {
		return core.StatusTotals{}, fmt.Errorf("sum invoice status: %w", err)
	}
	if len(rows) == 0 {
		return core.StatusTotals{}, nil
	}
	return rows[0], nil
}

// FilteredInvoices returns one window of invoices matching query.
func (s *Store) FilteredInvoices(ctx context.Context, query string, limit, offset int) ([]core.InvoicesTableRow, error) {
	args := append(invoiceSearchArgs(query), limit, offset)
	out, err := queryRows(ctx, s.q, s.sql.filteredInvoices, args, scanInvoiceRow)
	if err != nil {
		return nil, fmt.Errorf("query filtered invoices: %w", err)
	}
	return out, nil
}

// CountFilteredInvoices counts every invoice matching query.
func (s *Store) CountFilteredInvoices(ctx context.Context, query string) (int64, error) {
	n, err := queryCount(ctx, s.q, s.sql.countFilteredInvoices, invoiceSearchArgs(query)...)
	if err != nil {
		return 0, fmt.Errorf("count filtered invoices: %w", err)
	}
	return n, nil
}

// InvoiceByID returns the invoice with the given id, or ErrNoRows.
func (s *Store) InvoiceByID(ctx context.Context, id string) (core.Invoice, error) {
	out, err := queryRows(ctx, s.q, s.sql.invoiceByID, []any{id}, func(r *sql.Rows) (core.Invoice, error) {
		var (
			v    core.Invoice
			date sqlDate
		)
		if err := r.Scan(&v.ID, &v.CustomerID, &v.Amount, &date, &v.Status); err != nil {
			return v, err
		}
		v.Date = string(date)
		return v, checkStatus(v.ID, v.Status)
	})
	if err != nil {
		return core.Invoice{}, fmt.Errorf("query invoice by id: %w", err)
	}
	if len(out) == 0 {
		return core.Invoice{}, ErrNoRows
	}
	return out[0], nil
}

// CustomerFields lists every customer's id and name, ordered by name.
func (s *Store) CustomerFields(ctx context.Context) ([]core.CustomerField, error) {
	out, err := queryRows(ctx, s.q, s.sql.customerFields, nil, func(r *sql.Rows) (core.CustomerField, error) {
		var v core.CustomerField
		err := r.Scan(&v.ID, &v.Name)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return out, nil
}

// FilteredCustomers returns customers matching query with their invoice
// totals. Customers without invoices carry zero totals.
func (s *Store) FilteredCustomers(ctx context.Context, query string) ([]core.CustomerTotals, error) {
	out, err := queryRows(ctx, s.q, s.sql.filteredCustomers, customerSearchArgs(query), func(r *sql.Rows) (core.CustomerTotals, error) {
		var (
			v                 core.CustomerTotals
			count             sql.NullInt64
			pending, paidNull sql.NullInt64
		)
		err := r.Scan(&v.ID, &v.Name, &v.Email, &v.ImageURL, &count, &pending, &paidNull)
		v.TotalInvoices = count.Int64
		v.TotalPending = pending.Int64
		v.TotalPaid = paidNull.Int64
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("query filtered customers: %w", err)
	}
	return out, nil
}

// UserByEmail returns the user whose email matches exactly, or ErrNoRows.
func (s *Store) UserByEmail(ctx context.Context, email string) (core.User, error) {
	out, err := queryRows(ctx, s.q, s.sql.userByEmail, []any{email}, func(r *sql.Rows) (core.User, error) {
		var v core.User
		err := r.Scan(&v.ID, &v.Name, &v.Email, &v.Password)
		return v, err
	})
	if err != nil {
		return core.User{}, fmt.Errorf("query user by email: %w", err)
	}
	if len(out) == 0 {
		return core.User{}, ErrNoRows
	}
	return out[0], nil
}

func scanInvoiceRow(r *sql.Rows) (core.InvoicesTableRow, error) {
	var (
		v    core.InvoicesTableRow
		date sqlDate
	)
	if err := r.Scan(&v.ID, &v.CustomerID, &v.Name, &v.Email, &v.ImageURL, &date, &v.Amount, &v.Status); err != nil {
		return v, err
	}
	v.Date = string(date)
	return v, checkStatus(v.ID, v.Status)
}

func checkStatus(id string, status core.InvoiceStatus) error {
	if err := status.Validate(); err != nil {
		return fmt.Errorf("invoice %s: %w %q", id, err, status)
	}
	return nil
}

// sqlDate reads DATE columns from either driver: pgx yields time.Time,
// SQLite yields ISO text.
type sqlDate string

func (d *sqlDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = sqlDate(v.Format(time.DateOnly))
	case string:
		*d = sqlDate(normalizeDate(v))
	case []byte:
		*d = sqlDate(normalizeDate(string(v)))
	default:
		return fmt.Errorf("unsupported date type %T", src)
	}
	return nil
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(time.DateOnly) {
		if _, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return s[:len(time.DateOnly)]
		}
	}
	return s
}
