// Package storagetest provides a seeded in-memory SQLite store for tests.
package storagetest

import (
	"context"
	"testing"

	"billdash/internal/core"
	"billdash/internal/storage"
)

// Fixtures is the backing data loaded into a test store.
type Fixtures struct {
	Users     []core.User
	Customers []core.Customer
	Invoices  []core.Invoice
	Revenue   []core.Revenue
}

// NewSQLite opens a migrated in-memory store, seeds it and closes it when
// the test ends.
func NewSQLite(t testing.TB, f Fixtures) *storage.Store {
	t.Helper()
	store, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	Seed(t, store, f)
	return store
}

// Seed inserts f into store.
func Seed(t testing.TB, store *storage.Store, f Fixtures) {
	t.Helper()
	db := store.DB()
	if db == nil {
		t.Fatalf("seed: store has no database handle")
	}
	ctx := context.Background()
	exec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.ExecContext(ctx, store.Dialect().Rebind(query), args...); err != nil {
			t.Fatalf("seed %q: %v", query, err)
		}
	}
	for _, u := range f.Users {
		exec(`INSERT INTO users (id, name, email, password) VALUES (?, ?, ?, ?)`, u.ID, u.Name, u.Email, u.Password)
	}
	for _, c := range f.Customers {
		exec(`INSERT INTO customers (id, name, email, image_url) VALUES (?, ?, ?, ?)`, c.ID, c.Name, c.Email, c.ImageURL)
	}
	for _, i := range f.Invoices {
		exec(`INSERT INTO invoices (id, customer_id, amount, status, date) VALUES (?, ?, ?, ?, ?)`, i.ID, i.CustomerID, i.Amount, string(i.Status), i.Date)
	}
	for _, r := range f.Revenue {
		exec(`INSERT INTO revenue (month, revenue) VALUES (?, ?)`, r.Month, r.Revenue)
	}
}

// Customer ids used by Default.
const (
	EvilRabbit    = "00000000-0000-4000-8000-0000000000c1"
	DelbaOliveira = "00000000-0000-4000-8000-0000000000c2"
	LeeRobinson   = "00000000-0000-4000-8000-0000000000c3"
	MichaelNovo   = "00000000-0000-4000-8000-0000000000c4"
	AmyBurns      = "00000000-0000-4000-8000-0000000000c5"
	BalazsOrban   = "00000000-0000-4000-8000-0000000000c6"
)

// Default returns a small dashboard dataset: six customers (one without
// invoices), thirteen invoices spanning three pages, a year of revenue and
// one user.
func Default() Fixtures {
	inv := func(n, customer string, amount int64, status core.InvoiceStatus, date string) core.Invoice {
		return core.Invoice{
			ID:         "00000000-0000-4000-8000-00000000a0" + n,
			CustomerID: customer,
			Amount:     amount,
			Status:     status,
			Date:       date,
		}
	}
	return Fixtures{
		Users: []core.User{{
			ID:       "00000000-0000-4000-8000-000000000001",
			Name:     "User",
			Email:    "user@nextmail.com",
			Password: "$2b$10$6W2x3ZJ6Ww0wyj0u3Z0Q7eS0fXQ9z8p9C2E0V6m0D5M1yT4n8x7Ku",
		}},
		Customers: []core.Customer{
			{ID: EvilRabbit, Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
			{ID: DelbaOliveira, Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
			{ID: LeeRobinson, Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
			{ID: MichaelNovo, Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
			{ID: AmyBurns, Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
			{ID: BalazsOrban, Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
		},
		Invoices: []core.Invoice{
			inv("01", EvilRabbit, 15795, core.StatusPending, "2022-12-06"),
			inv("02", DelbaOliveira, 20348, core.StatusPending, "2022-11-14"),
			inv("03", AmyBurns, 3040, core.StatusPaid, "2022-10-29"),
			inv("04", MichaelNovo, 44800, core.StatusPaid, "2023-09-10"),
			inv("05", LeeRobinson, 34577, core.StatusPending, "2023-08-05"),
			inv("06", DelbaOliveira, 54246, core.StatusPending, "2023-07-16"),
			inv("07", EvilRabbit, 666, core.StatusPending, "2023-06-27"),
			inv("08", MichaelNovo, 32545, core.StatusPaid, "2023-06-09"),
			inv("09", AmyBurns, 1250, core.StatusPaid, "2023-06-17"),
			inv("10", LeeRobinson, 8546, core.StatusPaid, "2023-06-07"),
			inv("11", DelbaOliveira, 500, core.StatusPaid, "2023-08-19"),
			inv("12", LeeRobinson, 8945, core.StatusPaid, "2023-06-03"),
			inv("13", EvilRabbit, 1000, core.StatusPaid, "2023-06-09"),
		},
		Revenue: []core.Revenue{
			{Month: "Jan", Revenue: 200000}, {Month: "Feb", Revenue: 180000},
			{Month: "Mar", Revenue: 220000}, {Month: "Apr", Revenue: 250000},
			{Month: "May", Revenue: 230000}, {Month: "Jun", Revenue: 320000},
			{Month: "Jul", Revenue: 350000}, {Month: "Aug", Revenue: 370000},
			{Month: "Sep", Revenue: 250000}, {Month: "Oct", Revenue: 280000},
			{Month: "Nov", Revenue: 300000}, {Month: "Dec", Revenue: 480000},
		},
	}
}
