package core

import "errors"

// Invoice statuses.
const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// Defaults shared by the paginated invoice queries and the dashboard digest.
const (
	DefaultPageSize       = 6
	DefaultLatestInvoices = 5
	DefaultMaxQueryLength = 200
)

type (
	InvoiceStatus string

	// Revenue is one period of the revenue series, amount in minor units.
	Revenue struct {
		Month   string `json:"month"`
		Revenue int64  `json:"revenue"`
	}

	Invoice struct {
		ID         string        `json:"id"`
		CustomerID string        `json:"customer_id"`
		Amount     int64         `json:"amount"`
		Date       string        `json:"date"`
		Status     InvoiceStatus `json:"status"`
	}

	Customer struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		ImageURL string `json:"image_url"`
	}

	// User is an account able to sign in to the dashboard. The password
	// hash never leaves the process in serialized form.
	User struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"-"`
	}

	// LatestInvoice is a row of the "latest invoices" digest.
	LatestInvoice struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		ImageURL string `json:"image_url"`
		Amount   string `json:"amount"`
	}

	// InvoicesTableRow is a row of the paginated invoice search.
	InvoicesTableRow struct {
		ID         string        `json:"id"`
		CustomerID string        `json:"customer_id"`
		Name       string        `json:"name"`
		Email      string        `json:"email"`
		ImageURL   string        `json:"image_url"`
		Date       string        `json:"date"`
		Amount     int64         `json:"amount"`
		Status     InvoiceStatus `json:"status"`
	}

	// InvoiceForm carries an invoice for the edit form; Amount is in major units.
	InvoiceForm struct {
		ID         string        `json:"id"`
		CustomerID string        `json:"customer_id"`
		Amount     float64       `json:"amount"`
		Status     InvoiceStatus `json:"status"`
	}

	CustomerField struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	// CustomerTotals is the raw per-customer aggregate as read from the store.
	CustomerTotals struct {
		Customer
		TotalInvoices int64
		TotalPending  int64
		TotalPaid     int64
	}

	// CustomersTableRow is a customer decorated with formatted invoice totals.
	CustomersTableRow struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		ImageURL      string `json:"image_url"`
		TotalInvoices int64  `json:"total_invoices"`
		TotalPending  string `json:"total_pending"`
		TotalPaid     string `json:"total_paid"`
	}

	// StatusTotals are invoice amount sums split by status, in minor units.
	StatusTotals struct {
		Paid    int64
		Pending int64
	}

	// CardData is the dashboard summary snapshot.
	CardData struct {
		NumberOfInvoices     int64  `json:"numberOfInvoices"`
		NumberOfCustomers    int64  `json:"numberOfCustomers"`
		TotalPaidInvoices    string `json:"totalPaidInvoices"`
		TotalPendingInvoices string `json:"totalPendingInvoices"`
	}

	// Dashboard is everything the overview page renders in one payload.
	Dashboard struct {
		Revenue        []Revenue       `json:"revenue"`
		LatestInvoices []LatestInvoice `json:"latestInvoices"`
		Cards          CardData        `json:"cards"`
	}
)

var ErrInvalidStatus = errors.New("invalid invoice status")

// Validate reports whether s is one of the two known statuses.
func (s InvoiceStatus) Validate() error {
	switch s {
	case StatusPending, StatusPaid:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// Summarize formats the raw totals for display.
func (t CustomerTotals) Summarize() CustomersTableRow {
	return CustomersTableRow{
		ID:            t.ID,
		Name:          t.Name,
		Email:         t.Email,
		ImageURL:      t.ImageURL,
		TotalInvoices: t.TotalInvoices,
		TotalPending:  FormatCurrency(t.TotalPending),
		TotalPaid:     FormatCurrency(t.TotalPaid),
	}
}
