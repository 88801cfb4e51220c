package services

import (
	"context"

	"billdash/internal/core"
)

// Ports consumed by the read model. storage.Store implements all of them.
type (
	RevenueReader interface {
		Revenue(ctx context.Context) ([]core.Revenue, error)
	}

	// SummaryReader provides the independent aggregates behind the
	// dashboard cards.
	SummaryReader interface {
		CountInvoices(ctx context.Context) (int64, error)
		CountCustomers(ctx context.Context) (int64, error)
		InvoiceStatusTotals(ctx context.Context) (core.StatusTotals, error)
	}

	InvoiceReader interface {
		LatestInvoices(ctx context.Context, limit int) ([]core.InvoicesTableRow, error)
		FilteredInvoices(ctx context.Context, query string, limit, offset int) ([]core.InvoicesTableRow, error)
		CountFilteredInvoices(ctx context.Context, query string) (int64, error)
		// InvoiceByID returns storage.ErrNoRows when nothing matches.
		InvoiceByID(ctx context.Context, id string) (core.Invoice, error)
	}

	CustomerReader interface {
		CustomerFields(ctx context.Context) ([]core.CustomerField, error)
		FilteredCustomers(ctx context.Context, query string) ([]core.CustomerTotals, error)
	}

	UserReader interface {
		// UserByEmail returns storage.ErrNoRows when nothing matches.
		UserByEmail(ctx context.Context, email string) (core.User, error)
	}

	Store interface {
		RevenueReader
		SummaryReader
		InvoiceReader
		CustomerReader
		UserReader
	}
)
