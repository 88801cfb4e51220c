package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"billdash/internal/core"
	"billdash/internal/log"
)

// maxPage keeps the computed offset well inside int range.
const maxPage = math.MaxInt32

// FetchFilteredInvoices returns one page of invoices matching query on
// customer name, customer email, amount, date or status. Pages are 1-based.
func (m *ReadModel) FetchFilteredInvoices(ctx context.Context, query string, page int) ([]core.InvoicesTableRow, error) {
	var out []core.InvoicesTableRow
	fields := log.NewFields().WithSearch(query, page)
	err := m.run(ctx, OpFetchFilteredInvoices, fields, func(ctx context.Context) error {
		if page < 1 || page > maxPage {
			return invalid(OpFetchFilteredInvoices, "page must be a positive number")
		}
		if err := m.validateQuery(OpFetchFilteredInvoices, query); err != nil {
			return err
		}
		rows, err := m.store.FilteredInvoices(ctx, query, m.opts.PageSize, core.Offset(page, m.opts.PageSize))
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []core.InvoicesTableRow{}
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchInvoicesPages returns the number of pages FetchFilteredInvoices can
// serve for query.
func (m *ReadModel) FetchInvoicesPages(ctx context.Context, query string) (int, error) {
	var pages int
	fields := log.NewFields().WithSearch(query, 0)
	err := m.run(ctx, OpFetchInvoicesPages, fields, func(ctx context.Context) error {
		if err := m.validateQuery(OpFetchInvoicesPages, query); err != nil {
			return err
		}
		total, err := m.store.CountFilteredInvoices(ctx, query)
		if err != nil {
			return err
		}
		pages = core.PageCount(total, m.opts.PageSize)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return pages, nil
}

// FetchInvoiceByID loads a single invoice for the edit form, with the amount
// converted to major units.
func (m *ReadModel) FetchInvoiceByID(ctx context.Context, id string) (core.InvoiceForm, error) {
	var out core.InvoiceForm
	fields := log.NewFields()
	fields["invoice_id"] = id
	err := m.run(ctx, OpFetchInvoiceByID, fields, func(ctx context.Context) error {
		if id == "" {
			return invalid(OpFetchInvoiceByID, "invoice id is required")
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return notFound(OpFetchInvoiceByID)
		}
		inv, err := m.store.InvoiceByID(ctx, parsed.String())
		if err != nil {
			return err
		}
		out = core.InvoiceForm{
			ID:         inv.ID,
			CustomerID: inv.CustomerID,
			Amount:     core.MajorUnits(inv.Amount),
			Status:     inv.Status,
		}
		return nil
	})
	if err != nil {
		return core.InvoiceForm{}, err
	}
	return out, nil
}
