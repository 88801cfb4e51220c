package services

import (
	"context"

	"billdash/internal/core"
	"billdash/internal/log"
)

// FetchCustomers returns every customer as an id/name pair, ordered by name.
func (m *ReadModel) FetchCustomers(ctx context.Context) ([]core.CustomerField, error) {
	var out []core.CustomerField
	err := m.run(ctx, OpFetchCustomers, nil, func(ctx context.Context) error {
		rows, err := m.store.CustomerFields(ctx)
		if err != nil {
			return err
		}
		if rows == nil {
			rows = []core.CustomerField{}
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchFilteredCustomers returns customers whose name or email contains
// query, each with invoice count and formatted pending/paid totals.
// Customers without invoices are included with zero totals.
func (m *ReadModel) FetchFilteredCustomers(ctx context.Context, query string) ([]core.CustomersTableRow, error) {
	var out []core.CustomersTableRow
	fields := log.NewFields().WithSearch(query, 0)
	err := m.run(ctx, OpFetchFilteredCustomers, fields, func(ctx context.Context) error {
		if err := m.validateQuery(OpFetchFilteredCustomers, query); err != nil {
			return err
		}
		rows, err := m.store.FilteredCustomers(ctx, query)
		if err != nil {
			return err
		}
		out = make([]core.CustomersTableRow, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Summarize())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
