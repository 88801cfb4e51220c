package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"billdash/internal/core"
)

// FetchRevenue returns the revenue series in storage order.
func (m *ReadModel) FetchRevenue(ctx context.Context) ([]core.Revenue, error) {
	var out []core.Revenue
	err := m.run(ctx, OpFetchRevenue, nil, func(ctx context.Context) error {
		var err error
		out, err = m.revenue(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchLatestInvoices returns the most recent invoices, newest first, with
// formatted amounts.
func (m *ReadModel) FetchLatestInvoices(ctx context.Context) ([]core.LatestInvoice, error) {
	var out []core.LatestInvoice
	err := m.run(ctx, OpFetchLatestInvoices, nil, func(ctx context.Context) error {
		var err error
		out, err = m.latestInvoices(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchCardData runs the three summary queries concurrently. Any failure
// fails the whole call; no partial snapshot is returned.
func (m *ReadModel) FetchCardData(ctx context.Context) (core.CardData, error) {
	var out core.CardData
	err := m.run(ctx, OpFetchCardData, nil, func(ctx context.Context) error {
		var err error
		out, err = m.cardData(ctx)
		return err
	})
	if err != nil {
		return core.CardData{}, err
	}
	return out, nil
}

// FetchDashboard assembles the overview page: revenue, latest invoices and
// cards, fetched concurrently with the same all-or-nothing join.
func (m *ReadModel) FetchDashboard(ctx context.Context) (core.Dashboard, error) {
	var out core.Dashboard
	err := m.run(ctx, OpFetchDashboard, nil, func(ctx context.Context) error {
		var (
			revenue []core.Revenue
			latest  []core.LatestInvoice
			cards   core.CardData
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			revenue, err = m.revenue(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			latest, err = m.latestInvoices(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			cards, err = m.cardData(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		out = core.Dashboard{Revenue: revenue, LatestInvoices: latest, Cards: cards}
		return nil
	})
	if err != nil {
		return core.Dashboard{}, err
	}
	return out, nil
}

func (m *ReadModel) revenue(ctx context.Context) ([]core.Revenue, error) {
	rows, err := m.store.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []core.Revenue{}
	}
	return rows, nil
}

func (m *ReadModel) latestInvoices(ctx context.Context) ([]core.LatestInvoice, error) {
	rows, err := m.store.LatestInvoices(ctx, m.opts.LatestInvoices)
	if err != nil {
		return nil, err
	}
	out := make([]core.LatestInvoice, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.LatestInvoice{
			ID:       r.ID,
			Name:     r.Name,
			Email:    r.Email,
			ImageURL: r.ImageURL,
			Amount:   core.FormatCurrency(r.Amount),
		})
	}
	return out, nil
}

func (m *ReadModel) cardData(ctx context.Context) (core.CardData, error) {
	var (
		invoices  int64
		customers int64
		totals    core.StatusTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoices, err = m.store.CountInvoices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = m.store.CountCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = m.store.InvoiceStatusTotals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.CardData{}, err
	}

	return core.CardData{
		NumberOfInvoices:     invoices,
		NumberOfCustomers:    customers,
		TotalPaidInvoices:    core.FormatCurrency(totals.Paid),
		TotalPendingInvoices: core.FormatCurrency(totals.Pending),
	}, nil
}
