package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"billdash/internal/core"
	"billdash/internal/log"
	"billdash/internal/metrics"
	"billdash/internal/storage"
)

const tracerName = "billdash/internal/services"

// Operation names, used in errors, logs, metrics and spans.
const (
	OpFetchRevenue           = "fetchRevenue"
	OpFetchLatestInvoices    = "fetchLatestInvoices"
	OpFetchCardData          = "fetchCardData"
	OpFetchFilteredInvoices  = "fetchFilteredInvoices"
	OpFetchInvoicesPages     = "fetchInvoicesPages"
	OpFetchInvoiceByID       = "fetchInvoiceById"
	OpFetchCustomers         = "fetchCustomers"
	OpFetchFilteredCustomers = "fetchFilteredCustomers"
	OpGetUser                = "getUser"
	OpFetchDashboard         = "fetchDashboard"
)

// failureMessages are the fixed, caller-facing messages per operation.
var failureMessages = map[string]string{
	OpFetchRevenue:           "failed to fetch revenue data",
	OpFetchLatestInvoices:    "failed to fetch the latest invoices",
	OpFetchCardData:          "failed to fetch card data",
	OpFetchFilteredInvoices:  "failed to fetch invoices",
	OpFetchInvoicesPages:     "failed to fetch total number of invoices",
	OpFetchInvoiceByID:       "failed to fetch invoice",
	OpFetchCustomers:         "failed to fetch all customers",
	OpFetchFilteredCustomers: "failed to fetch customer table",
	OpGetUser:                "failed to fetch user",
	OpFetchDashboard:         "failed to fetch dashboard",
}

var notFoundMessages = map[string]string{
	OpFetchInvoiceByID: "invoice not found",
	OpGetUser:          "user not found",
}

// Options tunes the read model. Zero values fall back to the defaults in core.
type Options struct {
	// PageSize is shared by FetchFilteredInvoices and FetchInvoicesPages.
	PageSize       int
	LatestInvoices int
	MaxQueryLength int
	// QueryTimeout bounds each operation; zero disables the bound.
	QueryTimeout time.Duration

	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider
}

// ReadModel answers the dashboard's read queries.
type ReadModel struct {
	store   Store
	logger  *log.Logger
	events  *log.StructuredLogger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	opts    Options
}

func NewReadModel(store Store, logger *log.Logger, opts Options) *ReadModel {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentReadModel)

	if opts.PageSize <= 0 {
		opts.PageSize = core.DefaultPageSize
	}
	if opts.LatestInvoices <= 0 {
		opts.LatestInvoices = core.DefaultLatestInvoices
	}
	if opts.MaxQueryLength <= 0 {
		opts.MaxQueryLength = core.DefaultMaxQueryLength
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &ReadModel{
		store:   store,
		logger:  logger,
		events:  log.NewStructuredLogger(logger),
		metrics: opts.Metrics,
		tracer:  tp.Tracer(tracerName),
		opts:    opts,
	}
}

// PageSize returns the number of invoices per search page.
func (m *ReadModel) PageSize() int {
	return m.opts.PageSize
}

// run executes fn as operation op: it opens a span, applies the query
// timeout, classifies the failure, logs it once and records metrics.
func (m *ReadModel) run(ctx context.Context, op string, fields log.LogFields, fn func(ctx context.Context) error) error {
	ctx, span := m.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if m.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	cause := fn(ctx)
	err := classify(op, cause)
	elapsed := time.Since(start)

	if err == nil {
		m.metrics.ObserveOperation(op, metrics.OutcomeSuccess, elapsed)
		return nil
	}

	kind := core.KindOf(err)
	span.SetAttributes(attribute.String("billdash.error_kind", string(kind)))
	if kind == core.KindDatastore {
		span.SetStatus(codes.Error, err.Error())
	}
	m.metrics.ObserveOperation(op, outcomeFor(kind), elapsed)
	m.events.LogOperationFailed(ctx, op, errorTypeFor(kind, cause), err, fields)
	return err
}

// classify turns a raw failure into a *core.Error for op. Errors that are
// already classified pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, storage.ErrNoRows) {
		msg, ok := notFoundMessages[op]
		if !ok {
			msg = "not found"
		}
		return core.NewError(core.KindNotFound, op, msg, err)
	}
	return core.NewError(core.KindDatastore, op, failureMessages[op], err)
}

func invalid(op, message string) error {
	return core.NewError(core.KindValidation, op, message, nil)
}

func notFound(op string) error {
	return core.NewError(core.KindNotFound, op, notFoundMessages[op], nil)
}

// validateQuery rejects search text the store must never see.
func (m *ReadModel) validateQuery(op, query string) error {
	if !utf8.ValidString(query) {
		return invalid(op, "search query is not valid UTF-8")
	}
	if strings.ContainsRune(query, 0) {
		return invalid(op, "search query contains a NUL character")
	}
	if utf8.RuneCountInString(query) > m.opts.MaxQueryLength {
		return invalid(op, "search query is too long")
	}
	return nil
}

func outcomeFor(kind core.Kind) string {
	switch kind {
	case core.KindNotFound:
		return metrics.OutcomeNotFound
	case core.KindValidation:
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeDatastore
	}
}

func errorTypeFor(kind core.Kind, cause error) string {
	switch {
	case kind == core.KindNotFound:
		return log.ErrorTypeNotFound
	case kind == core.KindValidation:
		return log.ErrorTypeValidation
	case errors.Is(cause, context.DeadlineExceeded):
		return log.ErrorTypeTimeout
	default:
		return log.ErrorTypeDatabase
	}
}
