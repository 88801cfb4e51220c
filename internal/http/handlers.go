package http

import (
	"context"
	"net/http"
	"time"

	"billdash/internal/core"
	"billdash/internal/log"
	"billdash/internal/middleware/ratelimit"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.readModel.FetchDashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, d)
}

func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	revenue, err := s.readModel.FetchRevenue(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, revenue)
}

func (s *Server) handleLatestInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.readModel.FetchLatestInvoices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, invoices)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.readModel.FetchCardData(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, cards)
}

// invoicesPage is the body of GET /api/invoices.
type invoicesPage struct {
	Query    string                  `json:"query"`
	Page     int                     `json:"page"`
	Invoices []core.InvoicesTableRow `json:"invoices"`
}

func (s *Server) handleFilteredInvoices(w http.ResponseWriter, r *http.Request) {
	params, err := ParseSearchParams(r.URL.Query())
	if err != nil {
		log.FromContext(r.Context()).Warn("Invalid search parameters", log.FieldError, err, log.FieldQuery, r.URL.RawQuery)
		writeError(w, r, err)
		return
	}

	invoices, err := s.readModel.FetchFilteredInvoices(r.Context(), params.Query, params.Page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, invoicesPage{Query: params.Query, Page: params.Page, Invoices: invoices})
}

func (s *Server) handleInvoicesPages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	pages, err := s.readModel.FetchInvoicesPages(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, map[string]any{"query": query, "totalPages": pages})
}

func (s *Server) handleInvoiceByID(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.readModel.FetchInvoiceByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, invoice)
}

func (s *Server) handleCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.readModel.FetchCustomers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, customers)
}

func (s *Server) handleFilteredCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.readModel.FetchFilteredCustomers(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, customers)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.readModel.GetUser(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, user)
}

// handleRateLimited writes the 429 response for a client whose window
// resets after reset.
func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request, reset time.Duration) {
	log.FromContext(r.Context()).Warn("Rate limit exceeded",
		log.FieldClientIP, s.ipResolver.ClientIP(r),
		log.FieldPath, r.URL.Path)
	_ = NewJSONResponse().
		Status(http.StatusTooManyRequests).
		Header("Retry-After", ratelimit.RetryAfter(reset)).
		Body(ErrorBody{Error: "rate limit exceeded", Kind: "rate_limited"}).
		Write(w)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	_ = NewJSONResponse().
		Status(http.StatusNotFound).
		Body(ErrorBody{Error: "route not found", Kind: string(core.KindNotFound)}).
		Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the datastore answers within the readiness timeout.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.readyWithin)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{"datastore": "ok"}

	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			log.FromContext(r.Context()).Warn("Readiness check failed", log.FieldError, err)
			checks["datastore"] = "unavailable"
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}
	}
	if s.rateLimiter != nil {
		checks["rate_limiter"] = "ok"
	}

	_ = NewJSONResponse().
		Status(httpStatus).
		Body(map[string]any{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"checks":    checks,
		}).
		Write(w)
}
