package http

import (
	"net/url"
	"strconv"
	"strings"

	"billdash/internal/core"
	"billdash/internal/services"
)

// SearchParams are the query-string inputs of the invoice search.
type SearchParams struct {
	Query string
	Page  int
}

// ParseSearchParams reads query and page from values. A missing page means
// the first page; a page that is not an integer is a validation error.
// Range checks are left to the read model.
func ParseSearchParams(values url.Values) (SearchParams, error) {
	params := SearchParams{Query: values.Get("query"), Page: 1}

	if v := strings.TrimSpace(values.Get("page")); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return SearchParams{}, core.NewError(core.KindValidation, services.OpFetchFilteredInvoices, "page must be a positive number", err)
		}
		params.Page = page
	}

	return params, nil
}
