package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"billdash/internal/core"
	"billdash/internal/log"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) error {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	if b.body == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(b.body)
}

// ErrorBody is the payload of every failed API call.
type ErrorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Operation string `json:"operation,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind core.Kind) int {
	switch kind {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse builds the response for err. Only the classified message
// is exposed; unclassified errors become a generic internal error.
func ErrorResponse(err error) *JSONResponseBuilder {
	var ce *core.Error
	if !errors.As(err, &ce) {
		return NewJSONResponse().
			Status(http.StatusInternalServerError).
			Body(ErrorBody{Error: "internal error", Kind: string(core.KindDatastore)})
	}
	return NewJSONResponse().
		Status(StatusFor(ce.Kind)).
		Body(ErrorBody{Error: ce.Message, Kind: string(ce.Kind), Operation: ce.Op})
}

// writeJSON writes v with status 200, logging encoder failures.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	if err := NewJSONResponse().Body(v).Write(w); err != nil {
		log.FromContext(r.Context()).Error("Failed to encode response", log.FieldError, err, log.FieldPath, r.URL.Path)
	}
}

// writeError writes the error response for err. The read model has already
// logged the failure.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if werr := ErrorResponse(err).Write(w); werr != nil {
		log.FromContext(r.Context()).Error("Failed to encode error response", log.FieldError, werr, log.FieldPath, r.URL.Path)
	}
}
