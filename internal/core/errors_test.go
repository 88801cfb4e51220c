package core

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	err := NewError(KindDatastore, "fetchInvoiceById", "failed to fetch invoice", cause)

	assert.EqualError(t, err, "failed to fetch invoice")
	assert.ErrorIs(t, err, ErrDatastore)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, cause, "cause must not leak through errors.Is")
	assert.Equal(t, KindDatastore, KindOf(fmt.Errorf("wrapped: %w", err)))

	nf := NewError(KindNotFound, "getUser", "user not found", nil)
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(nf))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindDatastore, KindOf(errors.New("raw")))
}

func TestErrorLogValueCarriesCause(t *testing.T) {
	err := NewError(KindDatastore, "fetchRevenue", "failed to fetch revenue data", errors.New("boom"))
	v := err.LogValue()
	assert.Equal(t, slog.KindGroup, v.Kind())

	got := map[string]string{}
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}
	assert.Equal(t, "datastore", got["kind"])
	assert.Equal(t, "fetchRevenue", got["operation"])
	assert.Equal(t, "boom", got["cause"])
}
