package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billdash/internal/core"
)

func TestParseSearchParams(t *testing.T) {
	tests := []struct {
		raw     string
		want    SearchParams
		wantErr bool
	}{
		{raw: "", want: SearchParams{Page: 1}},
		{raw: "query=Lee", want: SearchParams{Query: "Lee", Page: 1}},
		{raw: "query=%20lee%20&page=3", want: SearchParams{Query: " lee ", Page: 3}},
		{raw: "page=-1", want: SearchParams{Page: -1}},
		{raw: "page=abc", wantErr: true},
		{raw: "page=1.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			got, err := ParseSearchParams(values)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
