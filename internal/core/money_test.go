package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "$0.00"},
		{1, "$0.01"},
		{10, "$0.10"},
		{150, "$1.50"},
		{-150, "-$1.50"},
		{10000, "$100.00"},
		{123456, "$1,234.56"},
		{-123456789, "-$1,234,567.89"},
		{math.MaxInt64, "$92,233,720,368,547,758.07"},
		{math.MinInt64, "-$92,233,720,368,547,758.08"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, FormatCurrency(tc.in), "FormatCurrency(%d)", tc.in)
	}
}

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"$0.00", 0, true},
		{"$1.50", 150, true},
		{"-$1.50", -150, true},
		{"$1,234.56", 123456, true},
		{"1.5", 150, true},
		{" $12 ", 1200, true},
		{"$1.234", 0, false},
		{"$1.", 0, false},
		{"$", 0, false},
		{"abc", 0, false},
		{"$1.2.3", 0, false},
		{"", 0, false},
		{"$92,233,720,368,547,758.08", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCurrency(tc.in)
		if tc.ok {
			require.NoError(t, err, "%q", tc.in)
			assert.Equal(t, tc.out, got, "%q", tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, "%q", tc.in)
		}
	}
}

func TestParseCurrencyRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 99, 100, 150, -150, 1000000, -987654321, math.MaxInt64, math.MinInt64} {
		got, err := ParseCurrency(FormatCurrency(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestMajorUnits(t *testing.T) {
	assert.Equal(t, 150.0, MajorUnits(15000))
	assert.Equal(t, 0.01, MajorUnits(1))
	assert.Equal(t, 0.0, MajorUnits(0))
}
