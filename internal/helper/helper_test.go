package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormTF(t *testing.T) {
	cases := map[string]string{
		"1m":    "1min",
		"5min":  "5min",
		"15M":   "15min",
		"1h":    "60min",
		"1H":    "60min",
		"60min": "60min",
		"4h":    "240min",
		"1d":    "daily",
		"daily": "daily",
		" 1h ":  "60min",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormTF(in), "input %q", in)
	}
}

func TestSplitPair(t *testing.T) {
	base, quote, ok := SplitPair("eurusd")
	assert.True(t, ok)
	assert.Equal(t, "EUR", base)
	assert.Equal(t, "USD", quote)

	for _, bad := range []string{"", "EUR", "EURUSDX", "EUR/USD"} {
		_, _, ok := SplitPair(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestRounding(t *testing.T) {
	assert.InDelta(t, 1.23, Round2(1.234), 1e-12)
	assert.InDelta(t, 1.24, Round2(1.236), 1e-12)
	assert.InDelta(t, -2.35, Round2(-2.346), 1e-12)
	assert.InDelta(t, 1.08505, Round5(1.0850499), 1e-12)
}
