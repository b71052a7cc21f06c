package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumberOrZero(t *testing.T) {
	cases := map[string]float64{
		"80.5":   80.5,
		" 12 ":   12,
		"-3":     -3,
		"":       0,
		"abc":    0,
		"12kg":   0,
		"NaN":    0,
		"+Inf":   0,
		"1e2":    100,
		"0.0001": 0.0001,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseNumberOrZero(in), "input %q", in)
	}
}

func TestParseIntOrZero(t *testing.T) {
	assert.Equal(t, 8, ParseIntOrZero("8"))
	assert.Equal(t, 8, ParseIntOrZero("8.9"))
	assert.Equal(t, 0, ParseIntOrZero("eight"))
	assert.Equal(t, -3, ParseIntOrZero("-3.7"))
	assert.Equal(t, 0, ParseIntOrZero("1e300"))
	assert.Equal(t, 0, ParseIntOrZero("-1e300"))
	assert.Equal(t, 0, ParseIntOrZero("9223372036854775808"))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 12.3, RoundTo(12.34, 1))
	assert.Equal(t, 12.4, RoundTo(12.35, 1))
	assert.Equal(t, 330.0, RoundTo(329.5, 0))
	assert.Equal(t, -1.4, RoundTo(-1.44, 1))
}
