package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlural(t *testing.T) {
	tcs := []struct {
		n    int
		want string
	}{
		{n: 0, want: "0 lines"},
		{n: 1, want: "1 line"},
		{n: 42, want: "42 lines"},
	}

	for _, tc := range tcs {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Plural(tc.n, "line"))
		})
	}
}

func TestClamp(t *testing.T) {
	tcs := []struct {
		name      string
		v, lo, hi int
		want      int
	}{
		{name: "inside", v: 5, lo: 0, hi: 10, want: 5},
		{name: "below", v: -3, lo: 0, hi: 10, want: 0},
		{name: "above", v: 12, lo: 0, hi: 10, want: 10},
		{name: "empty range", v: 3, lo: 0, hi: -1, want: -1},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Clamp(tc.v, tc.lo, tc.hi))
		})
	}
}
