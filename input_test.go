package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVector(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"10,3,5,1", []int{10, 3, 5, 1}},
		{" 10, 3 ,5,1 ", []int{10, 3, 5, 1}},
		{"[3,10,1,7,5]", []int{3, 10, 1, 7, 5}},
		{"1,2", []int{1, 2}},
		// Sign is checked by the search, not the parser.
		{"-1,2", []int{-1, 2}},
	}
	for _, tt := range tests {
		got, err := parseVector(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseVectorErrors(t *testing.T) {
	for _, in := range []string{"", "[]", "5", "1,,2", "1,a", "1.5,2", "1;2"} {
		_, err := parseVector(in)
		require.ErrorIs(t, err, errVectorSyntax, "input %q", in)
		assert.Contains(t, err.Error(), inputHint, "input %q", in)
	}
}
