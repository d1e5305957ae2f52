package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestA1Column(t *testing.T) {
	tests := []struct {
		idx      int
		expected string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, a1Column(tt.idx), "index %d", tt.idx)
	}
}

func TestToStrings_MixedTypes(t *testing.T) {
	out := toStrings([]interface{}{"a", 3, true})
	assert.Equal(t, []string{"a", "3", "true"}, out)
}

func TestToInterfaces_RoundTrips(t *testing.T) {
	out := toInterfaces([]string{"x", ""})
	assert.Equal(t, []interface{}{"x", ""}, out)
}
