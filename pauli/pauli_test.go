//go:build unit
// +build unit

package pauli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		want         Label
		wantErrorMsg string
	}{
		{name: "lowercase x", input: "x", want: X},
		{name: "uppercase z", input: "Z", want: Z},
		{name: "padded y", input: " y ", want: Y},
		{name: "identity", input: "i", want: I},
		{name: "unknown label", input: "q", wantErrorMsg: "\"q\" is not a Pauli label"},
		{name: "empty", input: "", wantErrorMsg: "\"\" is not a Pauli label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabel(tt.input)
			if tt.wantErrorMsg == "" {
				assert.Nil(t, err)
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, err.Error(), tt.wantErrorMsg)
			}
		})
	}
}

func TestProductRoundTrip(t *testing.T) {
	p, err := ParseProduct([]string{"i", "x", "y", "z"})
	assert.Nil(t, err)
	assert.Equal(t, Product{I, X, Y, Z}, p)
	assert.Equal(t, "i,x,y,z", p.String())
}

func TestProductParseError(t *testing.T) {
	_, err := ParseProduct([]string{"x", "h"})
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "qubit 1")
}

func TestProductWeight(t *testing.T) {
	assert.Equal(t, 0, Identity(3).Weight())
	assert.Equal(t, 2, Product{X, I, Z}.Weight())
}

func TestProductEqualAndClone(t *testing.T) {
	p := Product{X, I, Z}
	assert.True(t, p.Equal(Product{X, I, Z}))
	assert.False(t, p.Equal(Product{X, I}))
	assert.False(t, p.Equal(Product{X, I, Y}))

	c := p.Clone()
	c[0] = Y
	assert.Equal(t, X, p[0])
}
