package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapParametersParse(t *testing.T) {
	rp := NewRemapParameters()
	assert.Equal(t, 4, rp.PolynomialOrder)
	assert.True(t, rp.Bubble)
	assert.False(t, rp.Monotone)

	data := []byte(`
Title: "NE30 remap"
PolynomialOrder: 3
Monotone: true
CoverageTol: 1.0e-9
`)
	require.NoError(t, rp.Parse(data))
	assert.Equal(t, "NE30 remap", rp.Title)
	assert.Equal(t, 3, rp.PolynomialOrder)
	assert.True(t, rp.Monotone)
	assert.Equal(t, 1.e-9, rp.CoverageTol)
	// Untouched fields keep their defaults
	assert.Equal(t, 1.e-8, rp.ConsistencyTol)
}
