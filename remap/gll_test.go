package remap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussLobattoPoints(t *testing.T) {
	// Known node sets on [0,1]
	sqrt5 := math.Sqrt(5.)
	sqrt37 := math.Sqrt(3. / 7.)
	cases := []struct {
		nP int
		G  []float64
		W  []float64
	}{
		{2, []float64{0, 1}, []float64{0.5, 0.5}},
		{3, []float64{0, 0.5, 1}, []float64{1. / 6., 2. / 3., 1. / 6.}},
		{4,
			[]float64{0, 0.5 * (1. - 1./sqrt5), 0.5 * (1. + 1./sqrt5), 1},
			[]float64{1. / 12., 5. / 12., 5. / 12., 1. / 12.}},
		{5,
			[]float64{0, 0.5 * (1. - sqrt37), 0.5, 0.5 * (1. + sqrt37), 1},
			[]float64{0.05, 49. / 180., 16. / 45., 49. / 180., 0.05}},
	}
	for _, tc := range cases {
		G, W := GaussLobattoPoints(tc.nP)
		assert.Len(t, G, tc.nP)
		assert.InDeltaSlice(t, tc.G, G, 1.e-14)
		assert.InDeltaSlice(t, tc.W, W, 1.e-14)
		var sum float64
		for _, w := range W {
			sum += w
		}
		assert.InDelta(t, 1., sum, 1.e-14)
	}
}

func TestGaussLobattoQuadratureExactness(t *testing.T) {
	// A GLL rule with nP points integrates polynomials up to degree 2*nP-3
	// exactly; check moments of x^k on [0,1]
	for nP := 2; nP <= 6; nP++ {
		G, W := GaussLobattoPoints(nP)
		for k := 0; k <= 2*nP-3; k++ {
			var quad float64
			for i := range G {
				quad += W[i] * math.Pow(G[i], float64(k))
			}
			exact := 1. / float64(k+1)
			assert.InDeltaf(t, exact, quad, 1.e-13,
				"nP = %d, moment %d", nP, k)
		}
	}
}

func TestLagrangeBasisCardinality(t *testing.T) {
	for nP := 2; nP <= 5; nP++ {
		G, _ := GaussLobattoPoints(nP)
		for p := range G {
			L := LagrangeBasis(G, G[p])
			for k := range G {
				expected := 0.
				if k == p {
					expected = 1.
				}
				assert.InDelta(t, expected, L[k], 1.e-13)
			}
		}
	}
}
