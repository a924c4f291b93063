package remap

import (
	"math/rand"
	"testing"

	"github.com/notargets/goremap/utils"
	"github.com/stretchr/testify/assert"
)

func TestSamplePartitionOfUnity(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, monotone := range []bool{false, true} {
		for nP := 2; nP <= 5; nP++ {
			var (
				sampler = NewGLLSampler(nP, monotone)
				S       = utils.NewMatrix(nP, nP)
			)
			for trial := 0; trial < 1000; trial++ {
				alpha, beta := rnd.Float64(), rnd.Float64()
				sampler.Sample(alpha, beta, S)
				var sum float64
				for _, v := range S.DataP {
					sum += v
				}
				assert.InDeltaf(t, 1., sum, 1.e-13,
					"monotone = %v, nP = %d, (%v,%v)", monotone, nP, alpha, beta)
			}
		}
	}
}

func TestSampleMonotoneNonnegative(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for nP := 2; nP <= 5; nP++ {
		var (
			sampler = NewGLLSampler(nP, true)
			S       = utils.NewMatrix(nP, nP)
		)
		for trial := 0; trial < 1000; trial++ {
			sampler.Sample(rnd.Float64(), rnd.Float64(), S)
			assert.GreaterOrEqual(t, S.Min(), 0.)
		}
	}
}

func TestSampleStandardNegativeLobes(t *testing.T) {
	// The Lagrange tensor basis takes negative values for nP >= 3
	var (
		sampler = NewGLLSampler(4, false)
		S       = utils.NewMatrix(4, 4)
	)
	sampler.Sample(0.5, 0.5, S)
	assert.Less(t, S.Min(), 0.)
}

func TestSampleNodalCardinality(t *testing.T) {
	// Sampling at a GLL node activates exactly that node in both branches
	for _, monotone := range []bool{false, true} {
		nP := 4
		sampler := NewGLLSampler(nP, monotone)
		S := utils.NewMatrix(nP, nP)
		for p := 0; p < nP; p++ {
			for q := 0; q < nP; q++ {
				sampler.Sample(sampler.G[p], sampler.G[q], S)
				for pp := 0; pp < nP; pp++ {
					for qq := 0; qq < nP; qq++ {
						expected := 0.
						if pp == p && qq == q {
							expected = 1.
						}
						assert.InDeltaf(t, expected, S.At(pp, qq), 1.e-13,
							"monotone = %v, node (%d,%d), basis (%d,%d)",
							monotone, p, q, pp, qq)
					}
				}
			}
		}
	}
}

func TestSampleMonotoneTieBreak(t *testing.T) {
	// A point on an interior sub-grid line belongs to the higher-indexed
	// cell: at alpha = G[1] the weight on node 1 is full, with no spill
	// into cell 0
	var (
		sampler = NewGLLSampler(4, true)
		S       = utils.NewMatrix(4, 4)
	)
	i, u := sampler.subCell(sampler.G[1])
	assert.Equal(t, 1, i)
	assert.Equal(t, 0., u)
	sampler.Sample(sampler.G[1], 0.5*(sampler.G[1]+sampler.G[2]), S)
	assert.Equal(t, 0., S.At(0, 1))
	assert.Equal(t, 0., S.At(0, 2))
}
