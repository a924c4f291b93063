package remap

import (
	"github.com/notargets/goremap/utils"
)

// GLLSampler evaluates the nP x nP tensor-product nodal basis of a
// spectral element at reference coordinates (alpha, beta) in the unit
// square. The standard branch uses the Lagrange interpolants at the GLL
// nodes, which take negative values for nP >= 3. The monotone branch
// replaces them with piecewise-bilinear tent weights on the (nP-1)x(nP-1)
// GLL sub-grid, which are pointwise nonnegative. Both branches sum to 1
// at every (alpha, beta).
type GLLSampler struct {
	NP       int
	Monotone bool
	G, W     []float64
}

func NewGLLSampler(nP int, monotone bool) (s GLLSampler) {
	G, W := GaussLobattoPoints(nP)
	s = GLLSampler{
		NP:       nP,
		Monotone: monotone,
		G:        G,
		W:        W,
	}
	return
}

// Sample fills S[p][q] with the basis values at (alpha, beta), S sized
// NP x NP. S[p][q] couples to the nodal value at node (G[p], G[q]).
func (s GLLSampler) Sample(alpha, beta float64, S utils.Matrix) {
	if s.Monotone {
		s.sampleBilinear(alpha, beta, S)
		return
	}
	var (
		La = LagrangeBasis(s.G, alpha)
		Lb = LagrangeBasis(s.G, beta)
	)
	for p := 0; p < s.NP; p++ {
		for q := 0; q < s.NP; q++ {
			S.Set(p, q, La[p]*Lb[q])
		}
	}
}

// sampleBilinear assigns positive weight only to the four GLL nodes
// surrounding the sub-cell containing (alpha, beta). A point on a shared
// sub-cell edge belongs to the higher-indexed cell (alpha = G[i] lands in
// cell i, not i-1).
func (s GLLSampler) sampleBilinear(alpha, beta float64, S utils.Matrix) {
	for p := 0; p < s.NP; p++ {
		for q := 0; q < s.NP; q++ {
			S.Set(p, q, 0.)
		}
	}
	i, u := s.subCell(alpha)
	j, v := s.subCell(beta)
	S.Set(i, j, (1.-u)*(1.-v))
	S.Set(i+1, j, u*(1.-v))
	S.Set(i, j+1, (1.-u)*v)
	S.Set(i+1, j+1, u*v)
}

func (s GLLSampler) subCell(x float64) (i int, u float64) {
	i = s.NP - 2
	for ; i > 0; i-- {
		if x >= s.G[i] {
			break
		}
	}
	u = (x - s.G[i]) / (s.G[i+1] - s.G[i])
	return
}
