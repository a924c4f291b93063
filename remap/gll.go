package remap

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GaussLobattoPoints returns the nP Gauss-Lobatto-Legendre nodes and
// quadrature weights on [0,1]. The interior nodes are the roots of P'_{nP-1},
// obtained as the Gauss nodes of the Jacobi(1,1) weight via the symmetric
// tridiagonal eigenproblem; the weights follow from the Lobatto formula
// w_i = 2 / (N(N+1) P_N(x_i)^2) with N = nP-1, halved by the affine map
// from [-1,1]. The weights sum to 1.
func GaussLobattoPoints(nP int) (G, W []float64) {
	if nP < 2 {
		panic("GLL node count must be at least 2")
	}
	var (
		N = nP - 1
		x = make([]float64, nP)
	)
	x[0], x[N] = -1., 1.
	if nP > 2 {
		xint := jacobiGQNodes(1., 1., nP-3)
		copy(x[1:N], xint)
	}

	G = make([]float64, nP)
	W = make([]float64, nP)
	fac := 2. / (float64(N) * float64(N+1))
	for i := 0; i < nP; i++ {
		p := legendreP(N, x[i])
		G[i] = 0.5 * (x[i] + 1.)
		W[i] = 0.5 * fac / (p * p)
	}
	// Snap the mapped endpoints
	G[0], G[N] = 0., 1.
	return
}

// jacobiGQNodes returns the N+1 Gauss quadrature nodes for the Jacobi
// (alpha,beta) weight on [-1,1], computed as the eigenvalues of the
// recurrence tridiagonal.
func jacobiGQNodes(alpha, beta float64, N int) (x []float64) {
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}
	}
	var (
		h1 = make([]float64, N+1)
		d0 = make([]float64, N+1)
		d1 = make([]float64, N)
	)
	for i := 0; i < N+1; i++ {
		h1[i] = 2.*float64(i) + alpha + beta
	}
	fac := -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		d0[i] = fac / (h1[i] * (h1[i] + 2.))
	}
	eps := 1.e-16
	if alpha+beta < 10.*eps {
		d0[0] = 0.
	}
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) /
			((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, false); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)
	return
}

// legendreP evaluates the Legendre polynomial P_n at x by the three-term
// recurrence.
func legendreP(n int, x float64) float64 {
	if n == 0 {
		return 1.
	}
	var (
		pm = 1.
		p  = x
	)
	for k := 1; k < n; k++ {
		fk := float64(k)
		pp := ((2.*fk+1.)*x*p - fk*pm) / (fk + 1.)
		pm, p = p, pp
	}
	return p
}

// LagrangeBasis evaluates the nP cardinal Lagrange interpolants anchored at
// the nodes G at the point x.
func LagrangeBasis(G []float64, x float64) (L []float64) {
	L = make([]float64, len(G))
	for p := range G {
		l := 1.
		for k := range G {
			if k == p {
				continue
			}
			l *= (x - G[k]) / (G[p] - G[k])
		}
		L[p] = l
	}
	return
}
