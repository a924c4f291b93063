package remap

// TriangularQuadratureRule holds barycentric points G[l] = (g0,g1,g2) and
// weights W[l] for quadrature over a reference triangle. Weights are
// normalized to sum to 1, so integrals scale by the physical triangle area.
type TriangularQuadratureRule struct {
	Order int
	G     [][3]float64
	W     []float64
}

// NewTriangularQuadratureRule returns a symmetric rule exact for
// polynomials up to the given degree. Degrees 1, 2 and 4 are tabulated;
// the remap kernel uses degree 4.
func NewTriangularQuadratureRule(order int) (rule TriangularQuadratureRule) {
	rule.Order = order
	switch order {
	case 1:
		third := 1. / 3.
		rule.G = [][3]float64{{third, third, third}}
		rule.W = []float64{1.}
	case 2:
		rule.G = [][3]float64{
			{2. / 3., 1. / 6., 1. / 6.},
			{1. / 6., 2. / 3., 1. / 6.},
			{1. / 6., 1. / 6., 2. / 3.},
		}
		rule.W = []float64{1. / 3., 1. / 3., 1. / 3.}
	case 4:
		const (
			a1 = 0.108103018168070
			b1 = 0.445948490915965
			w1 = 0.223381589678011
			a2 = 0.816847572980459
			b2 = 0.091576213509771
			w2 = 0.109951743655322
		)
		rule.G = [][3]float64{
			{a1, b1, b1},
			{b1, a1, b1},
			{b1, b1, a1},
			{a2, b2, b2},
			{b2, a2, b2},
			{b2, b2, a2},
		}
		rule.W = []float64{w1, w1, w1, w2, w2, w2}
	default:
		panic("unsupported triangular quadrature order")
	}
	return
}

// NPoints returns the number of quadrature points.
func (rule TriangularQuadratureRule) NPoints() int {
	return len(rule.W)
}
