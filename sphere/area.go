package sphere

import "math"

// CalculateTriangleArea computes the area of the spherical triangle with
// vertices n0, n1, n2 by L'Huilier's formula. Side lengths come from chord
// distances, which stay accurate for small triangles where the dot-product
// form loses digits.
func CalculateTriangleArea(n0, n1, n2 Node) (area float64) {
	var (
		a = 2. * math.Asin(0.5*n1.Sub(n0).Magnitude())
		b = 2. * math.Asin(0.5*n2.Sub(n1).Magnitude())
		c = 2. * math.Asin(0.5*n0.Sub(n2).Magnitude())
	)
	s := 0.5 * (a + b + c)
	t := math.Tan(0.5*s) * math.Tan(0.5*(s-a)) * math.Tan(0.5*(s-b)) * math.Tan(0.5*(s-c))
	if t < 0. {
		// Roundoff on degenerate triangles
		t = 0.
	}
	area = 4. * math.Atan(math.Sqrt(t))
	return
}

// CalculateFaceArea computes the spherical area of a polygonal face by
// fan triangulation on vertex 0. The per-element quadrature uses the same
// decomposition, so accumulated sub-triangle areas match the face area
// exactly up to roundoff.
func CalculateFaceArea(face Face, nodes []Node) (area float64) {
	for k := 0; k < face.NEdges()-2; k++ {
		area += CalculateTriangleArea(
			nodes[face[0]],
			nodes[face[k+1]],
			nodes[face[k+2]])
	}
	return
}
