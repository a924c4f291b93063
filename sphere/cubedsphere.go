package sphere

import "math"

// GenerateCubedSphere builds an equiangular gnomonic cubed-sphere mesh with
// nRes x nRes quadrilateral faces per cube panel (6*nRes*nRes faces total).
// Nodes shared between panels are deduplicated so the mesh is watertight.
// Faces are ordered panel-major, then row-major within a panel; the nested
// overlap builder relies on this ordering.
func GenerateCubedSphere(nRes int) (m *Mesh) {
	if nRes < 1 {
		panic("cubed sphere resolution must be at least 1")
	}
	m = &Mesh{}

	// Equiangular gridline coordinates on the gnomonic panel, snapped to the
	// exact cube edge so shared panel boundaries deduplicate exactly.
	coords := make([]float64, nRes+1)
	dAngle := 0.5 * math.Pi / float64(nRes)
	for i := 0; i <= nRes; i++ {
		c := math.Tan(-0.25*math.Pi + float64(i)*dAngle)
		if math.Abs(c-1.) < 1.e-14 {
			c = 1.
		}
		if math.Abs(c+1.) < 1.e-14 {
			c = -1.
		}
		coords[i] = c
	}

	nodeIx := make(map[[3]int64]int)
	addNode := func(p Node) int {
		p = p.Normalize()
		key := [3]int64{
			int64(math.Round(p.X * 1.e+10)),
			int64(math.Round(p.Y * 1.e+10)),
			int64(math.Round(p.Z * 1.e+10)),
		}
		if ix, ok := nodeIx[key]; ok {
			return ix
		}
		ix := len(m.Nodes)
		nodeIx[key] = ix
		m.Nodes = append(m.Nodes, p)
		return ix
	}

	panelNode := func(panel int, x, y float64) Node {
		switch panel {
		case 0:
			return Node{1., x, y}
		case 1:
			return Node{-x, 1., y}
		case 2:
			return Node{-1., -x, y}
		case 3:
			return Node{x, -1., y}
		case 4:
			return Node{x, y, 1.}
		default:
			return Node{x, y, -1.}
		}
	}

	for panel := 0; panel < 6; panel++ {
		// Vertex index grid for this panel
		grid := make([][]int, nRes+1)
		for j := 0; j <= nRes; j++ {
			grid[j] = make([]int, nRes+1)
			for i := 0; i <= nRes; i++ {
				grid[j][i] = addNode(panelNode(panel, coords[i], coords[j]))
			}
		}
		for j := 0; j < nRes; j++ {
			for i := 0; i < nRes; i++ {
				m.Faces = append(m.Faces, Face{
					grid[j][i],
					grid[j][i+1],
					grid[j+1][i+1],
					grid[j+1][i],
				})
			}
		}
	}
	m.CalculateFaceAreas()
	return
}
