package remap

import (
	"fmt"
	"math"

	"github.com/notargets/goremap/sphere"
)

// MetaData carries the spectral element degrees of freedom of an SE mesh of
// order nP: the 1-based global DOF index and the spherical Jacobian weight
// (w_p w_q |J|) of every nodal point (p,q) of every element e.
type MetaData struct {
	Order       int           `yaml:"Order"`
	NDOFs       int           `yaml:"NDOFs"`
	GLLNodes    [][][]int     `yaml:"GLLNodes"`
	GLLJacobian [][][]float64 `yaml:"GLLJacobian"`
}

// NodeIndex returns the 0-based global DOF of node (p,q) of element e.
// Metadata files carry 1-based indices; every access asserts the range.
func (md *MetaData) NodeIndex(p, q, e int) int {
	ix := md.GLLNodes[p][q][e]
	if ix < 1 || ix > md.NDOFs {
		panic(fmt.Errorf("GLL node index out of range: %d, NDOFs = %d", ix, md.NDOFs))
	}
	return ix - 1
}

// TotalJacobian sums the nodal Jacobians of element e.
func (md *MetaData) TotalJacobian(e int) (sum float64) {
	for p := 0; p < md.Order; p++ {
		for q := 0; q < md.Order; q++ {
			sum += md.GLLJacobian[p][q][e]
		}
	}
	return
}

// DOFAreas accumulates the nodal Jacobians onto the global DOFs, giving the
// area weight each source degree of freedom carries in the assembled map.
func (md *MetaData) DOFAreas(nElements int) (areas []float64) {
	areas = make([]float64, md.NDOFs)
	for e := 0; e < nElements; e++ {
		for p := 0; p < md.Order; p++ {
			for q := 0; q < md.Order; q++ {
				areas[md.NodeIndex(p, q, e)] += md.GLLJacobian[p][q][e]
			}
		}
	}
	return
}

// GenerateMetaData builds the GLL nodal metadata for a quadrilateral SE
// mesh of order nP. Nodes shared between elements (element edges and
// corners) receive a single global DOF, matched by quantized coordinates.
// With bubble set, each element's Jacobian defect against its exact
// spherical face area is redistributed over the interior nodes so the
// nodal weights sum to the face area exactly.
func GenerateMetaData(m *sphere.Mesh, nP int, bubble bool) (md *MetaData, err error) {
	if nP < 2 {
		err = fmt.Errorf("spectral element order must be at least 2, have %d", nP)
		return
	}
	if m.FaceAreas == nil {
		m.CalculateFaceAreas()
	}
	var (
		nElem = len(m.Faces)
		G, W  = GaussLobattoPoints(nP)
	)
	md = &MetaData{
		Order:       nP,
		GLLNodes:    make([][][]int, nP),
		GLLJacobian: make([][][]float64, nP),
	}
	for p := 0; p < nP; p++ {
		md.GLLNodes[p] = make([][]int, nP)
		md.GLLJacobian[p] = make([][]float64, nP)
		for q := 0; q < nP; q++ {
			md.GLLNodes[p][q] = make([]int, nElem)
			md.GLLJacobian[p][q] = make([]float64, nElem)
		}
	}

	dofIx := make(map[[3]int64]int)
	globalDOF := func(pt sphere.Node) int {
		key := [3]int64{
			int64(math.Round(pt.X * 1.e+10)),
			int64(math.Round(pt.Y * 1.e+10)),
			int64(math.Round(pt.Z * 1.e+10)),
		}
		if ix, ok := dofIx[key]; ok {
			return ix
		}
		ix := len(dofIx) + 1 // 1-based
		dofIx[key] = ix
		return ix
	}

	for e, face := range m.Faces {
		if face.NEdges() != 4 {
			err = fmt.Errorf("%w: face %d has %d edges", ErrUnsupportedElement, e, face.NEdges())
			return
		}
		var (
			n0, n1 = m.Nodes[face[0]], m.Nodes[face[1]]
			n2, n3 = m.Nodes[face[2]], m.Nodes[face[3]]
		)
		for p := 0; p < nP; p++ {
			for q := 0; q < nP; q++ {
				B := BilinearPoint(n0, n1, n2, n3, G[p], G[q])
				mag := B.Magnitude()
				X := B.Scale(1. / mag)
				md.GLLNodes[p][q][e] = globalDOF(X)

				// Tangent derivatives of the normalized bilinear map
				dBa := n1.Sub(n0).Scale(1. - G[q]).Add(n2.Sub(n3).Scale(G[q]))
				dBb := n3.Sub(n0).Scale(1. - G[p]).Add(n2.Sub(n1).Scale(G[p]))
				dXa := dBa.Sub(X.Scale(X.Dot(dBa))).Scale(1. / mag)
				dXb := dBb.Sub(X.Scale(X.Dot(dBb))).Scale(1. / mag)

				md.GLLJacobian[p][q][e] = W[p] * W[q] * dXa.Cross(dXb).Magnitude()
			}
		}
		if bubble {
			applyBubble(md, e, nP, m.FaceAreas[e])
		}
	}
	md.NDOFs = len(dofIx)
	return
}

// applyBubble closes the quadrature defect of element e against its exact
// face area by scaling weight onto the interior nodes (all nodes when
// nP == 2, which has no interior).
func applyBubble(md *MetaData, e, nP int, faceArea float64) {
	var defect = faceArea - md.TotalJacobian(e)
	var (
		pLo, pHi = 1, nP - 1
	)
	if nP == 2 {
		pLo, pHi = 0, nP
	}
	var interior float64
	for p := pLo; p < pHi; p++ {
		for q := pLo; q < pHi; q++ {
			interior += md.GLLJacobian[p][q][e]
		}
	}
	if interior <= 0. {
		return
	}
	for p := pLo; p < pHi; p++ {
		for q := pLo; q < pHi; q++ {
			md.GLLJacobian[p][q][e] += defect * md.GLLJacobian[p][q][e] / interior
		}
	}
}
