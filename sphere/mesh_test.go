package sphere

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTriangleArea(t *testing.T) {
	// One octant of the sphere: all angles are right angles, area pi/2
	var (
		nx = Node{X: 1}
		ny = Node{Y: 1}
		nz = Node{Z: 1}
	)
	assert.InDelta(t, 0.5*math.Pi, CalculateTriangleArea(nx, ny, nz), 1.e-13)

	// Degenerate triangle has zero area
	assert.InDelta(t, 0., CalculateTriangleArea(nx, nx, ny), 1.e-13)
}

func TestCalculateFaceAreaQuad(t *testing.T) {
	// One projected cube panel covers a sixth of the sphere
	nodes := []Node{
		{X: 1, Y: -1, Z: -1},
		{X: 1, Y: 1, Z: -1},
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: 1},
	}
	for i := range nodes {
		nodes[i] = nodes[i].Normalize()
	}
	face := Face{0, 1, 2, 3}
	assert.InDelta(t, 2.*math.Pi/3., CalculateFaceArea(face, nodes), 1.e-13)
}

func TestGenerateCubedSphere(t *testing.T) {
	for _, nRes := range []int{1, 2, 3, 4} {
		m := GenerateCubedSphere(nRes)
		assert.Equal(t, 6*nRes*nRes, len(m.Faces))
		// Closed quad mesh on the sphere: V = F + 2
		assert.Equal(t, 6*nRes*nRes+2, len(m.Nodes))
		require.NoError(t, m.Validate())
		assert.InDeltaf(t, 4.*math.Pi, m.TotalArea(), 1.e-10, "nRes = %d", nRes)
	}
}

func TestMeshValidate(t *testing.T) {
	m := &Mesh{
		Nodes: []Node{{X: 1}, {Y: 1}, {Z: 1}},
		Faces: []Face{{0, 1, 2}},
	}
	require.NoError(t, m.Validate())

	bad := &Mesh{
		Nodes: m.Nodes,
		Faces: []Face{{0, 1}},
	}
	assert.Error(t, bad.Validate())

	offSphere := &Mesh{
		Nodes: []Node{{X: 2}, {Y: 1}, {Z: 1}},
		Faces: []Face{{0, 1, 2}},
	}
	assert.Error(t, offSphere.Validate())

	outOfRange := &Mesh{
		Nodes: m.Nodes,
		Faces: []Face{{0, 1, 7}},
	}
	assert.Error(t, outOfRange.Validate())
}

func TestGenerateIdentityOverlap(t *testing.T) {
	m := GenerateCubedSphere(2)
	ov := GenerateIdentityOverlap(m)
	require.Equal(t, len(m.Faces), len(ov.Faces))
	for i := range ov.Faces {
		assert.Equal(t, i, ov.FirstFaceIx[i])
		assert.Equal(t, i, ov.SecondFaceIx[i])
		assert.Equal(t, m.FaceAreas[i], ov.FaceAreas[i])
	}
}

func TestGenerateNestedOverlap(t *testing.T) {
	coarse, fine, ov := GenerateNestedOverlap(2, 2)
	require.Equal(t, len(fine.Faces), len(ov.Faces))

	// Children tile their parents exactly
	parentArea := make([]float64, len(coarse.Faces))
	for i := range ov.Faces {
		parentArea[ov.FirstFaceIx[i]] += ov.FaceAreas[i]
	}
	for c := range coarse.Faces {
		assert.InDeltaf(t, coarse.FaceAreas[c], parentArea[c], 1.e-12, "parent %d", c)
	}

	// Contiguous ascending groups by construction
	for i := 1; i < len(ov.Faces); i++ {
		assert.LessOrEqual(t, ov.FirstFaceIx[i-1], ov.FirstFaceIx[i])
	}

	// Every fine face appears exactly once
	seen := make([]bool, len(fine.Faces))
	for _, ix := range ov.SecondFaceIx {
		require.False(t, seen[ix])
		seen[ix] = true
	}
}

func TestNormalizeOrientation(t *testing.T) {
	_, _, ov := GenerateNestedOverlap(2, 2)
	var (
		nSource = 24
		nTarget = 96
		first   = append([]int{}, ov.FirstFaceIx...)
		second  = append([]int{}, ov.SecondFaceIx...)
	)
	// Correctly oriented: no swap
	assert.False(t, ov.NormalizeOrientation(nSource, nTarget))

	// Inverted provenance: detected and swapped back
	ov.FirstFaceIx, ov.SecondFaceIx = ov.SecondFaceIx, ov.FirstFaceIx
	assert.True(t, ov.NormalizeOrientation(nSource, nTarget))
	assert.Equal(t, first, ov.FirstFaceIx)
	assert.Equal(t, second, ov.SecondFaceIx)
}

func TestSortByFirstFace(t *testing.T) {
	_, _, ov := GenerateNestedOverlap(1, 2)
	// Scramble: reverse everything
	n := len(ov.Faces)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		ov.Faces[i], ov.Faces[j] = ov.Faces[j], ov.Faces[i]
		ov.FirstFaceIx[i], ov.FirstFaceIx[j] = ov.FirstFaceIx[j], ov.FirstFaceIx[i]
		ov.SecondFaceIx[i], ov.SecondFaceIx[j] = ov.SecondFaceIx[j], ov.SecondFaceIx[i]
		ov.FaceAreas[i], ov.FaceAreas[j] = ov.FaceAreas[j], ov.FaceAreas[i]
	}
	ov.SortByFirstFace()
	for i := 1; i < n; i++ {
		assert.LessOrEqual(t, ov.FirstFaceIx[i-1], ov.FirstFaceIx[i])
	}
	// Areas stay attached to their faces
	for i := range ov.Faces {
		assert.Equal(t, CalculateFaceArea(ov.Faces[i], ov.Nodes), ov.FaceAreas[i])
	}
}
