package remap

import (
	"math"
	"testing"

	"github.com/notargets/goremap/sphere"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMetaDataDOFCount(t *testing.T) {
	// Continuous GLL DOFs on a closed quad mesh:
	// F*(nP-2)^2 interior + E*(nP-2) edge + V vertex DOFs,
	// with E = 2F and V = F + 2 on a sphere
	m := sphere.GenerateCubedSphere(2)
	var (
		F = len(m.Faces)
		E = 2 * F
		V = F + 2
	)
	for nP := 2; nP <= 4; nP++ {
		md, err := GenerateMetaData(m, nP, false)
		require.NoError(t, err)
		expected := F*(nP-2)*(nP-2) + E*(nP-2) + V
		assert.Equalf(t, expected, md.NDOFs, "nP = %d", nP)
	}
}

func TestGenerateMetaDataSharedEdges(t *testing.T) {
	// Neighboring elements must agree on the DOFs along their shared edge;
	// count how many elements reference each DOF: vertex DOFs of the
	// cubed sphere are shared by 3 or 4 elements
	m := sphere.GenerateCubedSphere(2)
	md, err := GenerateMetaData(m, 4, false)
	require.NoError(t, err)

	refs := make([]int, md.NDOFs)
	for e := range m.Faces {
		for p := 0; p < 4; p++ {
			for q := 0; q < 4; q++ {
				refs[md.NodeIndex(p, q, e)]++
			}
		}
	}
	var interior, edge, vertex int
	for _, n := range refs {
		switch n {
		case 1:
			interior++
		case 2:
			edge++
		case 3, 4:
			vertex++
		default:
			t.Fatalf("DOF referenced by %d elements", n)
		}
	}
	assert.Equal(t, len(m.Faces)*4, interior)
	assert.Equal(t, 2*len(m.Faces)*2, edge)
	assert.Equal(t, len(m.Faces)+2, vertex)
}

func TestGenerateMetaDataJacobians(t *testing.T) {
	m := sphere.GenerateCubedSphere(2)

	// Without bubble the per-element Jacobian sum approximates the face
	// area with quadrature error
	md, err := GenerateMetaData(m, 4, false)
	require.NoError(t, err)
	var total float64
	for e := range m.Faces {
		sum := md.TotalJacobian(e)
		assert.InDelta(t, m.FaceAreas[e], sum, 1.e-3*m.FaceAreas[e])
		total += sum
	}
	assert.InDelta(t, 4.*math.Pi, total, 1.e-2)

	// With bubble the defect closes exactly
	md, err = GenerateMetaData(m, 4, true)
	require.NoError(t, err)
	total = 0.
	for e := range m.Faces {
		assert.InDelta(t, m.FaceAreas[e], md.TotalJacobian(e), 1.e-13)
		total += md.TotalJacobian(e)
	}
	assert.InDelta(t, 4.*math.Pi, total, 1.e-11)
}

func TestGenerateMetaDataRejectsNonQuad(t *testing.T) {
	m := &sphere.Mesh{
		Nodes: []sphere.Node{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
		Faces: []sphere.Face{{0, 1, 2}},
	}
	_, err := GenerateMetaData(m, 4, false)
	assert.ErrorIs(t, err, ErrUnsupportedElement)
}

func TestDOFAreas(t *testing.T) {
	m := sphere.GenerateCubedSphere(2)
	md, err := GenerateMetaData(m, 4, true)
	require.NoError(t, err)
	areas := md.DOFAreas(len(m.Faces))
	var total float64
	for _, a := range areas {
		assert.Greater(t, a, 0.)
		total += a
	}
	assert.InDelta(t, 4.*math.Pi, total, 1.e-11)
}
