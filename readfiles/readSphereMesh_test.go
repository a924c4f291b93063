package readfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/goremap/remap"
	"github.com/notargets/goremap/sphere"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereMeshRoundTrip(t *testing.T) {
	var (
		m        = sphere.GenerateCubedSphere(2)
		filename = filepath.Join(t.TempDir(), "mesh.g")
	)
	require.NoError(t, WriteSphereMesh(filename, m))

	r, err := ReadSphereMesh(filename)
	require.NoError(t, err)
	require.Equal(t, len(m.Nodes), len(r.Nodes))
	require.Equal(t, len(m.Faces), len(r.Faces))
	for i, n := range m.Nodes {
		assert.Equal(t, n, r.Nodes[i])
	}
	for i, f := range m.Faces {
		assert.Equal(t, f, r.Faces[i])
	}
	for i, a := range m.FaceAreas {
		assert.InDelta(t, a, r.FaceAreas[i], 1.e-15)
	}
}

func TestOverlapMeshRoundTrip(t *testing.T) {
	var (
		_, _, ov = sphere.GenerateNestedOverlap(1, 2)
		filename = filepath.Join(t.TempDir(), "ov.g")
	)
	require.NoError(t, WriteOverlapMesh(filename, ov))

	r, err := ReadOverlapMesh(filename)
	require.NoError(t, err)
	assert.Equal(t, ov.FirstFaceIx, r.FirstFaceIx)
	assert.Equal(t, ov.SecondFaceIx, r.SecondFaceIx)
	require.Equal(t, len(ov.Faces), len(r.Faces))
	for i := range ov.Faces {
		assert.Equal(t, ov.Faces[i], r.Faces[i])
	}
}

func TestReadSphereMeshErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadSphereMesh(filepath.Join(dir, "missing.g"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.g")
	require.NoError(t, os.WriteFile(bad, []byte("NODES 1\n0 0 1\nFACES 1\n2 1 1\n"), 0644))
	_, err = ReadSphereMesh(bad)
	assert.Error(t, err)

	truncated := filepath.Join(dir, "trunc.g")
	require.NoError(t, os.WriteFile(truncated, []byte("NODES 2\n0 0 1\n"), 0644))
	_, err = ReadSphereMesh(truncated)
	assert.Error(t, err)
}

func TestMetaDataRoundTrip(t *testing.T) {
	m := sphere.GenerateCubedSphere(1)
	md, err := remap.GenerateMetaData(m, 3, true)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, WriteMetaData(filename, md))

	r, err := ReadMetaData(filename)
	require.NoError(t, err)
	assert.Equal(t, md.Order, r.Order)
	assert.Equal(t, md.NDOFs, r.NDOFs)
	assert.Equal(t, md.GLLNodes, r.GLLNodes)
	assert.Equal(t, md.GLLJacobian, r.GLLJacobian)
}

func TestReadMetaDataValidates(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, os.WriteFile(filename,
		[]byte("Order: 1\nNDOFs: 0\n"), 0644))
	_, err := ReadMetaData(filename)
	assert.Error(t, err)
}
