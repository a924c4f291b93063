package sphere

import "sort"

// OverlapMesh is the intersection tessellation of a source and a target
// mesh. Face i of the overlap is a fragment of source face FirstFaceIx[i]
// and target face SecondFaceIx[i]. The remap driver requires faces grouped
// contiguously by ascending FirstFaceIx; see SortByFirstFace.
type OverlapMesh struct {
	Mesh
	FirstFaceIx  []int
	SecondFaceIx []int
}

// NormalizeOrientation detects an overlap mesh whose provenance arrays were
// written target-first and swaps them in place. Detection compares the
// maximum first-face index against the two parent face counts: a first index
// that cannot address the source mesh means the arrays are inverted.
func (ov *OverlapMesh) NormalizeOrientation(nSourceFaces, nTargetFaces int) (swapped bool) {
	var maxFirst int
	for _, ix := range ov.FirstFaceIx {
		if ix > maxFirst {
			maxFirst = ix
		}
	}
	if maxFirst >= nSourceFaces && maxFirst < nTargetFaces {
		ov.FirstFaceIx, ov.SecondFaceIx = ov.SecondFaceIx, ov.FirstFaceIx
		swapped = true
	}
	return
}

// SortByFirstFace orders overlap faces into ascending contiguous groups by
// source face. The sort is stable, so within a group the input order is
// preserved.
func (ov *OverlapMesh) SortByFirstFace() {
	perm := make([]int, len(ov.Faces))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return ov.FirstFaceIx[perm[a]] < ov.FirstFaceIx[perm[b]]
	})
	var (
		faces  = make([]Face, len(ov.Faces))
		first  = make([]int, len(ov.FirstFaceIx))
		second = make([]int, len(ov.SecondFaceIx))
		areas  []float64
	)
	if ov.FaceAreas != nil {
		areas = make([]float64, len(ov.FaceAreas))
	}
	for i, p := range perm {
		faces[i] = ov.Faces[p]
		first[i] = ov.FirstFaceIx[p]
		second[i] = ov.SecondFaceIx[p]
		if areas != nil {
			areas[i] = ov.FaceAreas[p]
		}
	}
	ov.Faces, ov.FirstFaceIx, ov.SecondFaceIx = faces, first, second
	if areas != nil {
		ov.FaceAreas = areas
	}
}

// GenerateIdentityOverlap builds the trivial overlap of a mesh with itself:
// every face overlaps exactly its own counterpart.
func GenerateIdentityOverlap(m *Mesh) (ov *OverlapMesh) {
	ov = &OverlapMesh{
		Mesh: Mesh{
			Nodes: m.Nodes,
			Faces: m.Faces,
		},
		FirstFaceIx:  make([]int, len(m.Faces)),
		SecondFaceIx: make([]int, len(m.Faces)),
	}
	for i := range m.Faces {
		ov.FirstFaceIx[i] = i
		ov.SecondFaceIx[i] = i
	}
	ov.CalculateFaceAreas()
	return
}

// GenerateNestedOverlap builds a cubed-sphere source of resolution nRes, a
// refined target of resolution nRes*factor, and their overlap mesh. The
// gridlines of the refined mesh are a superset of the coarse gridlines
// (both are planes through the origin), so each fine face lies exactly
// inside one coarse face and the overlap faces are the fine faces grouped
// by parent.
func GenerateNestedOverlap(nRes, factor int) (coarse, fine *Mesh, ov *OverlapMesh) {
	if factor < 1 {
		panic("refinement factor must be at least 1")
	}
	coarse = GenerateCubedSphere(nRes)
	fine = GenerateCubedSphere(nRes * factor)

	nFine := nRes * factor
	ov = &OverlapMesh{
		Mesh: Mesh{
			Nodes: fine.Nodes,
		},
	}
	for c := range coarse.Faces {
		panel := c / (nRes * nRes)
		rem := c % (nRes * nRes)
		jc, ic := rem/nRes, rem%nRes
		for dj := 0; dj < factor; dj++ {
			for di := 0; di < factor; di++ {
				jf := jc*factor + dj
				iff := ic*factor + di
				fineIx := panel*nFine*nFine + jf*nFine + iff
				ov.Faces = append(ov.Faces, fine.Faces[fineIx])
				ov.FirstFaceIx = append(ov.FirstFaceIx, c)
				ov.SecondFaceIx = append(ov.SecondFaceIx, fineIx)
			}
		}
	}
	ov.CalculateFaceAreas()
	return
}
