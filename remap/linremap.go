package remap

import (
	"fmt"
	"math"

	"github.com/notargets/goremap/sphere"
	"github.com/notargets/goremap/utils"
	"go.uber.org/zap"
)

// CoverageTol bounds the mismatch between an element's summed overlap area
// and its face area before the element is treated as partially covered.
const CoverageTol = 1.e-10

// Stats summarizes a kernel run.
type Stats struct {
	SourceElements  int
	OverlapFaces    int
	PartialElements int
}

// RemapSE0 is the low-order reference baseline: every overlap fragment
// receives the area-weighted nodal Jacobian of its source element,
// independent of where the fragment sits inside the element.
func RemapSE0(src, tgt *sphere.Mesh, ov *sphere.OverlapMesh, md *MetaData,
	offline *OfflineMap) (err error) {
	var (
		nP          = md.Order
		lastFirst   = -1
		totJacobian float64
	)
	for i := range ov.Faces {
		var (
			first  = ov.FirstFaceIx[i]
			second = ov.SecondFaceIx[i]
		)
		if src.Faces[first].NEdges() != 4 {
			err = fmt.Errorf("%w: face %d has %d edges",
				ErrUnsupportedElement, first, src.Faces[first].NEdges())
			return
		}
		if lastFirst != first {
			totJacobian = md.TotalJacobian(first)
			lastFirst = first
		}
		for p := 0; p < nP; p++ {
			for q := 0; q < nP; q++ {
				offline.W.Accumulate(second, md.NodeIndex(p, q, first),
					md.GLLJacobian[p][q][first]/totJacobian*
						ov.FaceAreas[i]/tgt.FaceAreas[second])
			}
		}
	}
	offline.SetAreas(md.DOFAreas(len(src.Faces)), tgt.FaceAreas)
	return
}

// RemapSE assembles the high-order conservative SE to FV remap operator.
// For each source element it quadratures the GLL basis over the overlap
// fragments (fan triangulation, degree-4 triangle rule, inverse bilinear
// map back to the reference square), corrects the raw coefficients for
// consistency and conservation, and folds the result into the sparse map.
// Partially covered elements keep their raw coefficients and are counted
// in the returned stats.
func RemapSE(src, tgt *sphere.Mesh, ov *sphere.OverlapMesh, md *MetaData,
	monotone bool, offline *OfflineMap, log *zap.SugaredLogger) (stats Stats, err error) {
	var (
		nP      = md.Order
		sampler = NewGLLSampler(nP, monotone)
		rule    = NewTriangularQuadratureRule(4)
		sample  = utils.NewMatrix(nP, nP)
		srcArea = utils.NewVector(nP * nP)
		ixOvl   int
	)
	stats.SourceElements = len(src.Faces)

	for ixFirst := range src.Faces {
		faceFirst := src.Faces[ixFirst]
		if faceFirst.NEdges() != 4 {
			err = fmt.Errorf("%w: face %d has %d edges",
				ErrUnsupportedElement, ixFirst, faceFirst.NEdges())
			return
		}
		if log != nil && ixFirst%100 == 0 {
			log.Debugf("element %d", ixFirst)
		}

		// Contiguous overlap group of this source face
		nOverlapFaces := 0
		for ix := ixOvl; ix < len(ov.Faces); ix++ {
			if ov.FirstFaceIx[ix] != ixFirst {
				break
			}
			nOverlapFaces++
		}
		if nOverlapFaces == 0 {
			continue
		}
		stats.OverlapFaces += nOverlapFaces

		dRemapCoeff := make([][][]float64, nP)
		for p := 0; p < nP; p++ {
			dRemapCoeff[p] = make([][]float64, nP)
			for q := 0; q < nP; q++ {
				dRemapCoeff[p][q] = make([]float64, nOverlapFaces)
			}
		}

		for j := 0; j < nOverlapFaces; j++ {
			faceOverlap := ov.Faces[ixOvl+j]
			ovArea := ov.FaceAreas[ixOvl+j]

			// Fan triangulation on vertex 0
			for k := 0; k < faceOverlap.NEdges()-2; k++ {
				var (
					node0 = ov.Nodes[faceOverlap[0]]
					node1 = ov.Nodes[faceOverlap[k+1]]
					node2 = ov.Nodes[faceOverlap[k+2]]
				)
				triArea := sphere.CalculateTriangleArea(node0, node1, node2)

				for l := 0; l < rule.NPoints(); l++ {
					g := rule.G[l]
					nodeQ := sphere.Node{
						X: g[0]*node0.X + g[1]*node1.X + g[2]*node2.X,
						Y: g[0]*node0.Y + g[1]*node1.Y + g[2]*node2.Y,
						Z: g[0]*node0.Z + g[1]*node1.Z + g[2]*node2.Z,
					}.Normalize()

					var alpha, beta float64
					if alpha, beta, err = ApplyInverseMap(faceFirst, src.Nodes, nodeQ); err != nil {
						err = fmt.Errorf("source element %d, overlap face %d: %w",
							ixFirst, ixOvl+j, err)
						return
					}
					sampler.Sample(alpha, beta, sample)

					for p := 0; p < nP; p++ {
						for q := 0; q < nP; q++ {
							dRemapCoeff[p][q][j] +=
								rule.W[l] * triArea * sample.At(p, q) / ovArea
						}
					}
				}
			}
		}

		// Force consistency and conservation over this element
		for p := 0; p < nP; p++ {
			for q := 0; q < nP; q++ {
				srcArea.DataP[p*nP+q] = md.GLLJacobian[p][q][ixFirst]
			}
		}
		tgtArea := utils.NewVector(nOverlapFaces)
		var tgtTotal float64
		for j := 0; j < nOverlapFaces; j++ {
			tgtArea.DataP[j] = ov.FaceAreas[ixOvl+j]
			tgtTotal += ov.FaceAreas[ixOvl+j]
		}

		if math.Abs(tgtTotal-src.FaceAreas[ixFirst]) > CoverageTol {
			stats.PartialElements++
			if log != nil {
				log.Infof("partial element: %d", ixFirst)
			}
		} else {
			C := utils.NewMatrix(nOverlapFaces, nP*nP)
			for j := 0; j < nOverlapFaces; j++ {
				for p := 0; p < nP; p++ {
					for q := 0; q < nP; q++ {
						C.Set(j, p*nP+q, dRemapCoeff[p][q][j])
					}
				}
			}
			if err = ForceConsistencyConservation(srcArea, tgtArea, C, monotone, log); err != nil {
				err = fmt.Errorf("source element %d: %w", ixFirst, err)
				return
			}
			for j := 0; j < nOverlapFaces; j++ {
				for p := 0; p < nP; p++ {
					for q := 0; q < nP; q++ {
						dRemapCoeff[p][q][j] = C.At(j, p*nP+q)
					}
				}
			}
		}

		// Fold into the sparse map
		for j := 0; j < nOverlapFaces; j++ {
			ixSecond := ov.SecondFaceIx[ixOvl+j]
			for p := 0; p < nP; p++ {
				for q := 0; q < nP; q++ {
					offline.W.Accumulate(ixSecond, md.NodeIndex(p, q, ixFirst),
						dRemapCoeff[p][q][j]*
							ov.FaceAreas[ixOvl+j]/tgt.FaceAreas[ixSecond])
				}
			}
		}

		ixOvl += nOverlapFaces
	}

	offline.SetAreas(md.DOFAreas(len(src.Faces)), tgt.FaceAreas)
	return
}

// AuditAreas compares total overlap area against total source area. A
// mismatch beyond tol means the overlap mesh does not tile the source mesh;
// callers downgrade post-run verification in that case.
func AuditAreas(src *sphere.Mesh, ov *sphere.OverlapMesh, tol float64,
	log *zap.SugaredLogger) (mismatch float64, ok bool) {
	mismatch = math.Abs(ov.TotalArea() - src.TotalArea())
	ok = mismatch <= tol
	if !ok && log != nil {
		log.Warnf("overlap area does not match source area: mismatch = %1.5e", mismatch)
	}
	return
}
