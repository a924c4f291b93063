package remap

import (
	"fmt"
	"math"

	"github.com/notargets/goremap/utils"
	"go.uber.org/zap"
)

// ForceConsistencyConservation rewrites the per-element coefficient matrix
// C (nOverlapFaces x nP*nP, in place) with the minimum-Frobenius-norm
// correction that enforces
//
//	consistency:  sum_j C[i][j] = 1                      for every row i
//	conservation: sum_i tgtArea[i]*C[i][j] = srcArea[j]  for every column j
//
// One of the nRows+nCols conditions is linearly dependent on the others
// when total target area equals total source area, so the last conservation
// column is dropped. The correction solves the saddle-point system through
// its Schur complement M = Ccon^T Ccon, which is assembled analytically and
// factored by Cholesky.
//
// With monotone set, any remaining negative entries are removed by blending
// toward the low-order area-weighted donor with the minimal convex
// combination factor. The blend preserves consistency; the conservation
// residual it may introduce is logged, not repaired.
func ForceConsistencyConservation(srcArea, tgtArea utils.Vector, C utils.Matrix,
	monotone bool, log *zap.SugaredLogger) (err error) {
	var (
		nRows, nCols = C.Dims()
		nCoeff       = nRows * nCols
		nCond        = nRows + nCols - 1
	)
	if srcArea.Len() != nCols {
		err = fmt.Errorf("source area length %d does not match coefficient columns %d",
			srcArea.Len(), nCols)
		return
	}
	if tgtArea.Len() != nRows {
		err = fmt.Errorf("target area length %d does not match coefficient rows %d",
			tgtArea.Len(), nRows)
		return
	}

	// Constraint matrix: first nRows columns are the consistency conditions,
	// the remaining nCols-1 the retained conservation conditions.
	Ccon := utils.NewMatrix(nCoeff, nCond)
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			Ccon.Set(i*nCols+j, i, 1.)
			if j != nCols-1 {
				Ccon.Set(i*nCols+j, nRows+j, tgtArea.DataP[i])
			}
		}
	}

	// Least-squares target and condition right-hand sides
	rTop := NewCoeffVector(C)
	rBot := utils.NewVector(nCond)
	for i := 0; i < nRows; i++ {
		rBot.DataP[i] = 1.
	}
	for j := 0; j < nCols-1; j++ {
		rBot.DataP[nRows+j] = srcArea.DataP[j]
	}

	// Schur complement M = Ccon^T Ccon, assembled analytically
	var dP float64
	for i := 0; i < nRows; i++ {
		dP += tgtArea.DataP[i] * tgtArea.DataP[i]
	}
	M := utils.NewMatrix(nCond, nCond)
	for i := 0; i < nRows; i++ {
		M.Set(i, i, float64(nCols))
		for j := 0; j < nCols-1; j++ {
			M.Set(i, nRows+j, tgtArea.DataP[i])
			M.Set(nRows+j, i, tgtArea.DataP[i])
		}
	}
	for j := 0; j < nCols-1; j++ {
		M.Set(nRows+j, nRows+j, dP)
	}

	// y = Ccon^T r_top - r_bot
	y := rBot.Copy().Scale(-1.)
	utils.GEMV(true, 1., Ccon, rTop, 1., y)

	z, solveErr := M.CholeskySolve(y)
	if solveErr != nil {
		err = fmt.Errorf("%w: %v", ErrSchurSolveFailed, solveErr)
		return
	}

	// C_flat = r_top - Ccon z
	utils.GEMV(false, -1., Ccon, z, 1., rTop)
	copy(C.DataP, rTop.DataP)

	if monotone {
		blendMonotone(srcArea, tgtArea, C, log)
	}
	return
}

// NewCoeffVector flattens the coefficient matrix row-major into a vector,
// the layout the constraint matrix columns are indexed by.
func NewCoeffVector(C utils.Matrix) (v utils.Vector) {
	var (
		nr, nc = C.Dims()
		data   = make([]float64, nr*nc)
	)
	copy(data, C.DataP)
	v = utils.NewVector(nr*nc, data)
	return
}

// blendMonotone eliminates negative coefficients with the minimal convex
// blend toward the column-uniform low-order donor D[i][j] =
// srcArea[j]/sum(srcArea). Both C and D have unit row sums, so consistency
// survives; conservation may drift and the worst column residual is logged.
func blendMonotone(srcArea, tgtArea utils.Vector, C utils.Matrix, log *zap.SugaredLogger) {
	var (
		nRows, nCols = C.Dims()
		total        = srcArea.Sum()
	)
	var dA float64
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			c := C.At(i, j)
			if c < 0. {
				d := srcArea.DataP[j] / total
				newA := -c / math.Abs(d-c)
				if newA > dA {
					dA = newA
				}
			}
		}
	}
	if dA == 0. {
		return
	}
	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			d := srcArea.DataP[j] / total
			C.Set(i, j, (1.-dA)*C.At(i, j)+dA*d)
		}
	}
	if log != nil {
		var worst float64
		for j := 0; j < nCols; j++ {
			var colSum float64
			for i := 0; i < nRows; i++ {
				colSum += tgtArea.DataP[i] * C.At(i, j)
			}
			if r := math.Abs(colSum - srcArea.DataP[j]); r > worst {
				worst = r
			}
		}
		log.Debugf("monotone blend lambda = %1.5e, worst conservation residual = %1.5e",
			dA, worst)
	}
}
