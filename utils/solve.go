package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Dense solver facade. The remap kernels call these three primitives and
// nothing else from the factorization layer, so an accelerated BLAS/LAPACK
// can be swapped in underneath (see lapack_cgo.go) without touching callers.

// CholeskySolve solves m*x = b for symmetric positive definite m.
func (m Matrix) CholeskySolve(b Vector) (x Vector, err error) {
	var (
		nr, nc = m.Dims()
		chol   mat.Cholesky
	)
	if nr != nc {
		err = fmt.Errorf("matrix is not square: nr, nc = %v, %v", nr, nc)
		return
	}
	sym := mat.NewSymDense(nr, m.Copy().DataP)
	if ok := chol.Factorize(sym); !ok {
		err = fmt.Errorf("cholesky factorization failed, matrix is not positive definite")
		return
	}
	x = NewVector(nr)
	if err = chol.SolveVecTo(x.V, b.V); err != nil {
		return
	}
	return
}

// LUSolve solves m*x = b by LU with partial pivoting, the stand-in for the
// symmetric-indefinite LDLT path.
func (m Matrix) LUSolve(b Vector) (x Vector, err error) {
	var (
		nr, nc = m.Dims()
		lu     mat.LU
	)
	if nr != nc {
		err = fmt.Errorf("matrix is not square: nr, nc = %v, %v", nr, nc)
		return
	}
	lu.Factorize(m.M)
	x = NewVector(nr)
	if err = lu.SolveVecTo(x.V, false, b.V); err != nil {
		return
	}
	return
}

// GEMV computes y = alpha*op(A)*x + beta*y in place.
func GEMV(transpose bool, alpha float64, A Matrix, x Vector, beta float64, y Vector) {
	t := blas.NoTrans
	if transpose {
		t = blas.Trans
	}
	blas64.Gemv(t, alpha, A.RawMatrix(), x.RawVector(), beta, y.RawVector())
}
