package remap

import (
	"fmt"
	"math"

	"github.com/notargets/goremap/sphere"
)

const (
	inverseMapTol     = 1.e-12
	inverseMapMaxIter = 50
	// Excursions beyond the unit square within this tolerance are clamped;
	// anything larger is an overlap-mesh defect.
	inverseMapRangeTol = 1.e-7
)

// BilinearPoint maps reference coordinates (alpha, beta) in the unit square
// through the tensor bilinear blend of the four corners. The result is not
// normalized to the sphere.
func BilinearPoint(n0, n1, n2, n3 sphere.Node, alpha, beta float64) sphere.Node {
	var (
		w0 = (1. - alpha) * (1. - beta)
		w1 = alpha * (1. - beta)
		w2 = alpha * beta
		w3 = (1. - alpha) * beta
	)
	return sphere.Node{
		X: w0*n0.X + w1*n1.X + w2*n2.X + w3*n3.X,
		Y: w0*n0.Y + w1*n1.Y + w2*n2.Y + w3*n3.Y,
		Z: w0*n0.Z + w1*n1.Z + w2*n2.Z + w3*n3.Z,
	}
}

// ApplyInverseMap computes the reference coordinates (alpha, beta) of a
// point pt on the sphere relative to a spherical quadrilateral face: the
// coordinates at which the normalized bilinear blend of the corners
// recovers pt. Gauss-Newton on the residual R = normalize(B(alpha,beta)) - pt
// with the analytical tangent-plane Jacobian.
func ApplyInverseMap(face sphere.Face, nodes []sphere.Node, pt sphere.Node) (alpha, beta float64, err error) {
	if face.NEdges() != 4 {
		err = fmt.Errorf("%w: face has %d edges", ErrUnsupportedElement, face.NEdges())
		return
	}
	var (
		n0, n1 = nodes[face[0]], nodes[face[1]]
		n2, n3 = nodes[face[2]], nodes[face[3]]
	)
	alpha, beta = 0.5, 0.5
	for iter := 0; iter < inverseMapMaxIter; iter++ {
		B := BilinearPoint(n0, n1, n2, n3, alpha, beta)
		mag := B.Magnitude()
		X := B.Scale(1. / mag)
		R := X.Sub(pt)
		if R.Magnitude() < inverseMapTol {
			break
		}

		// dB/dalpha and dB/dbeta of the bilinear blend
		dBa := n1.Sub(n0).Scale(1. - beta).Add(n2.Sub(n3).Scale(beta))
		dBb := n3.Sub(n0).Scale(1. - alpha).Add(n2.Sub(n1).Scale(alpha))

		// Project through the normalization: dX = (dB - X (X.dB)) / |B|
		dXa := dBa.Sub(X.Scale(X.Dot(dBa))).Scale(1. / mag)
		dXb := dBb.Sub(X.Scale(X.Dot(dBb))).Scale(1. / mag)

		// Normal equations of the 3x2 tangent system
		var (
			a11 = dXa.Dot(dXa)
			a12 = dXa.Dot(dXb)
			a22 = dXb.Dot(dXb)
			r1  = -dXa.Dot(R)
			r2  = -dXb.Dot(R)
			det = a11*a22 - a12*a12
		)
		if det == 0. {
			err = fmt.Errorf("%w: singular tangent system at (%1.5e, %1.5e)",
				ErrInverseMapOutOfRange, alpha, beta)
			return
		}
		alpha += (r1*a22 - r2*a12) / det
		beta += (r2*a11 - r1*a12) / det
	}

	if alpha < -inverseMapRangeTol || alpha > 1.+inverseMapRangeTol ||
		beta < -inverseMapRangeTol || beta > 1.+inverseMapRangeTol {
		err = fmt.Errorf("%w: (%1.5e, %1.5e)", ErrInverseMapOutOfRange, alpha, beta)
		return
	}
	alpha = math.Min(1., math.Max(0., alpha))
	beta = math.Min(1., math.Max(0., beta))
	return
}
