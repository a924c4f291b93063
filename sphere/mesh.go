package sphere

import (
	"fmt"
	"math"
)

// Node is a point on (or near) the unit sphere.
type Node struct {
	X, Y, Z float64
}

func (n Node) Add(a Node) Node {
	return Node{n.X + a.X, n.Y + a.Y, n.Z + a.Z}
}

func (n Node) Sub(a Node) Node {
	return Node{n.X - a.X, n.Y - a.Y, n.Z - a.Z}
}

func (n Node) Scale(s float64) Node {
	return Node{s * n.X, s * n.Y, s * n.Z}
}

func (n Node) Dot(a Node) float64 {
	return n.X*a.X + n.Y*a.Y + n.Z*a.Z
}

func (n Node) Cross(a Node) Node {
	return Node{
		n.Y*a.Z - n.Z*a.Y,
		n.Z*a.X - n.X*a.Z,
		n.X*a.Y - n.Y*a.X,
	}
}

func (n Node) Magnitude() float64 {
	return math.Sqrt(n.X*n.X + n.Y*n.Y + n.Z*n.Z)
}

func (n Node) Normalize() Node {
	mag := n.Magnitude()
	return Node{n.X / mag, n.Y / mag, n.Z / mag}
}

// Face is a spherical polygon, vertices as indices into the mesh node array,
// in order around the perimeter.
type Face []int

func (f Face) NEdges() int {
	return len(f)
}

// Mesh is an ordered collection of faces over a shared node array.
type Mesh struct {
	Nodes     []Node
	Faces     []Face
	FaceAreas []float64
}

// Validate checks the structural invariants: minimum edge count, index
// bounds, and unit-magnitude nodes.
func (m *Mesh) Validate() (err error) {
	for i, node := range m.Nodes {
		if math.Abs(node.Magnitude()-1.) > 1.e-10 {
			err = fmt.Errorf("node %d is off the unit sphere: magnitude = %v", i, node.Magnitude())
			return
		}
	}
	for i, face := range m.Faces {
		if face.NEdges() < 3 {
			err = fmt.Errorf("face %d has %d edges, need at least 3", i, face.NEdges())
			return
		}
		for _, ix := range face {
			if ix < 0 || ix >= len(m.Nodes) {
				err = fmt.Errorf("face %d references node %d, mesh has %d nodes", i, ix, len(m.Nodes))
				return
			}
		}
	}
	return
}

// CalculateFaceAreas computes the spherical area of every face.
func (m *Mesh) CalculateFaceAreas() {
	m.FaceAreas = make([]float64, len(m.Faces))
	for i, face := range m.Faces {
		m.FaceAreas[i] = CalculateFaceArea(face, m.Nodes)
	}
}

func (m *Mesh) TotalArea() (area float64) {
	for _, a := range m.FaceAreas {
		area += a
	}
	return
}
