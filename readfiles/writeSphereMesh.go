package readfiles

import (
	"bufio"
	"fmt"
	"os"

	"github.com/notargets/goremap/sphere"
)

// WriteSphereMesh writes a mesh in the format ReadSphereMesh reads.
// Node indices are written 1-based.
func WriteSphereMesh(filename string, m *sphere.Mesh) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return fmt.Errorf("unable to create mesh file %s: %w", filename, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	defer w.Flush()

	writeMeshSections(w, &m.Nodes, &m.Faces)
	return
}

// WriteOverlapMesh writes an overlap mesh in the format ReadOverlapMesh
// reads, provenance indices 1-based.
func WriteOverlapMesh(filename string, ov *sphere.OverlapMesh) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return fmt.Errorf("unable to create overlap file %s: %w", filename, err)
	}
	defer file.Close()
	w := bufio.NewWriter(file)
	defer w.Flush()

	writeMeshSections(w, &ov.Nodes, &ov.Faces)
	fmt.Fprintf(w, "OVERLAP %d\n", len(ov.FirstFaceIx))
	for i := range ov.FirstFaceIx {
		fmt.Fprintf(w, "%d %d\n", ov.FirstFaceIx[i]+1, ov.SecondFaceIx[i]+1)
	}
	return
}

func writeMeshSections(w *bufio.Writer, nodes *[]sphere.Node, faces *[]sphere.Face) {
	fmt.Fprintf(w, "NODES %d\n", len(*nodes))
	for _, n := range *nodes {
		fmt.Fprintf(w, "%.17e %.17e %.17e\n", n.X, n.Y, n.Z)
	}
	fmt.Fprintf(w, "FACES %d\n", len(*faces))
	for _, f := range *faces {
		fmt.Fprintf(w, "%d", len(f))
		for _, ix := range f {
			fmt.Fprintf(w, " %d", ix+1)
		}
		fmt.Fprintf(w, "\n")
	}
}
