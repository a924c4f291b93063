package readfiles

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/goremap/sphere"
)

// ReadSphereMesh reads a spherical mesh from the line-oriented ASCII format
//
//	NODES <count>
//	<x> <y> <z>           (repeated count times)
//	FACES <count>
//	<n> <i1> ... <in>     (repeated count times, 1-based node indices)
//
// Node indices are normalized to 0-based on load.
func ReadSphereMesh(filename string) (m *sphere.Mesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open mesh file %s: %w", filename, err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	m = &sphere.Mesh{}
	if m.Nodes, err = readNodes(scanner); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if m.Faces, err = readFaces(scanner, len(m.Nodes)); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	m.CalculateFaceAreas()
	if err = m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

// ReadOverlapMesh reads an overlap mesh: the sections of ReadSphereMesh
// followed by
//
//	OVERLAP <count>
//	<firstFaceIx> <secondFaceIx>   (repeated count times, 1-based)
//
// Provenance indices are normalized to 0-based on load.
func ReadOverlapMesh(filename string) (ov *sphere.OverlapMesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, fmt.Errorf("unable to open overlap file %s: %w", filename, err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	ov = &sphere.OverlapMesh{}
	if ov.Nodes, err = readNodes(scanner); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if ov.Faces, err = readFaces(scanner, len(ov.Nodes)); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	var count int
	if count, err = readSectionHeader(scanner, "OVERLAP"); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if count != len(ov.Faces) {
		return nil, fmt.Errorf("%s: %d overlap records for %d faces",
			filename, count, len(ov.Faces))
	}
	ov.FirstFaceIx = make([]int, count)
	ov.SecondFaceIx = make([]int, count)
	for i := 0; i < count; i++ {
		var fields []string
		if fields, err = readFields(scanner, 2); err != nil {
			return nil, fmt.Errorf("%s: overlap record %d: %w", filename, i, err)
		}
		var first, second int
		if first, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("%s: overlap record %d: %w", filename, i, err)
		}
		if second, err = strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("%s: overlap record %d: %w", filename, i, err)
		}
		ov.FirstFaceIx[i] = first - 1
		ov.SecondFaceIx[i] = second - 1
	}
	ov.CalculateFaceAreas()
	return
}

func readNodes(scanner *bufio.Scanner) (nodes []sphere.Node, err error) {
	var count int
	if count, err = readSectionHeader(scanner, "NODES"); err != nil {
		return
	}
	nodes = make([]sphere.Node, count)
	for i := 0; i < count; i++ {
		var fields []string
		if fields, err = readFields(scanner, 3); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if nodes[i].X, err = strconv.ParseFloat(fields[0], 64); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if nodes[i].Y, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if nodes[i].Z, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
	}
	return
}

func readFaces(scanner *bufio.Scanner, nNodes int) (faces []sphere.Face, err error) {
	var count int
	if count, err = readSectionHeader(scanner, "FACES"); err != nil {
		return
	}
	faces = make([]sphere.Face, count)
	for i := 0; i < count; i++ {
		var fields []string
		if fields, err = readFields(scanner, 1); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		var nEdges int
		if nEdges, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
		if nEdges < 3 {
			return nil, fmt.Errorf("face %d has %d edges, need at least 3", i, nEdges)
		}
		if len(fields) != nEdges+1 {
			return nil, fmt.Errorf("face %d: expected %d vertices, have %d",
				i, nEdges, len(fields)-1)
		}
		face := make(sphere.Face, nEdges)
		for k := 0; k < nEdges; k++ {
			var ix int
			if ix, err = strconv.Atoi(fields[k+1]); err != nil {
				return nil, fmt.Errorf("face %d vertex %d: %w", i, k, err)
			}
			if ix < 1 || ix > nNodes {
				return nil, fmt.Errorf("face %d vertex %d out of range: %d", i, k, ix)
			}
			face[k] = ix - 1
		}
		faces[i] = face
	}
	return
}

func readSectionHeader(scanner *bufio.Scanner, keyword string) (count int, err error) {
	var fields []string
	if fields, err = readFields(scanner, 2); err != nil {
		return 0, fmt.Errorf("unable to read %s header: %w", keyword, err)
	}
	if fields[0] != keyword || len(fields) != 2 {
		return 0, fmt.Errorf("malformed %s header: %q", keyword, strings.Join(fields, " "))
	}
	if count, err = strconv.Atoi(fields[1]); err != nil {
		return 0, fmt.Errorf("malformed %s count: %w", keyword, err)
	}
	return
}

// readFields returns the whitespace-separated fields of the next
// nonempty line, requiring at least minFields of them.
func readFields(scanner *bufio.Scanner, minFields int) (fields []string, err error) {
	for scanner.Scan() {
		fields = strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < minFields {
			return nil, fmt.Errorf("expected at least %d fields, have %d", minFields, len(fields))
		}
		return fields, nil
	}
	if err = scanner.Err(); err != nil {
		return
	}
	return nil, fmt.Errorf("unexpected end of file")
}
