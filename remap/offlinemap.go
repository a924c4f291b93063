package remap

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ghodss/yaml"
	"github.com/notargets/goremap/utils"
)

// OfflineMap is the assembled sparse remap operator W: rows index target
// faces, columns index source global DOFs, and v = W u maps source nodal
// values to target cell averages.
type OfflineMap struct {
	W            utils.DOK
	NTargetFaces int
	NSourceDOFs  int
	// SourceAreas carries the per-DOF Jacobian weights and TargetAreas the
	// target face areas; both are needed by the conservation audit.
	SourceAreas []float64
	TargetAreas []float64
}

func NewOfflineMap(nTargetFaces, nSourceDOFs int) (m *OfflineMap) {
	m = &OfflineMap{
		W:            utils.NewDOK(nTargetFaces, nSourceDOFs),
		NTargetFaces: nTargetFaces,
		NSourceDOFs:  nSourceDOFs,
	}
	return
}

func (m *OfflineMap) SetAreas(srcAreas, tgtAreas []float64) {
	m.SourceAreas = srcAreas
	m.TargetAreas = tgtAreas
}

// IsConsistent reports whether every target row with entries sums to 1
// within tol: a constant source field maps to the same constant.
func (m *OfflineMap) IsConsistent(tol float64) bool {
	rows, _, vals := m.W.Entries()
	rowSums := make([]float64, m.NTargetFaces)
	hit := make([]bool, m.NTargetFaces)
	for ix, i := range rows {
		rowSums[i] += vals[ix]
		hit[i] = true
	}
	for i, ok := range hit {
		if ok && math.Abs(rowSums[i]-1.) > tol {
			return false
		}
	}
	return true
}

// IsConservative reports whether every source DOF's area weight is
// recovered by the target-area weighted column sums within tol: the global
// integral is preserved.
func (m *OfflineMap) IsConservative(tol float64) bool {
	if m.SourceAreas == nil || m.TargetAreas == nil {
		panic("conservation audit requires SetAreas")
	}
	rows, cols, vals := m.W.Entries()
	colSums := make([]float64, m.NSourceDOFs)
	for ix, j := range cols {
		colSums[j] += vals[ix] * m.TargetAreas[rows[ix]]
	}
	for j, sum := range colSums {
		if math.Abs(sum-m.SourceAreas[j]) > tol {
			return false
		}
	}
	return true
}

// IsMonotone reports whether all map weights are nonnegative within tol.
func (m *OfflineMap) IsMonotone(tol float64) bool {
	_, _, vals := m.W.Entries()
	for _, v := range vals {
		if v < -tol {
			return false
		}
	}
	return true
}

// Apply computes the target field v = W u.
func (m *OfflineMap) Apply(u []float64) (v []float64) {
	if len(u) != m.NSourceDOFs {
		panic(fmt.Errorf("source field length %d does not match %d DOFs", len(u), m.NSourceDOFs))
	}
	v = m.W.ToCSR().MulVec(u)
	return
}

// mapDocument is the on-disk YAML form of an OfflineMap: parallel triple
// arrays sorted by (row, col).
type mapDocument struct {
	NTargetFaces int       `yaml:"NTargetFaces"`
	NSourceDOFs  int       `yaml:"NSourceDOFs"`
	Rows         []int     `yaml:"Rows"`
	Cols         []int     `yaml:"Cols"`
	Values       []float64 `yaml:"Values"`
	SourceAreas  []float64 `yaml:"SourceAreas,omitempty"`
	TargetAreas  []float64 `yaml:"TargetAreas,omitempty"`
}

func (m *OfflineMap) Write(filename string) (err error) {
	rows, cols, vals := m.W.Entries()
	perm := make([]int, len(rows))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool {
		pa, pb := perm[a], perm[b]
		if rows[pa] != rows[pb] {
			return rows[pa] < rows[pb]
		}
		return cols[pa] < cols[pb]
	})
	doc := mapDocument{
		NTargetFaces: m.NTargetFaces,
		NSourceDOFs:  m.NSourceDOFs,
		Rows:         make([]int, len(perm)),
		Cols:         make([]int, len(perm)),
		Values:       make([]float64, len(perm)),
		SourceAreas:  m.SourceAreas,
		TargetAreas:  m.TargetAreas,
	}
	for i, p := range perm {
		doc.Rows[i] = rows[p]
		doc.Cols[i] = cols[p]
		doc.Values[i] = vals[p]
	}
	var data []byte
	if data, err = yaml.Marshal(&doc); err != nil {
		return fmt.Errorf("unable to marshal offline map: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

func ReadOfflineMap(filename string) (m *OfflineMap, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to read offline map %s: %w", filename, err)
	}
	var doc mapDocument
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unable to parse offline map %s: %w", filename, err)
	}
	if len(doc.Rows) != len(doc.Cols) || len(doc.Rows) != len(doc.Values) {
		return nil, fmt.Errorf("offline map %s has mismatched triple arrays", filename)
	}
	m = NewOfflineMap(doc.NTargetFaces, doc.NSourceDOFs)
	m.SourceAreas = doc.SourceAreas
	m.TargetAreas = doc.TargetAreas
	for i := range doc.Rows {
		m.W.Accumulate(doc.Rows[i], doc.Cols[i], doc.Values[i])
	}
	return
}
