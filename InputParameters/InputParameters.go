package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// RemapParameters are obtained from the YAML input file; command line flags
// override individual fields.
type RemapParameters struct {
	Title           string  `yaml:"Title"`
	PolynomialOrder int     `yaml:"PolynomialOrder"`
	Monotone        bool    `yaml:"Monotone"`
	Bubble          bool    `yaml:"Bubble"`
	NoCheck         bool    `yaml:"NoCheck"`
	CoverageTol     float64 `yaml:"CoverageTol"`
	ConsistencyTol  float64 `yaml:"ConsistencyTol"`
	ConservationTol float64 `yaml:"ConservationTol"`
	MonotoneTol     float64 `yaml:"MonotoneTol"`
}

// NewRemapParameters returns the defaults the CLI starts from.
func NewRemapParameters() *RemapParameters {
	return &RemapParameters{
		Title:           "goremap",
		PolynomialOrder: 4,
		Bubble:          true,
		CoverageTol:     1.e-10,
		ConsistencyTol:  1.e-8,
		ConservationTol: 1.e-8,
		MonotoneTol:     1.e-12,
	}
}

func (rp *RemapParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, rp)
}

func (rp *RemapParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", rp.Title)
	fmt.Printf("[%d]\t\t\t= Polynomial Order\n", rp.PolynomialOrder)
	fmt.Printf("[%v]\t\t\t= Monotone\n", rp.Monotone)
	fmt.Printf("[%v]\t\t\t= Bubble\n", rp.Bubble)
	fmt.Printf("[%v]\t\t\t= NoCheck\n", rp.NoCheck)
	fmt.Printf("%8.2e\t\t= CoverageTol\n", rp.CoverageTol)
	fmt.Printf("%8.2e\t\t= ConsistencyTol\n", rp.ConsistencyTol)
	fmt.Printf("%8.2e\t\t= ConservationTol\n", rp.ConservationTol)
	fmt.Printf("%8.2e\t\t= MonotoneTol\n", rp.MonotoneTol)
}
