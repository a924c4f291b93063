package readfiles

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/notargets/goremap/remap"
)

// ReadMetaData loads SE nodal metadata (order, 1-based GLL node indices and
// nodal Jacobians) from a YAML file written by WriteMetaData.
func ReadMetaData(filename string) (md *remap.MetaData, err error) {
	var data []byte
	if data, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to read metadata %s: %w", filename, err)
	}
	md = &remap.MetaData{}
	if err = yaml.Unmarshal(data, md); err != nil {
		return nil, fmt.Errorf("unable to parse metadata %s: %w", filename, err)
	}
	if err = validateMetaData(md); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

// WriteMetaData persists SE nodal metadata as YAML.
func WriteMetaData(filename string, md *remap.MetaData) (err error) {
	var data []byte
	if data, err = yaml.Marshal(md); err != nil {
		return fmt.Errorf("unable to marshal metadata: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

func validateMetaData(md *remap.MetaData) (err error) {
	if md.Order < 2 {
		return fmt.Errorf("metadata order %d is below the minimum of 2", md.Order)
	}
	if len(md.GLLNodes) != md.Order || len(md.GLLJacobian) != md.Order {
		return fmt.Errorf("metadata arrays do not match order %d", md.Order)
	}
	for p := 0; p < md.Order; p++ {
		if len(md.GLLNodes[p]) != md.Order || len(md.GLLJacobian[p]) != md.Order {
			return fmt.Errorf("metadata arrays do not match order %d", md.Order)
		}
		for q := 0; q < md.Order; q++ {
			for e, ix := range md.GLLNodes[p][q] {
				if ix < 1 || ix > md.NDOFs {
					return fmt.Errorf("GLL node (%d,%d) of element %d out of range: %d of %d",
						p, q, e, ix, md.NDOFs)
				}
			}
		}
	}
	return
}
