package cmd

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/notargets/goremap/InputParameters"
	"github.com/notargets/goremap/readfiles"
	"github.com/notargets/goremap/remap"
)

// ModelSE carries the resolved run configuration of the se subcommand.
type ModelSE struct {
	InMesh, OutMesh, OvMesh string
	InMeta                  string
	OutMap                  string
	InData, OutData         string
	Baseline                bool
	Params                  *InputParameters.RemapParameters
}

// SECmd represents the se command
var SECmd = &cobra.Command{
	Use:   "se",
	Short: "Spectral element to finite volume conservative remap",
	Long: `
Assembles the sparse remap operator from a spectral element source mesh to a
finite volume target mesh through their overlap mesh, enforcing consistency
and conservation, optionally monotone.

goremap se --in_mesh in.g --out_mesh out.g --ov_mesh ov.g --np 4 --out_map map.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		mse := &ModelSE{Params: InputParameters.NewRemapParameters()}
		if paramFile, _ := cmd.Flags().GetString("param"); paramFile != "" {
			data, err := os.ReadFile(paramFile)
			if err != nil {
				logger.Fatalf("unable to read parameter file: %v", err)
			}
			if err = mse.Params.Parse(data); err != nil {
				logger.Fatalf("unable to parse parameter file: %v", err)
			}
		}
		mse.InMesh, _ = cmd.Flags().GetString("in_mesh")
		mse.OutMesh, _ = cmd.Flags().GetString("out_mesh")
		mse.OvMesh, _ = cmd.Flags().GetString("ov_mesh")
		mse.InMeta, _ = cmd.Flags().GetString("in_meta")
		mse.OutMap, _ = cmd.Flags().GetString("out_map")
		mse.InData, _ = cmd.Flags().GetString("in_data")
		mse.OutData, _ = cmd.Flags().GetString("out_data")
		mse.Baseline, _ = cmd.Flags().GetBool("baseline")
		if cmd.Flags().Changed("np") {
			mse.Params.PolynomialOrder, _ = cmd.Flags().GetInt("np")
		}
		if cmd.Flags().Changed("mono") {
			mse.Params.Monotone, _ = cmd.Flags().GetBool("mono")
		}
		if cmd.Flags().Changed("bubble") {
			mse.Params.Bubble, _ = cmd.Flags().GetBool("bubble")
		}
		if cmd.Flags().Changed("nocheck") {
			mse.Params.NoCheck, _ = cmd.Flags().GetBool("nocheck")
		}
		mse.Params.Print()
		if err := RunSE(mse); err != nil {
			logger.Fatalf("remap failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(SECmd)
	SECmd.Flags().String("in_mesh", "", "source (spectral element) mesh file")
	SECmd.Flags().String("out_mesh", "", "target (finite volume) mesh file")
	SECmd.Flags().String("ov_mesh", "", "overlap mesh file")
	SECmd.Flags().String("in_meta", "", "SE nodal metadata file (generated when empty)")
	SECmd.Flags().IntP("np", "n", 4, "polynomial order of the source spectral elements")
	SECmd.Flags().Bool("bubble", true, "close the nodal Jacobian defect onto interior nodes")
	SECmd.Flags().Bool("mono", false, "enforce monotonicity (nonnegative weights)")
	SECmd.Flags().Bool("nocheck", false, "skip post-run map verification")
	SECmd.Flags().Bool("baseline", false, "use the low-order baseline kernel")
	SECmd.Flags().String("out_map", "map.yaml", "output file for the sparse map")
	SECmd.Flags().String("in_data", "", "source nodal field to remap (YAML float list)")
	SECmd.Flags().String("out_data", "", "output file for the remapped target field")
	SECmd.Flags().String("param", "", "YAML parameter file")
	_ = SECmd.MarkFlagRequired("in_mesh")
	_ = SECmd.MarkFlagRequired("out_mesh")
	_ = SECmd.MarkFlagRequired("ov_mesh")
}

// RunSE executes the remap pipeline: read, normalize, audit, assemble,
// verify, write.
func RunSE(mse *ModelSE) (err error) {
	var (
		rp = mse.Params
	)
	src, err := readfiles.ReadSphereMesh(mse.InMesh)
	if err != nil {
		return err
	}
	tgt, err := readfiles.ReadSphereMesh(mse.OutMesh)
	if err != nil {
		return err
	}
	ov, err := readfiles.ReadOverlapMesh(mse.OvMesh)
	if err != nil {
		return err
	}
	logger.Infof("source: %d faces, target: %d faces, overlap: %d faces",
		len(src.Faces), len(tgt.Faces), len(ov.Faces))

	if ov.NormalizeOrientation(len(src.Faces), len(tgt.Faces)) {
		logger.Warnf("overlap orientation inverted, swapped source/target provenance")
	}
	ov.SortByFirstFace()

	if _, ok := remap.AuditAreas(src, ov, rp.CoverageTol, logger); !ok {
		logger.Warnf("enabling nocheck: overlap does not fully tile the source mesh")
		rp.NoCheck = true
	}

	var md *remap.MetaData
	if mse.InMeta != "" {
		if md, err = readfiles.ReadMetaData(mse.InMeta); err != nil {
			return err
		}
		if md.Order != rp.PolynomialOrder {
			logger.Warnf("metadata order %d overrides np %d", md.Order, rp.PolynomialOrder)
			rp.PolynomialOrder = md.Order
		}
	} else {
		if md, err = remap.GenerateMetaData(src, rp.PolynomialOrder, rp.Bubble); err != nil {
			return err
		}
	}
	var defect float64
	for e := range src.Faces {
		defect += md.TotalJacobian(e) - src.FaceAreas[e]
	}
	logger.Infof("metadata: %d DOFs, global Jacobian defect = %1.5e", md.NDOFs, defect)

	offline := remap.NewOfflineMap(len(tgt.Faces), md.NDOFs)
	if mse.Baseline {
		if err = remap.RemapSE0(src, tgt, ov, md, offline); err != nil {
			return err
		}
	} else {
		var stats remap.Stats
		if stats, err = remap.RemapSE(src, tgt, ov, md, rp.Monotone, offline, logger); err != nil {
			return err
		}
		logger.Infof("remapped %d elements over %d overlap faces, %d partial",
			stats.SourceElements, stats.OverlapFaces, stats.PartialElements)
	}

	if !rp.NoCheck {
		if !offline.IsConsistent(rp.ConsistencyTol) {
			logger.Warnf("assembled map is not consistent to %1.1e", rp.ConsistencyTol)
		}
		if !offline.IsConservative(rp.ConservationTol) {
			logger.Warnf("assembled map is not conservative to %1.1e", rp.ConservationTol)
		}
		if rp.Monotone && !offline.IsMonotone(rp.MonotoneTol) {
			logger.Warnf("assembled map is not monotone to %1.1e", rp.MonotoneTol)
		}
	}

	if mse.OutMap != "" {
		if err = offline.Write(mse.OutMap); err != nil {
			return err
		}
		logger.Infof("wrote %d map entries to %s", offline.W.NNZ(), mse.OutMap)
	}

	if mse.InData != "" {
		if err = applyField(offline, mse.InData, mse.OutData); err != nil {
			return err
		}
	}
	return
}

func applyField(offline *remap.OfflineMap, inData, outData string) (err error) {
	data, err := os.ReadFile(inData)
	if err != nil {
		return fmt.Errorf("unable to read source field %s: %w", inData, err)
	}
	var u []float64
	if err = yaml.Unmarshal(data, &u); err != nil {
		return fmt.Errorf("unable to parse source field %s: %w", inData, err)
	}
	if len(u) != offline.NSourceDOFs {
		return fmt.Errorf("source field length %d does not match %d DOFs",
			len(u), offline.NSourceDOFs)
	}
	v := offline.Apply(u)
	if outData == "" {
		outData = "out_data.yaml"
	}
	if data, err = yaml.Marshal(v); err != nil {
		return fmt.Errorf("unable to marshal target field: %w", err)
	}
	if err = os.WriteFile(outData, data, 0644); err != nil {
		return err
	}
	logger.Infof("remapped field of %d values to %s", len(v), outData)
	return
}
