package cmd

import (
	"github.com/spf13/cobra"

	"github.com/notargets/goremap/readfiles"
	"github.com/notargets/goremap/sphere"
)

// GenCmd represents the gen command
var GenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate cubed-sphere meshes and nested overlap meshes",
	Long: `
Generates an equiangular cubed-sphere mesh of the requested resolution, and
optionally a refined target mesh plus the exact nested overlap between them.

goremap gen --res 8 --out coarse.g --refine 2 --fine_out fine.g --ov_out ov.g`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			res, _     = cmd.Flags().GetInt("res")
			out, _     = cmd.Flags().GetString("out")
			refine, _  = cmd.Flags().GetInt("refine")
			fineOut, _ = cmd.Flags().GetString("fine_out")
			ovOut, _   = cmd.Flags().GetString("ov_out")
		)
		if refine > 1 {
			coarse, fine, ov := sphere.GenerateNestedOverlap(res, refine)
			writeOrDie(out, coarse)
			if fineOut != "" {
				writeOrDie(fineOut, fine)
			}
			if ovOut != "" {
				if err := readfiles.WriteOverlapMesh(ovOut, ov); err != nil {
					logger.Fatalf("unable to write overlap mesh: %v", err)
				}
				logger.Infof("wrote overlap mesh with %d faces to %s", len(ov.Faces), ovOut)
			}
			return
		}
		writeOrDie(out, sphere.GenerateCubedSphere(res))
	},
}

func init() {
	rootCmd.AddCommand(GenCmd)
	GenCmd.Flags().IntP("res", "r", 4, "cubed-sphere resolution per cube edge")
	GenCmd.Flags().String("out", "mesh.g", "output mesh file")
	GenCmd.Flags().Int("refine", 0, "also build a refined mesh at res*refine")
	GenCmd.Flags().String("fine_out", "", "output file for the refined mesh")
	GenCmd.Flags().String("ov_out", "", "output file for the nested overlap mesh")
}

func writeOrDie(filename string, m *sphere.Mesh) {
	if err := readfiles.WriteSphereMesh(filename, m); err != nil {
		logger.Fatalf("unable to write mesh: %v", err)
	}
	logger.Infof("wrote mesh with %d faces (area %1.10f) to %s",
		len(m.Faces), m.TotalArea(), filename)
}
