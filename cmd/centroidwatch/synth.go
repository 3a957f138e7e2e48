package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mrsinham/centroidwatch/internal/dicom"
	"github.com/mrsinham/centroidwatch/internal/dicom/edgecases"
)

var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Write synthetic RTSTRUCT/RTPLAN pairs for testing",
	Long: `Synth writes one RTSTRUCT and one RTPLAN per patient. Each structure set
holds a BODY outline, 1-3 fiducials named "Seed N" (or "Au N") drawn as small
circles over three slices, and an empty PTV. Each plan's isocenter is the
mean of the fiducials. The same --seed reproduces the same files.

--edge-cases perturbs that share of patients with one of:
  special-chars       accented or apostrophe names
  long-names          names and IDs at the 64 character limit
  varied-ids          IDs with dashes, spaces or slashes
  roi-spellings       fiducials spelled "SEED1", "prostate seed 2", ...
  unlabelled-markers  fiducials no target matches (operator prompt)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		opts := dicom.SynthOptions{}
		opts.OutputDir, _ = f.GetString("output")
		opts.NumPatients, _ = f.GetInt("patients")
		opts.Seed, _ = f.GetInt64("seed")
		opts.NumFiducials, _ = f.GetInt("fiducials")
		opts.GoldMarkers, _ = f.GetBool("gold")
		opts.NumBeams, _ = f.GetInt("beams")
		opts.OmitIsocenter, _ = f.GetBool("no-isocenter")
		opts.EdgeCases.Percentage, _ = f.GetInt("edge-cases")
		if opts.EdgeCases.Percentage > 0 {
			raw, _ := f.GetString("edge-case-types")
			types, err := edgecases.ParseTypes(raw)
			if err != nil {
				return err
			}
			opts.EdgeCases.Types = types
		}

		pairs, err := dicom.GenerateRTPairs(opts)
		if err != nil {
			return err
		}

		var total int64
		for _, p := range pairs {
			for _, path := range []string{p.StructureSetPath, p.PlanPath} {
				if info, err := os.Stat(path); err == nil {
					total += info.Size()
				}
			}
			iso := "none"
			if p.Isocenter != nil {
				iso = p.Isocenter.ToCM().String() + " cm"
			}
			line := fmt.Sprintf("%s  %-24s isocenter %s", p.PatientID, p.PatientName, iso)
			if p.EdgeCase != "" {
				line += fmt.Sprintf("  [%s]", p.EdgeCase)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n✓ %d pairs written to %s (%s)\n", len(pairs), opts.OutputDir, humanize.Bytes(uint64(total)))
		return nil
	},
}

func init() {
	f := synthCmd.Flags()
	f.String("output", "rt_pairs", "output directory")
	f.Int("patients", 1, "number of patients")
	f.Int64("seed", 0, "seed for reproducibility (time-based if 0)")
	f.Int("fiducials", 3, "fiducial structures per patient (1-3)")
	f.Bool("gold", false, `name fiducials "Au N" instead of "Seed N"`)
	f.Int("beams", 2, "beams per plan")
	f.Bool("no-isocenter", false, "write plans without IsocenterPosition")
	f.Int("edge-cases", 0, "percentage of patients to perturb (0-100)")
	f.String("edge-case-types", "special-chars,long-names,varied-ids,roi-spellings", "comma-separated edge case types")
	rootCmd.AddCommand(synthCmd)
}
