package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrsinham/centroidwatch/cmd/centroidwatch/prompt"
	"github.com/mrsinham/centroidwatch/internal/dicom"
	"github.com/mrsinham/centroidwatch/internal/pairing"
	"github.com/mrsinham/centroidwatch/internal/pipeline"
	"github.com/mrsinham/centroidwatch/internal/report"
	"github.com/mrsinham/centroidwatch/internal/structures"
)

var processCmd = &cobra.Command{
	Use:   "process <rtstruct> <rtplan>",
	Short: "Process one RTSTRUCT/RTPLAN pair and exit",
	Long: `Process runs a single pair through the same steps as watch: report
written under --output, sources moved to --backup.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: bindWatchFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(v)
		if err != nil {
			return err
		}

		ss, err := dicom.Identify(args[0])
		if err != nil {
			return err
		}
		if ss.Modality != dicom.ModalityStructureSet {
			return fmt.Errorf("%s is %s, not %s", args[0], ss.Modality, dicom.ModalityStructureSet)
		}

		var opts []structures.Option
		if cfg.Interactive {
			opts = append(opts, structures.WithSelector(prompt.New(os.Stdin, os.Stderr)))
		}
		processor := pipeline.NewProcessor(structures.NewResolver(logger, opts...), report.NewWriter(cfg.OutputDir), cfg.BackupDir, logger)

		res, err := processor.Process(cmd.Context(), pairing.Pair{
			PatientID:        ss.PatientID,
			StructureSetPath: args[0],
			PlanPath:         args[1],
		})
		if res != nil && res.ReportPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.ReportPath)
		}
		return err
	},
}

func init() {
	f := processCmd.Flags()
	f.String("output", "", "report root folder (default: the monitored folder)")
	f.String("backup", "", "folder the pair is moved to (default: <dir>/backup)")
	f.Bool("interactive", false, "ask which structures to report when no seed or gold marker matches")
	rootCmd.AddCommand(processCmd)
}
