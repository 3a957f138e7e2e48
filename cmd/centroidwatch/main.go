// Package main is the entry point for the centroidwatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrsinham/centroidwatch/internal/config"
	"github.com/mrsinham/centroidwatch/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// v holds flags, environment and config file values for every command.
var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "centroidwatch",
	Short: "Report fiducial centroids and isocenters from RT DICOM pairs",
	Long: `centroidwatch monitors a folder for RTSTRUCT and RTPLAN files. When both
files of a patient have arrived it computes the centroid of the seed and gold
marker structures, reads the plan isocenter and beam IDs, writes a
Centroid_<patient>.txt report and moves the DICOM files to a backup folder.

Without a subcommand it runs "watch".`,
	SilenceUsage: true,
	PreRunE:      bindWatchFlags,
	RunE:         runWatch,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./centroidwatch.yaml or ~/.config/centroidwatch/config.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json, logfmt")
	_ = v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))

	addWatchFlags(rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	used, err := config.ReadFile(v, cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// loadConfig resolves the configuration and builds the logger from it.
func loadConfig(vp *viper.Viper) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(vp)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
