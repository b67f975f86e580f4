package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/config"
	"github.com/GavinEsch/mlcli/internal/ui"
)

var (
	workdir     string
	jsonOutput  bool
	noColorFlag bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mlcli",
	Short: "Versioned store and query tool for ML job configurations",
	Long: `mlcli tracks machine-learning job configuration documents in an
append-only per-job version history. Imports are change-detected, history can
be searched, diffed, and exported, and the same read operations are available
over an authenticated HTTP service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if workdir != "" {
			cfg.Workdir = workdir
		}
		if noColorFlag || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workdir, "workdir", "", "work directory (default from MLCLI_WORKDIR or \".\")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(authCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
