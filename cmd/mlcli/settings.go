package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/config"
	"github.com/GavinEsch/mlcli/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the column selection for tables and exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		columnsFlag, _ := cmd.Flags().GetString("columns")

		if columnsFlag != "" {
			cols := config.ParseColumns(columnsFlag)
			if err := config.SaveSettings(cfg.Workdir, config.Settings{Columns: cols}); err != nil {
				return err
			}
			fmt.Printf("columns set to: %s\n", strings.Join(cols, ", "))
			return nil
		}

		settings, err := config.LoadSettings(cfg.Workdir)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(settings)
		}
		if len(settings.Columns) == 0 {
			fmt.Printf("columns: (default) %s\n", strings.Join(model.DefaultColumns, ", "))
			return nil
		}
		fmt.Printf("columns: %s\n", strings.Join(settings.Columns, ", "))
		return nil
	},
}

func init() {
	settingsCmd.Flags().String("columns", "", "comma-separated column list (empty keeps current)")
}
