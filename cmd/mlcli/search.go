package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/config"
	"github.com/GavinEsch/mlcli/internal/flatten"
	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/search"
	"github.com/GavinEsch/mlcli/internal/store/fs"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List or search the latest version of stored jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, _ := cmd.Flags().GetString("job-id")
		fuzzy, _ := cmd.Flags().GetString("fuzzy")

		s, err := fs.New(cfg.Workdir)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		jobs, err := s.ListJobs(ctx)
		if err != nil {
			return err
		}

		var rows []model.Row
		for _, id := range jobs {
			entry, err := s.GetLatest(ctx, id)
			if err != nil {
				return err
			}
			rows = append(rows, flatten.Flatten(entry.Snapshot))
		}

		if jobID != "" {
			rows = search.FilterExact(rows, jobID)
		}
		rows = search.FuzzySearch(rows, fuzzy, search.DefaultKeys, search.DefaultThreshold)

		if jsonOutput {
			return printJSON(rows)
		}

		settings, err := config.LoadSettings(cfg.Workdir)
		if err != nil {
			return err
		}
		printRowsTable(rows, settings.Columns)
		fmt.Printf("\n%d job(s)\n", len(rows))
		return nil
	},
}

func init() {
	searchCmd.Flags().String("job-id", "", "exact job_id filter")
	searchCmd.Flags().String("fuzzy", "", "fuzzy text filter over job_id, rule_name, created_by, groups, description")
}
