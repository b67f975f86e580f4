package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/diff"
	"github.com/GavinEsch/mlcli/internal/store/fs"
	"github.com/GavinEsch/mlcli/internal/ui"
)

var compareCmd = &cobra.Command{
	Use:   "compare [job_id]",
	Short: "Diff the two most recent versions of a job",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		all, _ := cmd.Flags().GetBool("all")

		s, err := fs.New(cfg.Workdir)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()

		if all {
			reports, failures, err := diff.CompareAll(ctx, s, full)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(reports)
			}
			for _, report := range reports {
				printReport(report, full)
				fmt.Println()
			}
			if len(failures) > 0 {
				jobs := make([]string, 0, len(failures))
				for id := range failures {
					jobs = append(jobs, id)
				}
				sort.Strings(jobs)
				fmt.Printf("%d job(s) skipped:\n", len(jobs))
				for _, id := range jobs {
					fmt.Printf("  %s: %v\n", id, failures[id])
				}
			}
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("a job_id is required unless --all is given")
		}

		report, err := diff.CompareJob(ctx, s, args[0], full)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(report)
		}
		printReport(report, full)
		return nil
	},
}

func init() {
	compareCmd.Flags().Bool("full", false, "line-level diff instead of the structural summary")
	compareCmd.Flags().Bool("all", false, "compare every stored job, continuing past failures")
}

func printReport(report *diff.Report, full bool) {
	fmt.Println(ui.RenderAccent(fmt.Sprintf("%s: v%d -> v%d", report.JobID, report.OlderVersion, report.NewerVersion)))
	if !full {
		printSummary(report.Summary)
		return
	}
	for _, line := range report.Lines {
		switch line.Kind {
		case diff.Added:
			fmt.Println(ui.RenderAdded("+ " + line.Text))
		case diff.Removed:
			fmt.Println(ui.RenderRemoved("- " + line.Text))
		default:
			fmt.Println(ui.RenderMuted("  " + line.Text))
		}
	}
}
