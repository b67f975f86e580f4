package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/config"
	"github.com/GavinEsch/mlcli/internal/export"
	"github.com/GavinEsch/mlcli/internal/flatten"
	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/store/fs"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the latest version of every job",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		useSettings, _ := cmd.Flags().GetBool("settings")

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

		var entries []*model.VersionEntry
		for _, id := range jobs {
			entry, err := s.GetLatest(ctx, id)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}

		var columns []string
		if useSettings {
			settings, err := config.LoadSettings(cfg.Workdir)
			if err != nil {
				return err
			}
			columns = settings.Columns
		}

		data, err := export.Serialize(entries, flatten.FlattenAll(entries), format, columns)
		if err != nil {
			return err
		}

		dest := export.NewFileDestination(cfg.Workdir)
		if err := dest.Write(ctx, format, data); err != nil {
			return err
		}
		fmt.Printf("exported %d job(s) to %s\n", len(entries), dest.Path(format))

		if cfg.ExportS3Bucket != "" {
			s3dest, err := export.NewS3Destination(ctx, cfg.ExportS3Bucket, cfg.ExportS3Prefix, cfg.ExportS3Region, cfg.ExportS3Endpoint)
			if err != nil {
				return fmt.Errorf("configure S3 upload: %w", err)
			}
			if err := s3dest.Write(ctx, format, data); err != nil {
				return fmt.Errorf("upload export: %w", err)
			}
			slog.Info("export uploaded", "destination", s3dest.Name(), "format", format)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", export.FormatJSON, "output format: json, csv, or md")
	exportCmd.Flags().Bool("settings", false, "apply the saved column selection (csv/md only)")
}
