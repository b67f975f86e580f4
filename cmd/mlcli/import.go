package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/GavinEsch/mlcli/internal/events"
	"github.com/GavinEsch/mlcli/internal/model"
	"github.com/GavinEsch/mlcli/internal/store/fs"
	"github.com/GavinEsch/mlcli/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import job configurations, versioning any changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		records, err := model.ParseImport(data)
		if err != nil {
			return err
		}

		s, err := fs.New(cfg.Workdir)
		if err != nil {
			return err
		}
		defer s.Close()

		publisher := newPublisher()
		defer publisher.Close()

		ctx := cmd.Context()
		var created, unchanged int
		for _, rec := range records {
			version, wasCreated, err := s.Put(ctx, rec)
			if err != nil {
				return fmt.Errorf("import %s: %w", rec.JobID(), err)
			}

			topic := events.TopicJobUnchanged
			if wasCreated {
				created++
				topic = events.TopicJobImported
				fmt.Printf("%s %s: new version %d\n", ui.RenderAdded("+"), rec.JobID(), version)
			} else {
				unchanged++
				fmt.Printf("%s %s: unchanged (version %d)\n", ui.RenderMuted("="), rec.JobID(), version)
			}

			event := events.ImportEvent{JobID: rec.JobID(), Version: version, CreatedAt: time.Now().UTC()}
			if err := publisher.Publish(ctx, topic, event); err != nil {
				slog.Warn("failed to publish import event", "job_id", rec.JobID(), "err", err)
			}
		}

		fmt.Printf("\n%d imported, %d unchanged\n", created, unchanged)
		return nil
	},
}

// newPublisher connects to NATS when configured, otherwise no-ops.
func newPublisher() events.Publisher {
	if cfg.NATSURL == "" {
		return &events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(cfg.NATSURL)
	if err != nil {
		slog.Warn("events disabled: cannot connect to NATS", "url", cfg.NATSURL, "err", err)
		return &events.NoopPublisher{}
	}
	return pub
}
