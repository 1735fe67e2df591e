package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	dashboardadapter "github.com/soiltwin/soiltwin-cli/internal/adapters/render/dashboard"
	"github.com/soiltwin/soiltwin-cli/internal/application"
	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

const defaultHistoryLimit = 50

type historyOptions struct {
	eventType string
	limit     int
	asJSON    bool
	follow    bool
	interval  time.Duration
	duration  time.Duration
}

func newHistoryCmd(app *app) *cobra.Command {
	opts := historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded field events",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, _ []string) error {
			if opts.follow {
				return followHistory(cmd, app, opts)
			}

			entries, err := app.client.History(cmd.Context(), opts.limit)
			if err != nil {
				return fmt.Errorf("fetch history: %w", err)
			}
			entries = domain.FilterHistory(entries, opts.eventType)

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dashboardadapter.HistoryTable(entries))
			return err
		}),
	}

	cmd.Flags().StringVar(&opts.eventType, "type", "", "Only show events of this type (Rainfall, Irrigation, Fertilizer)")
	cmd.Flags().IntVar(&opts.limit, "limit", defaultHistoryLimit, "Maximum number of events to fetch")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Keep polling and print new events as they arrive")
	cmd.Flags().DurationVar(&opts.interval, "interval", app.cfg.Poll.SecondaryInterval, "Poll interval with --follow")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Stop following after this long (0 runs until interrupted)")

	return cmd
}

// followHistory polls the event log and prints entries not seen before,
// oldest first.
func followHistory(cmd *cobra.Command, app *app, opts historyOptions) error {
	ctx := cmd.Context()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	var snapshot application.Snapshot[[]domain.HistoryEntry]
	fetch := func(ctx context.Context) ([]domain.HistoryEntry, error) {
		return app.client.History(ctx, opts.limit)
	}

	cycles := make(chan struct{}, 1)
	poller := application.NewPoller(opts.interval,
		[]application.PollTask{application.Track("history", fetch, nil, &snapshot)},
		application.WithAfterCycle(func(application.CycleReport) {
			select {
			case cycles <- struct{}{}:
			default:
			}
		}),
		application.WithPollerLogger(app.logger),
	)
	if err := poller.Activate(ctx); err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	defer func() {
		poller.Deactivate()
		poller.Wait()
	}()

	seen := map[string]struct{}{}
	out := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			return expiredCause(cmd.Context())
		case <-cycles:
			entries, ok := snapshot.Get()
			if !ok {
				continue
			}
			fresh := unseenEntries(domain.FilterHistory(entries, opts.eventType), seen)
			if err := writeHistoryLines(out, fresh, opts.asJSON); err != nil {
				return err
			}
		}
	}
}

func unseenEntries(entries []domain.HistoryEntry, seen map[string]struct{}) []domain.HistoryEntry {
	fresh := make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range slices.Backward(entries) {
		key := entry.ID
		if key == "" {
			key = entry.Timestamp + "|" + entry.Type + "|" + entry.Subtype
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, entry)
	}
	return fresh
}

func writeHistoryLines(w io.Writer, entries []domain.HistoryEntry, asJSON bool) error {
	for _, entry := range entries {
		var err error
		if asJSON {
			err = writeJSONLine(w, entry)
		} else {
			_, err = fmt.Fprintf(w, "%s  %-10s %-10s %-10s %s\n", entry.Timestamp, entry.Type, entry.Subtype, entry.Amount, entry.Operator)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
