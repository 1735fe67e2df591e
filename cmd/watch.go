package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dashboardadapter "github.com/soiltwin/soiltwin-cli/internal/adapters/render/dashboard"
	"github.com/soiltwin/soiltwin-cli/internal/application"
)

type watchOptions struct {
	plain    bool
	asJSON   bool
	duration time.Duration
	interval time.Duration
	location string
}

func newWatchCmd(app *app) *cobra.Command {
	opts := watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream the live soil dashboard",
		Long:  "watch polls soil state, farm profile and weather, renders them with the activity feed and lets you inject preset simulation events (keys 1-5).",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, app, opts)
		}),
	}

	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print a frame per poll cycle instead of the interactive view")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print one JSON document per poll cycle")
	cmd.Flags().DurationVar(&opts.duration, "duration", 0, "Stop after this long (0 runs until interrupted)")
	cmd.Flags().DurationVar(&opts.interval, "interval", app.cfg.Poll.Interval, "Poll interval")
	cmd.Flags().StringVar(&opts.location, "location", app.cfg.WeatherLocation, "Weather location (empty disables weather)")

	return cmd
}

type watchSession struct {
	log         *application.NotificationLog
	dashboard   *application.Dashboard
	poller      *application.Poller
	cycles      chan application.CycleReport
	unsubscribe func()
}

func newWatchSession(app *app, opts watchOptions) *watchSession {
	log := application.NewNotificationLog()
	dashboard := application.NewDashboard(app.client, log, application.DashboardOptions{
		Location: opts.location,
		Identity: app.sessions.Identity,
		Logger:   app.logger,
	})

	session := &watchSession{
		log:       log,
		dashboard: dashboard,
		cycles:    make(chan application.CycleReport, 1),
	}
	session.poller = application.NewPoller(opts.interval, dashboard.Tasks(),
		application.WithBeforeCycle(log.Pulse),
		application.WithAfterCycle(session.publish),
		application.WithPollerLogger(app.logger),
	)
	session.unsubscribe = app.sessions.Subscribe(func(authenticated bool) {
		if !authenticated {
			dashboard.Reset()
		}
	})
	return session
}

// publish keeps only the latest report when the reader lags behind.
func (s *watchSession) publish(report application.CycleReport) {
	select {
	case s.cycles <- report:
	default:
		select {
		case <-s.cycles:
		default:
		}
		select {
		case s.cycles <- report:
		default:
		}
	}
}

func (s *watchSession) close() {
	s.unsubscribe()
	s.poller.Deactivate()
	s.poller.Wait()
	s.dashboard.Close()
	s.log.Close()
}

func runWatch(cmd *cobra.Command, app *app, opts watchOptions) error {
	ctx := cmd.Context()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	session := newWatchSession(app, opts)
	defer session.close()

	if err := session.poller.Activate(ctx); err != nil {
		return fmt.Errorf("start polling: %w", err)
	}
	app.logger.Info("watch started", zap.Duration("interval", opts.interval), zap.String("location", opts.location))

	out := cmd.OutOrStdout()
	var err error
	if opts.plain || opts.asJSON || !isTerminal(out) {
		err = streamWatch(ctx, out, app, session, opts.asJSON)
	} else {
		err = runWatchTUI(ctx, out, app, session)
	}

	if expired := expiredCause(cmd.Context()); expired != nil {
		return expired
	}
	return err
}

func streamWatch(ctx context.Context, out io.Writer, app *app, session *watchSession, asJSON bool) error {
	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-session.cycles:
			view := session.dashboard.View()
			if asJSON {
				if err := enc.Encode(view); err != nil {
					return err
				}
				continue
			}

			frame, err := app.dashboardRenderer(view, dashboardadapter.RenderOptions{
				Now:        app.now(),
				StaleAfter: 3 * app.cfg.Poll.Interval,
			})
			if err != nil {
				return fmt.Errorf("render dashboard: %w", err)
			}
			if _, err := fmt.Fprintf(out, "%s\n\n", frame); err != nil {
				return err
			}
		}
	}
}

func runWatchTUI(ctx context.Context, out io.Writer, app *app, session *watchSession) error {
	p := tea.NewProgram(
		newWatchModel(ctx, app, session),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
