package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bell/internal/core/eventloop"
	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/internal/profiler"
	"github.com/hay-kot/bell/pkg/iojson"
)

type WatchCmd struct {
	flags *Flags

	poll         time.Duration
	toastsOnly   bool
	profilerPort int
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Stream notification changes as JSON lines",
		UsageText: "bell watch [--poll 30s] [--toasts-only]",
		Description: `Opens the push channel and writes one JSON object per line for every
view change ("view") and every new notification ("toast") until interrupted.

Without a push channel the list is loaded once; --poll reloads it on an
interval.`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:        "poll",
				Usage:       "reload the list on this interval (0 disables)",
				Destination: &cmd.poll,
			},
			&cli.BoolFlag{
				Name:        "toasts-only",
				Usage:       "only emit new notification events",
				Destination: &cmd.toastsOnly,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
				Sources:     cli.EnvVars("BELL_PROFILER_PORT"),
				Destination: &cmd.profilerPort,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	b, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireSession(b.session); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd.profilerPort > 0 {
		shutdown, err := startProfiler(ctx, cmd.profilerPort)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	queue := eventloop.NewQueue(ctx)
	sink := newLineSink(c.Root().Writer, cmd.toastsOnly)

	mgr := notify.NewManager(notify.Deps{
		Session:   b.session,
		API:       b.api,
		Transport: b.transport,
		Sink:      sink,
		Loop:      queue,
	}, notify.Options{
		ToastTTL: cfg.Toast.TTL,
		Mute:     cfg.Toast.Mute,
	})

	queue.Post(mgr.Start)
	if cmd.poll > 0 {
		go poll(ctx, queue, mgr, cmd.poll)
	}

	err = queue.Run(ctx)
	queue.Post(mgr.Close)
	queue.RunPending()

	if err := sink.Err(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func poll(ctx context.Context, q *eventloop.Queue, mgr *notify.Manager, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.Post(mgr.LoadNotifications)
		}
	}
}

func startProfiler(ctx context.Context, port int) (func(), error) {
	server := profiler.New(port)
	if err := server.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", server.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}

// watchLine is one record of the watch stream.
type watchLine struct {
	Event string        `json:"event"`
	Time  time.Time     `json:"time"`
	View  *notify.View  `json:"view,omitempty"`
	Toast *notify.Toast `json:"toast,omitempty"`
}

// lineSink writes manager output as JSON lines. Consecutive identical views
// are collapsed. It runs on the queue goroutine only.
type lineSink struct {
	out        *iojson.LineWriter
	toastsOnly bool
	now        func() time.Time

	last *notify.View
	err  error
}

func newLineSink(w io.Writer, toastsOnly bool) *lineSink {
	return &lineSink{out: iojson.NewLineWriter(w), toastsOnly: toastsOnly, now: time.Now}
}

func (s *lineSink) Render(v notify.View) {
	if s.toastsOnly || s.err != nil {
		return
	}
	if s.last != nil && sameView(*s.last, v) {
		return
	}
	s.last = &v
	s.write(watchLine{Event: "view", Time: s.now(), View: &v})
}

func (s *lineSink) Toast(t notify.Toast) {
	if s.err != nil {
		return
	}
	s.write(watchLine{Event: "toast", Time: s.now(), Toast: &t})
}

func (s *lineSink) write(line watchLine) {
	if err := s.out.Write(line); err != nil {
		s.err = err
	}
}

// Err returns the first write failure.
func (s *lineSink) Err() error { return s.err }

func sameView(a, b notify.View) bool {
	return a.Status == b.Status &&
		a.Badge == b.Badge &&
		a.UnreadCount == b.UnreadCount &&
		a.PanelVisible == b.PanelVisible &&
		slices.Equal(a.Items, b.Items)
}
