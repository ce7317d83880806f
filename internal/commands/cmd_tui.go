package commands

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bell/internal/tui"
)

type TuiCmd struct {
	flags        *Flags
	profilerPort int
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("BELL_PROFILER_PORT"),
			Destination: &cmd.profilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config

	b, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireSession(b.session); err != nil {
		return err
	}

	if cmd.profilerPort > 0 {
		shutdown, err := startProfiler(ctx, cmd.profilerPort)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := tui.New(tui.Options{
		Session:   b.session,
		API:       b.api,
		Transport: b.transport,
		ToastTTL:  cfg.Toast.TTL,
		MaxToasts: cfg.Toast.Max,
		Mute:      cfg.Toast.Mute,
		Server:    serverLabel(cfg.Server.URL),
		Context:   ctx,
	})

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// serverLabel strips the scheme for the header.
func serverLabel(raw string) string {
	_, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	return strings.TrimSuffix(rest, "/")
}
