package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bell/internal/printer"
	"github.com/hay-kot/bell/pkg/iojson"
)

type ReadCmd struct {
	flags *Flags

	all bool
}

// NewReadCmd creates a new read command
func NewReadCmd(flags *Flags) *ReadCmd {
	return &ReadCmd{flags: flags}
}

// Register adds the read command to the application
func (cmd *ReadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "read",
		Usage:     "Mark notifications as read",
		UsageText: "bell read <id>... | bell read --all",
		Description: `Marks the given notifications as read. IDs may be passed as arguments
or piped on stdin, one per line.

Use --all to mark every notification read.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "mark every notification as read",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReadCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	b, err := newBackend(cmd.flags.Config)
	if err != nil {
		return err
	}
	if err := requireSession(b.session); err != nil {
		return err
	}

	mgr, rec := oneShot(ctx, b)

	if cmd.all {
		if c.Args().Len() > 0 {
			return fmt.Errorf("--all does not take notification ids")
		}
		mgr.MarkAllAsRead()
		if err := rec.Err(); err != nil {
			return fmt.Errorf("mark all read: %w", err)
		}
		p.Successf("Marked all notifications read")
		return nil
	}

	args, err := iojson.ReadArgs(c.Args().Slice())
	if err != nil {
		return err
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	for _, id := range ids {
		mgr.MarkAsRead(id)
	}
	if err := rec.Err(); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	p.Successf("Marked %d notification(s) read, %d unread", len(ids), mgr.UnreadCount())
	return nil
}
