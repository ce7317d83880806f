package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/bell/internal/printer"
	"github.com/hay-kot/bell/pkg/iojson"
)

type RmCmd struct {
	flags *Flags
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Delete notifications",
		UsageText: "bell rm <id>...",
		Description: `Deletes the given notifications on the server. IDs may be passed as
arguments or piped on stdin, one per line.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	args, err := iojson.ReadArgs(c.Args().Slice())
	if err != nil {
		return err
	}
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	b, err := newBackend(cmd.flags.Config)
	if err != nil {
		return err
	}
	if err := requireSession(b.session); err != nil {
		return err
	}

	mgr, rec := oneShot(ctx, b)
	for _, id := range ids {
		mgr.DeleteNotification(id)
	}
	if err := rec.Err(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	p.Successf("Deleted %d notification(s), %d unread", len(ids), mgr.UnreadCount())
	return nil
}
